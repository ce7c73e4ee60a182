package lint

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/shellvet/shellvet/pkg/parser"
	"github.com/shellvet/shellvet/pkg/token"
)

// Source is one script to analyze. ID identifies it in results, typically a
// file path; Content is the raw script text.
type Source struct {
	ID      string
	Content string
}

// Result holds the diagnostics for one source.
type Result struct {
	SourceID    string       `json:"source_id"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Runner analyzes a batch of sources concurrently. Results come back in input
// order regardless of which script finishes first.
type Runner struct {
	config   *Config
	analyzer *Analyzer
	log      *slog.Logger
}

// NewRunner creates a runner. A nil logger discards run telemetry.
func NewRunner(config *Config, log *slog.Logger) *Runner {
	if config == nil {
		config = NewConfig()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		config:   config,
		analyzer: NewAnalyzer(config),
		log:      log,
	}
}

// Run validates the configuration and analyzes every source. A configuration
// error rejects the whole run before any script is parsed. Per-script
// failures (timeouts, rule panics, unparsable regions) become diagnostics on
// that script's result instead of failing the run.
func (r *Runner) Run(ctx context.Context, sources []Source) ([]Result, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	workers := r.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	timeout := r.config.GetFileTimeout()

	results := make([]Result, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range sources {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			script := parser.Parse(src.ID, src.Content)
			diags, err := r.analyzer.AnalyzeScript(fctx, script)
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				r.log.Warn("analysis timed out", "source", src.ID, "timeout", timeout)
				diags = append(diags, Diagnostic{
					RuleID:   EngineTimeout,
					Severity: SeverityWarning,
					Message:  "analysis timed out; results for this script are incomplete",
					Pos:      token.Position{Line: 1, Column: 1},
				})
			case err != nil:
				return err
			}

			r.log.Debug("analyzed script", "source", src.ID, "diagnostics", len(diags))
			results[i] = Result{SourceID: src.ID, Diagnostics: diags}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunOne analyzes a single source with the runner's configuration.
func (r *Runner) RunOne(ctx context.Context, src Source) (Result, error) {
	results, err := r.Run(ctx, []Source{src})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}
