package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/shellvet/shellvet/internal/cli/config"
	"github.com/shellvet/shellvet/internal/cli/output"
	"github.com/shellvet/shellvet/pkg/lint"
	_ "github.com/shellvet/shellvet/pkg/lint/rules" // register rules
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Paths    []string // Files or directories to check
	Format   string   // Output format override
	Disable  []string // Rule IDs to disable
	Rules    []string // Run only specific rules
	Severity string   // Minimum severity to report
	Watch    bool     // Re-run on file changes
}

// scriptExtensions are the file extensions picked up when walking directories.
var scriptExtensions = map[string]bool{".sh": true, ".bash": true}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Run lint rules on shell scripts",
		Long: `Analyze shell scripts for array, quoting, integer, and scoping pitfalls.

Directories are walked recursively for .sh and .bash files; files given
explicitly are always checked. Rules can be configured in shellvet.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable formats`,
		Example: `  # Check the current directory
  shellvet check

  # Check specific scripts
  shellvet check deploy.sh scripts/

  # Output as JSON
  shellvet check --format json

  # Disable specific rules
  shellvet check --disable AR02,LS01

  # Only report errors (ignore warnings and below)
  shellvet check --severity error

  # Re-run whenever a script changes
  shellvet check --watch scripts/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			if len(opts.Paths) == 0 {
				opts.Paths = []string{"."}
			}
			return runCheck(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Minimum severity: error, warning, info, hint")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run checks when scripts change")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	lintCfg := buildLintConfig(cfg, opts)
	if err := lintCfg.Validate(); err != nil {
		return err
	}

	threshold := cfg.SeverityThreshold()
	if opts.Severity != "" {
		if s, ok := lint.ParseSeverity(opts.Severity); ok {
			threshold = s
		} else {
			return fmt.Errorf("invalid severity %q", opts.Severity)
		}
	}

	if opts.Watch {
		return watchAndCheck(cmd, cmdCtx, r, lintCfg, threshold, opts)
	}

	hasIssues, err := checkOnce(cmd.Context(), cmdCtx, r, lintCfg, threshold, opts.Paths)
	if err != nil {
		return err
	}
	if hasIssues {
		return fmt.Errorf("issues found")
	}
	return nil
}

// checkOnce collects, lints, and renders one pass over the paths.
func checkOnce(ctx context.Context, cmdCtx *CommandContext, r *output.Renderer, lintCfg *lint.Config, threshold lint.Severity, paths []string) (bool, error) {
	files, err := collectScripts(paths)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no shell scripts found in %s", strings.Join(paths, ", "))
	}

	sources := make([]lint.Source, 0, len(files))
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", path, err)
		}
		sources = append(sources, lint.Source{ID: path, Content: string(content)})
	}

	runner := lint.NewRunner(lintCfg, cmdCtx.Logger)
	results, err := runner.Run(ctx, sources)
	if err != nil {
		return false, err
	}

	filtered := filterBySeverity(results, threshold)
	return renderCheckResults(r, filtered, len(sources)), nil
}

// buildLintConfig layers CLI flags over the project configuration.
func buildLintConfig(cfg *config.Config, opts *CheckOptions) *lint.Config {
	lintCfg := cfg.ToLintConfig()

	// Apply CLI overrides (higher precedence)
	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabledSet := make(map[string]bool)
		for _, id := range opts.Rules {
			enabledSet[strings.TrimSpace(id)] = true
		}
		for _, def := range lint.GetAll() {
			if !enabledSet[def.ID] {
				lintCfg.Disable(def.ID)
			}
		}
	}

	return lintCfg
}

// collectScripts resolves paths to the list of script files to check.
// Explicit file arguments are always included; directories are walked
// for known shell extensions, skipping hidden directories.
func collectScripts(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if scriptExtensions[filepath.Ext(p)] {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// filterBySeverity drops diagnostics below the severity threshold and
// results left with no diagnostics.
func filterBySeverity(results []lint.Result, threshold lint.Severity) []lint.Result {
	var filtered []lint.Result
	for _, res := range results {
		var diags []lint.Diagnostic
		for _, d := range res.Diagnostics {
			if d.Severity.AtLeast(threshold) {
				diags = append(diags, d)
			}
		}
		if len(diags) > 0 {
			filtered = append(filtered, lint.Result{SourceID: res.SourceID, Diagnostics: diags})
		}
	}
	return filtered
}

func renderCheckResults(r *output.Renderer, results []lint.Result, filesChecked int) bool {
	summary := output.CheckSummary{FilesChecked: filesChecked}
	for _, res := range results {
		summary.TotalIssues += len(res.Diagnostics)
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
	}

	out := output.CheckOutput{Summary: summary}
	for _, res := range results {
		fileResult := output.CheckFileResult{Path: res.SourceID}
		for _, d := range res.Diagnostics {
			fileResult.Diagnostics = append(fileResult.Diagnostics, output.CheckDiagnostic{
				RuleID:       d.RuleID,
				Severity:     d.Severity.String(),
				Message:      d.Message,
				Line:         d.Pos.Line,
				Column:       d.Pos.Column,
				SuggestedFix: d.SuggestedFix,
			})
		}
		out.Files = append(out.Files, fileResult)
	}

	if done, _ := r.Structured(out); done {
		return summary.TotalIssues > 0
	}

	if len(results) == 0 {
		r.Success("No issues found")
		return false
	}

	// Text/Markdown output
	for _, res := range results {
		r.Println(r.Styles().FilePath.Render(res.SourceID))
		for _, d := range res.Diagnostics {
			loc := fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			if d.Pos.Line == 0 {
				loc = "-"
			}
			r.Printf("  %s  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-6s", loc)),
				severityLabel(r, d.Severity),
				r.Styles().Bold.Render(d.RuleID),
				d.Message,
			)
			if d.SuggestedFix != "" {
				r.Println(r.Styles().Muted.Render("          fix: " + d.SuggestedFix))
			}
		}
		r.Println("")
	}

	// Print summary
	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(summaryParts, ", "), summary.FilesChecked)

	return true
}

func severityLabel(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case lint.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case lint.SeverityHint:
		return r.Styles().Hint.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}

// watchDebounce coalesces bursts of filesystem events into one re-run.
const watchDebounce = 200 * time.Millisecond

// watchAndCheck re-runs the check whenever a watched script changes.
// Findings do not produce a non-zero exit in watch mode.
func watchAndCheck(cmd *cobra.Command, cmdCtx *CommandContext, r *output.Renderer, lintCfg *lint.Config, threshold lint.Severity, opts *CheckOptions) error {
	ctx := cmd.Context()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatchTargets(watcher, opts.Paths); err != nil {
		return err
	}

	if _, err := checkOnce(ctx, cmdCtx, r, lintCfg, threshold, opts.Paths); err != nil {
		r.Errorf("Error: %v\n", err)
	}
	r.Println(r.Styles().Muted.Render("Watching for changes (Ctrl+C to stop)"))

	var timer *time.Timer
	rerun := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if !scriptExtensions[filepath.Ext(event.Name)] {
				continue
			}
			// Debounce: editors fire several events per save
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			r.Println("")
			if _, err := checkOnce(ctx, cmdCtx, r, lintCfg, threshold, opts.Paths); err != nil {
				r.Errorf("Error: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watch error", "error", err)
		}
	}
}

// addWatchTargets registers the directories containing the checked scripts.
func addWatchTargets(watcher *fsnotify.Watcher, paths []string) error {
	dirs := make(map[string]bool)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			dirs[filepath.Dir(path)] = true
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				dirs[p] = true
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return nil
}
