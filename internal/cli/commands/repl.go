package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/shellvet/shellvet/internal/cli/output"
	"github.com/shellvet/shellvet/pkg/lint"
	_ "github.com/shellvet/shellvet/pkg/lint/rules" // register rules
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively lint shell snippets",
		Long: `Start an interactive session for checking shell snippets.

Type or paste a snippet and finish it with an empty line to analyze it.
Multi-line constructs (loops, functions, case statements) are supported.`,
		Example: `  shellvet repl`,
		RunE:    runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	lintCfg := cmdCtx.Cfg.ToLintConfig()
	if err := lintCfg.Validate(); err != nil {
		return err
	}
	threshold := cmdCtx.Cfg.SeverityThreshold()

	historyFile := filepath.Join(os.TempDir(), "shellvet_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "shellvet> ",
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r.Printf("shellvet REPL. Finish a snippet with an empty line, .help for commands.\n\n")

	runner := lint.NewRunner(lintCfg, cmdCtx.Logger)

	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt("shellvet> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		trimmed := strings.TrimSpace(line)

		// Dot-commands only apply outside a pending snippet
		if buffer.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if quit := handleREPLCommand(cmd, r, trimmed, &threshold); quit {
				break
			}
			continue
		}

		// Empty line submits the pending snippet
		if trimmed == "" {
			if buffer.Len() == 0 {
				continue
			}
			snippet := buffer.String()
			buffer.Reset()
			rl.SetPrompt("shellvet> ")

			res, err := runner.RunOne(cmd.Context(), lint.Source{ID: "snippet", Content: snippet})
			if err != nil {
				r.Errorf("Error: %v\n", err)
				continue
			}
			renderSnippetResult(cmd, threshold, res)
			continue
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")
		rl.SetPrompt("     ...> ")
	}

	return nil
}

func renderSnippetResult(cmd *cobra.Command, threshold lint.Severity, res lint.Result) {
	out := cmd.OutOrStdout()
	shown := 0
	for _, d := range res.Diagnostics {
		if !d.Severity.AtLeast(threshold) {
			continue
		}
		shown++
		_, _ = fmt.Fprintf(out, "%d:%d  %s  %s  %s\n", d.Pos.Line, d.Pos.Column, d.Severity, d.RuleID, d.Message)
		if d.SuggestedFix != "" {
			_, _ = fmt.Fprintf(out, "       fix: %s\n", d.SuggestedFix)
		}
	}
	if shown == 0 {
		_, _ = fmt.Fprintln(out, "ok")
	}
	_, _ = fmt.Fprintln(out)
}

// handleREPLCommand processes a dot-command. Returns true to exit.
func handleREPLCommand(cmd *cobra.Command, r *output.Renderer, line string, threshold *lint.Severity) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		r.Printf(`
Commands:
  .help              Show this help message
  .rules             List available rules
  .severity <level>  Set the reporting threshold (error, warning, info, hint)
  .clear             Clear the screen
  .quit / .exit      Exit

Tips:
  - Finish a snippet with an empty line to analyze it
  - Use arrow keys to navigate history
`)

	case ".rules":
		for _, info := range ruleInfos() {
			r.Printf("  %s  %-32s %s\n", info.ID, info.Name, info.DefaultSeverity)
		}

	case ".severity":
		if len(parts) < 2 {
			r.Printf("current threshold: %s\n", *threshold)
			return false
		}
		if s, ok := lint.ParseSeverity(parts[1]); ok {
			*threshold = s
			r.Printf("threshold set to %s\n", s)
		} else {
			r.Printf("unknown severity %q\n", parts[1])
		}

	case ".clear":
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")

	default:
		r.Printf("Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

// newREPLCompleter creates a readline completer for rule IDs and dot-commands.
func newREPLCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".rules"),
		readline.PcItem(".severity",
			readline.PcItem("error"),
			readline.PcItem("warning"),
			readline.PcItem("info"),
			readline.PcItem("hint"),
		),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	return readline.NewPrefixCompleter(items...)
}
