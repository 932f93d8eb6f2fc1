package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/tagaudit/pkg/analyzer"
	"github.com/DrSkyle/tagaudit/pkg/tui"
)

var BrowseCmd = &cobra.Command{
	Use:   "browse <path>",
	Short: "Browse modules interactively (TUI)",
	Long: `Launch the interactive terminal browser: a compliance list over
every module with per-module detail views.

Example:
  tagaudit browse ./infrastructure`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The alternate screen owns the terminal; drop log output.
		logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
		return tui.Run(args[0],
			analyzer.WithLogger(logger),
			analyzer.WithRequiredTags(cfg.RequiredTags),
			analyzer.WithMaxDepth(cfg.MaxDepth),
		)
	},
}
