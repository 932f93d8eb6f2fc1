package commands

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/tagaudit/pkg/policy"
	"github.com/DrSkyle/tagaudit/pkg/report"
	"github.com/DrSkyle/tagaudit/pkg/storage"
)

var (
	exportFormat string
	exportDest   string
	exportRules  string
)

var ExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export compliance reports (CSV, JSON, Markdown)",
	Long: `Run an analysis and publish the report artifacts.

The destination is a local directory or an s3:// URI. With --rules,
matched CEL policy rule IDs are appended to each resource's issues.

Example:
  tagaudit export ./infrastructure --format all --dest ./output
  tagaudit export ./infrastructure --dest s3://compliance-reports/audits
  tagaudit export ./infrastructure --rules rules.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		snap, err := runAnalysis(ctx, args[0])
		if err != nil {
			return err
		}

		rows := report.BuildRows(snap)
		if exportRules != "" {
			rules, err := policy.LoadRules(exportRules)
			if err != nil {
				return err
			}
			engine, err := policy.NewEngine()
			if err != nil {
				return err
			}
			if err := engine.Compile(rules); err != nil {
				return err
			}
			rows = policy.Annotate(rows, engine)
		}

		artifacts := make(map[string][]byte)

		if exportFormat == "csv" || exportFormat == "all" {
			var buf bytes.Buffer
			if err := report.RenderCSV(rows, &buf); err != nil {
				return err
			}
			artifacts["tag_analysis.csv"] = buf.Bytes()
		}
		if exportFormat == "json" || exportFormat == "all" {
			var buf bytes.Buffer
			if err := report.RenderJSON(rows, &buf); err != nil {
				return err
			}
			artifacts["tag_analysis.json"] = buf.Bytes()
		}
		if exportFormat == "markdown" || exportFormat == "all" {
			var buf bytes.Buffer
			if err := report.WriteMarkdown(snap, &buf); err != nil {
				return err
			}
			artifacts["summary.md"] = buf.Bytes()
		}
		if len(artifacts) == 0 {
			return fmt.Errorf("unknown format %q (want csv, json, markdown, or all)", exportFormat)
		}

		store, prefix, err := storage.FromDestination(ctx, exportDest)
		if err != nil {
			return err
		}
		runPrefix := prefix
		if runPrefix != "" {
			runPrefix = prefix + "/" + time.Now().UTC().Format("2006-01-02")
		}
		if err := storage.Publish(ctx, store, runPrefix, artifacts); err != nil {
			return err
		}

		fmt.Println("Export complete.")
		for name := range artifacts {
			fmt.Printf("  %s -> %s\n", name, exportDest)
		}
		return nil
	},
}

func init() {
	ExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json, markdown, all)")
	ExportCmd.Flags().StringVar(&exportDest, "dest", "./output", "Destination directory or s3:// URI")
	ExportCmd.Flags().StringVar(&exportRules, "rules", "", "YAML file of CEL policy rules")
}
