package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DrSkyle/tagaudit/pkg/config"
	"github.com/DrSkyle/tagaudit/pkg/version"
)

var (
	cfgFile string
	verbose bool
	cfg     config.AnalysisConfig
)

var rootCmd = &cobra.Command{
	Use:   "tagaudit",
	Short: "Terraform tag-governance auditor",
	Long: `TagAudit - Tag Compliance for Terraform Codebases

Parse. Trace. Enforce.`,
	Version: version.Current,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringSlice("required-tags", config.DefaultRequiredTags, "Required governance tags (comma-separated)")
	rootCmd.PersistentFlags().Int("max-depth", 32, "Maximum nested module depth")
	rootCmd.PersistentFlags().String("otlp-endpoint", "", "OTLP trace exporter endpoint")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show per-resource issue details")

	viper.BindPFlag("required_tags", rootCmd.PersistentFlags().Lookup("required-tags"))
	viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))
	viper.BindPFlag("otlp_endpoint", rootCmd.PersistentFlags().Lookup("otlp-endpoint"))

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderStyledHelp(cmd)
	})

	rootCmd.AddCommand(AnalyzeCmd)
	rootCmd.AddCommand(ExportCmd)
	rootCmd.AddCommand(ServeCmd)
	rootCmd.AddCommand(BrowseCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", version.AppName, version.Current)
	},
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".tagaudit.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("TAGAUDIT")
	viper.AutomaticEnv()
	viper.ReadInConfig()

	cfg = config.DefaultAnalysisConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the run logger: JSON records at info level, debug
// when verbose.
func newLogger(out io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

func renderStyledHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#6366F1")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("TAGAUDIT %s", version.Current)))
	fmt.Println("Tag compliance analysis for Terraform codebases.")

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	fmt.Println(titleStyle.Render("COMMANDS"))
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
		}
	}
	fmt.Println("")

	fmt.Println(titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-16s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Println(flagStyle.Render(output))
	})
	fmt.Println("")
}
