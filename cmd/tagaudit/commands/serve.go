package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/DrSkyle/tagaudit/pkg/server"
)

var servePort int

var ServeCmd = &cobra.Command{
	Use:   "serve <path>",
	Short: "Serve the analysis over a web interface",
	Long: `Run an analysis and serve the results: a JSON API plus an
interactive dependency-graph page.

Example:
  tagaudit serve ./infrastructure --port 8000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := runAnalysis(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		serverCfg := server.DefaultConfig()
		serverCfg.Port = servePort
		return server.New(snap, newLogger(os.Stderr), serverCfg).Start(cmd.Context())
	},
}

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 8000, "HTTP listen port")
}
