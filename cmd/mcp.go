package cmd

import (
	"net/http"

	"github.com/borzacchiello/goconcolic/cmd/exitcodes"
	"github.com/borzacchiello/goconcolic/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serves exploration and checking as MCP tools over stdio",
	Long: `Serves the list_programs, explore and check tools over stdin and stdout.
Logs go to stderr. With metrics enabled, they are served on the configured
metrics address.`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunMCP,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func cmdRunMCP(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the mcp command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer closeLogging()

	svc, m, err := newGradingService(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the mcp command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer svc.Close()

	if m != nil {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			if err := http.ListenAndServe(projectConfig.Metrics.Address, mux); err != nil {
				cmdLogger.Warn("metrics endpoint stopped: ", err)
			}
		}()
	}
	return mcpserver.NewServer(svc, Version).ServeStdio()
}
