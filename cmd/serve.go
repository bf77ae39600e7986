package cmd

import (
	"github.com/borzacchiello/goconcolic/api"
	"github.com/borzacchiello/goconcolic/cmd/exitcodes"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:           "serve",
	Short:         "Serves exploration and checking over HTTP",
	Args:          cobra.NoArgs,
	RunE:          cmdRunServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	addServeFlags()
	rootCmd.AddCommand(serveCmd)
}

func cmdRunServe(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the serve command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer closeLogging()

	if err := updateProjectConfigWithServeFlags(cmd, projectConfig); err != nil {
		cmdLogger.Error("Failed to run the serve command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	svc, m, err := newGradingService(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the serve command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer svc.Close()

	if cmdLogger.Level() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	var opts []api.Option
	if m != nil {
		opts = append(opts, api.WithMetrics(m.Handler()))
	}
	return api.NewServer(svc, opts...).Run(projectConfig.Server.Address)
}
