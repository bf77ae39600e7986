package cmd

import (
	"fmt"
	"os"

	"github.com/borzacchiello/goconcolic/cmd/exitcodes"
	"github.com/borzacchiello/goconcolic/config"
	"github.com/spf13/cobra"
)

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:           "init",
	Short:         "Initializes a project configuration",
	Long:          `Writes the default project configuration, ready to be edited`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunInit,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	addInitFlags()
	rootCmd.AddCommand(initCmd)
}

func cmdRunInit(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("out")
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(outputPath); err == nil && !force {
		err = fmt.Errorf("%s already exists, use --force to overwrite it", outputPath)
		cmdLogger.Error("Failed to run the init command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	projectConfig := config.GetDefaultProjectConfig()
	if cmd.Flags().Changed("cache") {
		projectConfig.Cache.Enabled = true
		projectConfig.Cache.Backend, _ = cmd.Flags().GetString("cache")
	}
	if cmd.Flags().Changed("corpus-dir") {
		projectConfig.Corpus.Directory, _ = cmd.Flags().GetString("corpus-dir")
	}
	if err := projectConfig.Validate(); err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	if err := projectConfig.WriteToFile(outputPath); err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	cmdLogger.Info("Project configuration successfully output to: ", outputPath)
	return nil
}
