package cmd

import (
	"fmt"

	"github.com/borzacchiello/goconcolic/cmd/exitcodes"
	"github.com/borzacchiello/goconcolic/grading"
	"github.com/spf13/cobra"
)

// exploreCmd represents the command provider for exploration
var exploreCmd = &cobra.Command{
	Use:               "explore <program>",
	Short:             "Generates inputs covering the paths of a program",
	Long:              `Runs concolic exploration on the reference implementation of a built-in program and prints the generated inputs`,
	Args:              cmdValidateExploreArgs,
	ValidArgsFunction: cmdValidProgramArgs,
	RunE:              cmdRunExplore,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	addExploreFlags()
	rootCmd.AddCommand(exploreCmd)
}

func cmdValidateExploreArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return fmt.Errorf("explore takes exactly one program name (see `goconcolic list`)")
	}
	return nil
}

func cmdRunExplore(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the explore command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer closeLogging()

	if err := updateProjectConfigWithExploreFlags(cmd, projectConfig); err != nil {
		cmdLogger.Error("Failed to run the explore command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	svc, _, err := newGradingService(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the explore command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer svc.Close()

	ctx, stop := interruptible()
	defer stop()
	resp, err := svc.Explore(ctx, grading.ExploreRequest{Program: args[0]})
	if err != nil {
		cmdLogger.Error("Failed to run the explore command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(cmd.OutOrStdout(), resp)
	}
	return printMarkdown(cmd.OutOrStdout(), explorationMarkdown(resp.Result), projectConfig.Logging.NoColor)
}
