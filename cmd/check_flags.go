package cmd

import (
	"fmt"

	"github.com/borzacchiello/goconcolic/config"
	"github.com/spf13/cobra"
)

// addCheckFlags adds the various flags for the check command
func addCheckFlags() {
	defaultConfig := config.GetDefaultProjectConfig()

	checkCmd.Flags().SortFlags = false

	checkCmd.Flags().Int("max-iterations", 0,
		fmt.Sprintf("maximum number of executions of the reference when generating inputs (unless a config file is provided, default is %d)", defaultConfig.IterationsForChecking()))
	checkCmd.Flags().Bool("stop-on-first", false,
		fmt.Sprintf("stop at the first finding (unless a config file is provided, default is %t)", defaultConfig.Checking.StopOnFirst))
	checkCmd.Flags().String("corpus-dir", "",
		fmt.Sprintf("directory where reports are saved and counterexamples are replayed from (unless a config file is provided, default is %q)", defaultConfig.Corpus.Directory))
	checkCmd.Flags().String("cache", "",
		fmt.Sprintf("solver query cache: off, memory, bolt or redis (unless a config file is provided, default is %q)", "off"))
	checkCmd.Flags().Bool("json", false, "print the report as JSON")
}

// updateProjectConfigWithCheckFlags will update the given projectConfig with any CLI arguments that were provided to the check command
func updateProjectConfigWithCheckFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error
	if cmd.Flags().Changed("max-iterations") {
		projectConfig.Checking.MaxIterations, err = cmd.Flags().GetInt("max-iterations")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("stop-on-first") {
		projectConfig.Checking.StopOnFirst, err = cmd.Flags().GetBool("stop-on-first")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("corpus-dir") {
		projectConfig.Corpus.Directory, err = cmd.Flags().GetString("corpus-dir")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("cache") {
		backend, err := cmd.Flags().GetString("cache")
		if err != nil {
			return err
		}
		projectConfig.Cache.Enabled = backend != "off"
		if projectConfig.Cache.Enabled {
			projectConfig.Cache.Backend = backend
		}
	}
	return projectConfig.Validate()
}
