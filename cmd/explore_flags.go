package cmd

import (
	"fmt"

	"github.com/borzacchiello/goconcolic/config"
	"github.com/spf13/cobra"
)

// addExploreFlags adds the various flags for the explore command
func addExploreFlags() {
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	exploreCmd.Flags().SortFlags = false

	exploreCmd.Flags().Int("max-iterations", 0,
		fmt.Sprintf("maximum number of executions (unless a config file is provided, default is %d). 0 means no limit", defaultConfig.Exploration.MaxIterations))
	exploreCmd.Flags().String("strategy", "",
		fmt.Sprintf("order in which pending constraints are solved, bfs or dfs (unless a config file is provided, default is %q)", defaultConfig.Exploration.Strategy))
	exploreCmd.Flags().StringToInt64("seed", nil, "initial parameter values, as name=value pairs")
	exploreCmd.Flags().String("corpus-dir", "",
		fmt.Sprintf("directory where results are saved (unless a config file is provided, default is %q)", defaultConfig.Corpus.Directory))
	exploreCmd.Flags().Bool("json", false, "print the result as JSON")
}

// updateProjectConfigWithExploreFlags will update the given projectConfig with any CLI arguments that were provided to the explore command
func updateProjectConfigWithExploreFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error
	if cmd.Flags().Changed("max-iterations") {
		projectConfig.Exploration.MaxIterations, err = cmd.Flags().GetInt("max-iterations")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("strategy") {
		projectConfig.Exploration.Strategy, err = cmd.Flags().GetString("strategy")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("seed") {
		projectConfig.Exploration.Seed, err = cmd.Flags().GetStringToInt64("seed")
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
	return projectConfig.Validate()
}
