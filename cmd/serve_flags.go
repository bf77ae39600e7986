package cmd

import (
	"fmt"

	"github.com/borzacchiello/goconcolic/config"
	"github.com/spf13/cobra"
)

// addServeFlags adds the various flags for the serve command
func addServeFlags() {
	defaultConfig := config.GetDefaultProjectConfig()

	serveCmd.Flags().String("address", "",
		fmt.Sprintf("address to listen on (unless a config file is provided, default is %q)", defaultConfig.Server.Address))
	serveCmd.Flags().Bool("metrics", false,
		fmt.Sprintf("expose prometheus metrics on /metrics (unless a config file is provided, default is %t)", defaultConfig.Metrics.Enabled))
	serveCmd.Flags().String("corpus-dir", "",
		fmt.Sprintf("directory where results are saved (unless a config file is provided, default is %q)", defaultConfig.Corpus.Directory))
}

// updateProjectConfigWithServeFlags will update the given projectConfig with any CLI arguments that were provided to the serve command
func updateProjectConfigWithServeFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error
	if cmd.Flags().Changed("address") {
		projectConfig.Server.Address, err = cmd.Flags().GetString("address")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("metrics") {
		projectConfig.Metrics.Enabled, err = cmd.Flags().GetBool("metrics")
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
