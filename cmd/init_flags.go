package cmd

import "github.com/borzacchiello/goconcolic/config"

// addInitFlags adds the various flags for the init command
func addInitFlags() {
	initCmd.Flags().String("out", config.DefaultConfigFile, "path of the configuration file to write, .json or .yaml")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
	initCmd.Flags().String("cache", "", "enable the solver query cache with this backend: memory, bolt or redis")
	initCmd.Flags().String("corpus-dir", "", "directory where results are saved")
}
