package cmd

import (
	"os"

	"github.com/borzacchiello/goconcolic/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger of the cmd package. It is rebuilt once the project configuration is loaded.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel)

var rootCmd = &cobra.Command{
	Use:   "goconcolic",
	Short: "Concolic exploration and differential equivalence checking",
	Long: `goconcolic explores the paths of small integer programs by concolic execution
and checks candidate implementations against a reference one.`,
}

func init() {
	cmdLogger.AddWriter(os.Stderr, logging.UNSTRUCTURED, true)

	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
}

func Execute() error {
	return rootCmd.Execute()
}
