package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/borzacchiello/goconcolic/config"
	"github.com/borzacchiello/goconcolic/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	configEnv        = "GOCONCOLIC_CONFIG"
	redisPasswordEnv = "GOCONCOLIC_REDIS_PASSWORD"
)

// loadProjectConfig goes through the following possibilities:
// #1: The config file given by --config, $GOCONCOLIC_CONFIG, or goconcolic.yaml in the working directory, exists and
// is read.
// #2: --config was used and the file does not exist, which is an error.
// #3: --config was not used and goconcolic.yaml does not exist, so the default configuration is used.
// The flags shared by every command are applied on top.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if !configFlagUsed && os.Getenv(configEnv) != "" {
		configFlagUsed = true
		configPath = os.Getenv(configEnv)
	}
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(workingDirectory, config.DefaultConfigFile)
	}

	var projectConfig *config.ProjectConfig
	_, existenceError := os.Stat(configPath)
	switch {
	case existenceError == nil:
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			return nil, err
		}
	case configFlagUsed:
		return nil, existenceError
	default:
		projectConfig = config.GetDefaultProjectConfig()
	}

	if cmd.Flags().Changed("log-level") {
		projectConfig.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("no-color") {
		projectConfig.Logging.NoColor, _ = cmd.Flags().GetBool("no-color")
	}
	if projectConfig.Cache.RedisPassword == "" {
		projectConfig.Cache.RedisPassword = os.Getenv(redisPasswordEnv)
	}
	if err := projectConfig.Validate(); err != nil {
		return nil, err
	}

	if err := setupLogging(projectConfig); err != nil {
		return nil, err
	}
	if existenceError == nil {
		cmdLogger.Debug("read the configuration file at ", configPath)
	} else {
		cmdLogger.Debug("no configuration file at ", configPath, ", using the defaults")
	}
	return projectConfig, nil
}

// logFile is the structured log of the current command, closed by closeLogging.
var logFile *os.File

// setupLogging replaces the global logger with one following the project configuration. Console output goes to
// stderr so that stdout only carries results.
func setupLogging(projectConfig *config.ProjectConfig) error {
	level, err := logging.ParseLevel(projectConfig.Logging.Level)
	if err != nil {
		return err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logging.GlobalLogger = logging.NewLogger(level)
	logging.GlobalLogger.AddWriter(os.Stderr, logging.UNSTRUCTURED, !projectConfig.Logging.NoColor)
	if projectConfig.Logging.LogDirectory != "" {
		logFile, err = logging.NewFileWriter(projectConfig.Logging.LogDirectory)
		if err != nil {
			return fmt.Errorf("could not create the log file: %w", err)
		}
		logging.GlobalLogger.AddWriter(logFile, logging.STRUCTURED, false)
	}
	cmdLogger = logging.GlobalLogger.NewSubLogger(logging.SERVICE_KEY, logging.CLI_SERVICE)
	return nil
}

func closeLogging() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
