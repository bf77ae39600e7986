package main

import (
	"fmt"
	"os"

	"github.com/borzacchiello/goconcolic/cmd"
	"github.com/borzacchiello/goconcolic/cmd/exitcodes"
	"github.com/joho/godotenv"
)

func main() {
	// GOCONCOLIC_CONFIG, GOCONCOLIC_REDIS_PASSWORD and NO_COLOR may come from a local .env file
	_ = godotenv.Load()

	err := cmd.Execute()

	var exitCode int
	err, exitCode = exitcodes.GetInnerErrorAndExitCode(err)
	if err != nil && exitCode != exitcodes.ExitCodeHandledError {
		fmt.Fprintln(os.Stderr, err)
	}
	if exitCode != exitcodes.ExitCodeSuccess {
		os.Exit(exitCode)
	}
}
