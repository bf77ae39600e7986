package cmd

import (
	"fmt"

	"github.com/borzacchiello/goconcolic/cmd/exitcodes"
	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/borzacchiello/goconcolic/grading"
	"github.com/spf13/cobra"
)

// checkCmd represents the command provider for equivalence checking
var checkCmd = &cobra.Command{
	Use:   "check <program> <variant>",
	Short: "Checks a candidate variant against the reference implementation",
	Long: `Explores the reference implementation of a program, then runs the differential
equivalence check of a candidate variant on the generated inputs and on every
counterexample already saved in the corpus for the program.

Exits with 7 when the candidate is not equivalent and with 8 when the check
is inconclusive or found an unconfirmed divergence.`,
	Args:              cmdValidateCheckArgs,
	ValidArgsFunction: cmdValidProgramArgs,
	RunE:              cmdRunCheck,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	addCheckFlags()
	rootCmd.AddCommand(checkCmd)
}

func cmdValidateCheckArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(2)(cmd, args); err != nil {
		return fmt.Errorf("check takes a program name and a variant name (see `goconcolic list`)")
	}
	return nil
}

// verdictError turns a report into the error main exits with.
func verdictError(report *concolic.CheckReport) error {
	switch report.Verdict {
	case concolic.VerdictNotEquivalent:
		return exitcodes.NewErrorWithExitCode(fmt.Errorf("not equivalent %s", report.Counterexample), exitcodes.ExitCodeNotEquivalent)
	case concolic.VerdictInconclusive, concolic.VerdictPossiblyDivergent:
		return exitcodes.NewErrorWithExitCode(fmt.Errorf("%s after %d inputs", report.Verdict, report.Checked), exitcodes.ExitCodeInconclusive)
	}
	return nil
}

func cmdRunCheck(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the check command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer closeLogging()

	if err := updateProjectConfigWithCheckFlags(cmd, projectConfig); err != nil {
		cmdLogger.Error("Failed to run the check command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	svc, _, err := newGradingService(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the check command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer svc.Close()

	ctx, stop := interruptible()
	defer stop()
	resp, err := svc.Check(ctx, grading.CheckRequest{Program: args[0], Variant: args[1]})
	if err != nil {
		cmdLogger.Error("Failed to run the check command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		err = printJSON(cmd.OutOrStdout(), resp)
	} else {
		err = printMarkdown(cmd.OutOrStdout(), reportMarkdown(resp), projectConfig.Logging.NoColor)
	}
	if err != nil {
		return err
	}
	return verdictError(resp.Report)
}
