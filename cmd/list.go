package cmd

import (
	"github.com/borzacchiello/goconcolic/grading"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:           "list",
	Short:         "Lists the built-in programs and their variants",
	Args:          cobra.NoArgs,
	RunE:          cmdRunList,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	listCmd.Flags().Bool("json", false, "print the list as JSON")
	rootCmd.AddCommand(listCmd)
}

func cmdRunList(cmd *cobra.Command, args []string) error {
	progs := grading.Programs()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), progs)
	}
	noColor, _ := cmd.Flags().GetBool("no-color")
	return printMarkdown(cmd.OutOrStdout(), programsMarkdown(progs), noColor)
}
