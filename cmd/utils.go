package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/borzacchiello/goconcolic/config"
	"github.com/borzacchiello/goconcolic/corpus"
	"github.com/borzacchiello/goconcolic/grading"
	"github.com/borzacchiello/goconcolic/metrics"
	"github.com/borzacchiello/goconcolic/programs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newGradingService opens the corpus and the query cache of projectConfig. The returned metrics are nil unless
// metrics are enabled.
func newGradingService(projectConfig *config.ProjectConfig) (*grading.Service, *metrics.Metrics, error) {
	c, err := corpus.Open(projectConfig.Corpus.Directory)
	if err != nil {
		return nil, nil, err
	}
	opts := []grading.Option{grading.WithCorpus(c)}

	var m *metrics.Metrics
	if projectConfig.Metrics.Enabled {
		m = metrics.New()
		opts = append(opts, grading.WithHooks(m.Hooks()))
	}
	svc, err := grading.New(projectConfig, opts...)
	if err != nil {
		return nil, nil, err
	}
	return svc, m, nil
}

// interruptible returns a context cancelled on the first interrupt.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// cmdValidProgramArgs completes program names for the first positional argument and variant names for the second.
func cmdValidProgramArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return programs.Names(), cobra.ShellCompDirectiveNoFileComp
	case 1:
		if cmd.Name() == "check" {
			if p, err := programs.Lookup(args[0]); err == nil {
				return p.VariantNames(), cobra.ShellCompDirectiveNoFileComp
			}
		}
	}

	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}
