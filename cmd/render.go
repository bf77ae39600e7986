package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/borzacchiello/goconcolic/concolic"
	"github.com/borzacchiello/goconcolic/grading"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

func outcomeOf(rv concolic.ReturnValue) string {
	if rv.Panic != "" {
		return "panic: " + rv.Panic
	}
	return fmt.Sprint(rv.Concrete)
}

func explorationMarkdown(res *concolic.ExplorationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s(%s)\n\n", res.Function, strings.Join(res.Parameters, ", "))
	b.WriteString("| # | input | returns |\n|---|---|---|\n")
	for i, in := range res.Inputs {
		ret := ""
		if i < len(res.Returns) {
			ret = outcomeOf(res.Returns[i])
		}
		fmt.Fprintf(&b, "| %d | `%s` | `%s` |\n", i+1, in, ret)
	}

	st := res.Stats
	fmt.Fprintf(&b, "\n%d executions, %d constraints (%d infeasible, %d unknown, %d pending), %d divergences.\n",
		st.Iterations, st.Constraints, st.Infeasible, st.Unknown, st.Pending, st.Divergences)
	if res.Complete {
		b.WriteString("\nEvery discovered path was explored.\n")
	} else {
		b.WriteString("\n**Exploration stopped before covering every discovered path.**\n")
	}
	return b.String()
}

func reportMarkdown(resp *grading.CheckResponse) string {
	r := resp.Report
	var b strings.Builder
	fmt.Fprintf(&b, "# %s vs %s: %s\n\n", r.Candidate, r.Reference, strings.ReplaceAll(string(r.Verdict), "_", " "))
	fmt.Fprintf(&b, "%d inputs checked, %d generated by exploring the reference.\n", r.Checked, resp.Generated)

	if ce := r.Counterexample; ce != nil {
		fmt.Fprintf(&b, "\n## Counterexample (%s)\n\n", ce.Stage)
		fmt.Fprintf(&b, "- input: `%s`\n- reference: `%s`\n- candidate: `%s`\n", ce.Input, ce.Reference, ce.Candidate)
	}
	if len(r.Findings) > 0 {
		b.WriteString("\n## Findings\n\n| kind | stage | input | detail |\n|---|---|---|---|\n")
		for _, f := range r.Findings {
			fmt.Fprintf(&b, "| %s | %s | `%s` | %s |\n", f.Kind, f.Stage, f.Input, f.Detail)
		}
	}
	if resp.ID != "" {
		fmt.Fprintf(&b, "\nSaved as `%s`.\n", resp.ID)
	}
	return b.String()
}

func programsMarkdown(progs []grading.ProgramInfo) string {
	var b strings.Builder
	for _, p := range progs {
		fmt.Fprintf(&b, "## %s(%s)\n\n%s\n\n", p.Name, strings.Join(p.Params, ", "), p.Description)
		for _, v := range p.Variants {
			fmt.Fprintf(&b, "- **%s**: %s\n", v.Name, v.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// printMarkdown renders md for the terminal, or prints it as is when colors are off or stdout is not a terminal.
func printMarkdown(w io.Writer, md string, noColor bool) error {
	if noColor || termenv.EnvColorProfile() == termenv.Ascii {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
