// Command hmsolve reads a toylang constraint-system description and drives
// the step-machine solver to completion, printing every surviving solution.
package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/xDarkicex/hmsolve/internal/obslog"
	"github.com/xDarkicex/hmsolve/step"
	"github.com/xDarkicex/hmsolve/toylang"
	"github.com/xDarkicex/hmsolve/typeset"
)

var (
	exprFlag       string
	maxSteps       uint64
	timeoutSeconds float64
	verbosity      int
	retainAll      bool
	traceFlag      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hmsolve [file]",
	Short: "Solve a toylang constraint system",
	Long: `hmsolve reads a small constraint-system description (see the toylang
package's grammar) and runs it through the step machine, printing every
solution that survives filtering, ranked by score.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&exprFlag, "expr", "e", "", "inline toylang source (overrides the file argument)")
	flags.Uint64Var(&maxSteps, "max-steps", 0, "cap on driver iterations, 0 means unlimited")
	flags.Float64Var(&timeoutSeconds, "timeout", 0, "wall-clock deadline in seconds, 0 means none")
	flags.IntVarP(&verbosity, "verbose", "v", 0, "structured log verbosity")
	flags.BoolVar(&retainAll, "retain-all", false, "keep every solution instead of filtering dominated ones")
	flags.BoolVar(&traceFlag, "trace", false, "print the step transition trace after solving")
}

func runSolve(cmd *cobra.Command, args []string) error {
	src, err := readSource(args)
	if err != nil {
		return err
	}

	sys, err := toylang.LoadString(src)
	if err != nil {
		return err
	}

	cfg := step.DefaultConfig()
	cfg.Log = obslog.New(verbosity)
	cfg.MaxSteps = maxSteps
	cfg.RetainAllSolutions = retainAll
	cfg.Trace = traceFlag
	if timeoutSeconds > 0 {
		cfg.Deadline = time.Now().Add(time.Duration(timeoutSeconds * float64(time.Second)))
	}

	simplifier := typeset.NewBasicSimplifier(cfg.Log)
	result, err := step.Solve(sys, simplifier, cfg)
	if err != nil {
		return fmt.Errorf("hmsolve: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", result.Status)
	for i, sol := range typeset.SortedByScore(result.Solutions) {
		fmt.Fprintf(cmd.OutOrStdout(), "solution %d: score=%v bindings=%s\n", i, sol.Score.Values, formatBindings(sol.Bindings))
	}
	if traceFlag {
		for _, ev := range result.Trace {
			fmt.Fprintf(cmd.OutOrStdout(), "%*s%s: %s\n", ev.ScopeDepth*2, "", ev.Step, ev.Event)
		}
	}
	if result.Status == step.Failed {
		os.Exit(1)
	}
	return nil
}

func formatBindings(bindings map[int]typeset.Type) string {
	if len(bindings) == 0 {
		return "{}"
	}
	ids := make([]int, 0, len(bindings))
	for id := range bindings {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := "{"
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("T%d=%s", id, bindings[id])
	}
	return out + "}"
}

func readSource(args []string) (string, error) {
	if exprFlag != "" {
		return exprFlag, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("provide a file argument or -e/--expr")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
