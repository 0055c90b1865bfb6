package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kartoza/ratio-calculator/internal/ratio"
	"github.com/kartoza/ratio-calculator/internal/report"
)

var errUnsolvable = errors.New("query has no common ratio")

var (
	solveFirst float64
	solveNth   float64
	solveIndex int
	solvePlain bool
)

// solveCmd solves a single query from the command line
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute the common ratio for one query and print the report",
	Example: `  ratio solve --first 3 --nth 24 --index 4
  ratio solve --first 1 --nth -8 --index 4 --plain`,
	Args: cobra.NoArgs,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().Float64Var(&solveFirst, "first", 0, "First term a1")
	solveCmd.Flags().Float64Var(&solveNth, "nth", 0, "n-th term an")
	solveCmd.Flags().IntVar(&solveIndex, "index", 0, "Position n of the n-th term (at least 2)")
	solveCmd.Flags().BoolVar(&solvePlain, "plain", false, "Print raw markdown instead of terminal formatting")
	for _, name := range []string{"first", "nth", "index"} {
		_ = solveCmd.MarkFlagRequired(name)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	if err := requireFinite("first", solveFirst); err != nil {
		return err
	}
	if err := requireFinite("nth", solveNth); err != nil {
		return err
	}

	q := ratio.Query{FirstTerm: solveFirst, NthTerm: solveNth, Index: solveIndex}
	res := ratio.Solve(q)
	logger.Debug("Solved", zap.Stringer("result", res))

	rep := report.Build(q, res, appConfig.Precision)
	rep.Blocks = append(rep.Blocks, report.Formulas())

	out, err := renderTerminal(rep.Markdown(), solvePlain)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if rep.Failed() {
		// the report already carries the message
		cmd.SilenceErrors = true
		return errUnsolvable
	}
	return nil
}

// requireFinite rejects the Inf and NaN spellings pflag happily parses
func requireFinite(flag string, v float64) error {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Errorf("--%s must be a finite number, got %v", flag, v)
	}
	return nil
}

// renderTerminal styles markdown for a terminal with glamour
func renderTerminal(markdown string, plain bool) (string, error) {
	if plain {
		return markdown, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}
