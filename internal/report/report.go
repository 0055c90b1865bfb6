// Package report turns a solver result into the markdown summary shown to
// users, and renders that summary to HTML for the web form.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kartoza/ratio-calculator/internal/ratio"
)

// Level marks how a block is presented
type Level string

const (
	LevelPlain   Level = "plain"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Block is one markdown fragment with a presentation level
type Block struct {
	Level    Level
	Markdown string
}

// Report is an ordered list of blocks
type Report struct {
	Blocks []Block
}

// Failed reports whether the report carries an error block
func (r Report) Failed() bool {
	for _, b := range r.Blocks {
		if b.Level == LevelError {
			return true
		}
	}
	return false
}

// Markdown joins all blocks into a single markdown document
func (r Report) Markdown() string {
	parts := make([]string, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		parts = append(parts, strings.TrimSpace(b.Markdown))
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// FormatRatio formats a ratio with a fixed number of decimal places
func FormatRatio(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// Build assembles the report for a query and its result. An error result
// yields a single error block; a ratio gets a success banner followed by
// the verification section.
func Build(q ratio.Query, res ratio.Result, precision int) Report {
	if se := res.Err(); se != nil {
		return Report{Blocks: []Block{{
			Level:    LevelError,
			Markdown: "Error: " + se.Message,
		}}}
	}

	r, _ := res.Value()
	shown := FormatRatio(r, precision)

	var rep Report
	rep.Blocks = append(rep.Blocks, Block{
		Level:    LevelSuccess,
		Markdown: fmt.Sprintf("The common ratio (r) is **%s**.", shown),
	})

	var sb strings.Builder
	sb.WriteString("### Verification\n\n")
	sb.WriteString("**Inputs:**\n\n")
	fmt.Fprintf(&sb, "- first term a1 = %s\n", formatInput(q.FirstTerm))
	fmt.Fprintf(&sb, "- n-th term an = %s\n", formatInput(q.NthTerm))
	fmt.Fprintf(&sb, "- n = %d\n\n", q.Index)
	fmt.Fprintf(&sb, "**Computed ratio r = %s**\n\n", shown)

	v := ratio.Verify(q, r)
	if !v.Finite() {
		sb.WriteString("**Check:** the n-th term rebuilt from r (a1 · r^(n-1)) is too large to represent.\n")
		rep.Blocks = append(rep.Blocks, Block{Level: LevelPlain, Markdown: sb.String()}, Block{
			Level:    LevelWarning,
			Markdown: "The rebuilt n-th term overflows, so it cannot be compared with the given n-th term.",
		})
		return rep
	}
	fmt.Fprintf(&sb, "**Check:** the n-th term rebuilt from r (a1 · r^(n-1)) = **%s**\n",
		FormatRatio(v.Recomputed, precision))
	rep.Blocks = append(rep.Blocks, Block{Level: LevelPlain, Markdown: sb.String()})

	if v.Match {
		rep.Blocks = append(rep.Blocks, Block{
			Level:    LevelInfo,
			Markdown: "The given n-th term matches the rebuilt n-th term (within a small tolerance).",
		})
	} else {
		rep.Blocks = append(rep.Blocks, Block{
			Level: LevelWarning,
			Markdown: fmt.Sprintf(
				"The given n-th term (%s) and the rebuilt n-th term (%s) differ slightly. This is likely floating-point precision.",
				FormatRatio(q.NthTerm, precision), FormatRatio(v.Recomputed, precision)),
		})
	}

	return rep
}

// Formulas is the footer shown under every form
func Formulas() Block {
	return Block{
		Level: LevelPlain,
		Markdown: "---\n\n" +
			"- General term: a_n = a_1 · r^(n-1)\n" +
			"- Common ratio: r = (a_n / a_1)^(1/(n-1))\n",
	}
}

func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
