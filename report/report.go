// Package report renders run summaries and scrub previews for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/sonnes/logscrub/scrub"
)

// Printer writes styled output to w. Styling is disabled when w is not a
// terminal.
type Printer struct {
	w     io.Writer
	plain bool
}

// New creates a Printer for w.
func New(w io.Writer) *Printer {
	plain := true
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		plain = !term.IsTerminal(f.Fd())
	}
	return &Printer{w: w, plain: plain}
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

// Summary describes a finished run.
type Summary struct {
	Input    string
	Output   string
	Inplace  bool
	Encoding string
	Policy   scrub.Policy
	Rules    []scrub.Rule
	Stats    scrub.Stats
}

// Summary writes a short report of a run.
func (p *Printer) Summary(s Summary) {
	title := fmt.Sprintf("Scrubbed %s -> %s", s.Input, s.Output)
	if s.Inplace {
		title = fmt.Sprintf("Scrubbed %s in place", s.Input)
	}
	fmt.Fprintln(p.w, p.render(styleTitle, title))

	meta := []string{
		"encoding " + s.Encoding,
		"policy " + s.Policy.String(),
		fmt.Sprintf("rules %d", len(s.Rules)),
	}
	fmt.Fprintln(p.w, p.render(styleMeta, strings.Join(meta, "  ")))

	stats := []struct {
		label string
		value int
	}{
		{"LINES", s.Stats.Lines},
		{"CHANGED", s.Stats.Changed},
		{"REVERTED", s.Stats.Reverted},
	}
	var cols []string
	for _, st := range stats {
		cols = append(cols, p.render(styleStatLabel, st.label)+" "+p.render(styleStat, formatNumber(st.value)))
	}
	fmt.Fprintln(p.w, strings.Join(cols, "   "))

	p.failures(s.Rules, s.Stats.Failures)
}

func (p *Printer) failures(rules []scrub.Rule, failures map[int]int) {
	if len(failures) == 0 {
		return
	}
	idx := make([]int, 0, len(failures))
	for i := range failures {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	for _, i := range idx {
		pattern := ""
		if i >= 0 && i < len(rules) {
			pattern = rules[i].Pattern
		}
		n := failures[i]
		noun := "lines"
		if n == 1 {
			noun = "line"
		}
		fmt.Fprintln(p.w, p.render(styleWarn, fmt.Sprintf("rule %d %q failed on %s %s", i, pattern, formatNumber(n), noun)))
	}
}

// Invalid lists rules whose pattern did not compile. It returns the number
// of invalid rules.
func (p *Printer) Invalid(rules []scrub.Rule) int {
	n := 0
	for _, r := range rules {
		if err := r.Err(); err != nil {
			n++
			fmt.Fprintf(p.w, "%s %s\n", p.render(styleWarn, fmt.Sprintf("invalid rule %d", r.Index)), err)
			continue
		}
		fmt.Fprintf(p.w, "%s %q\n", p.render(styleMeta, fmt.Sprintf("ok      rule %d", r.Index)), r.Pattern)
	}
	return n
}

// formatNumber adds thousands separators: 1234567 -> "1,234,567".
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}
