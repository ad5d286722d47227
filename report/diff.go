package report

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff writes one changed line as an inline character diff. Without styling,
// removed text is shown as [-text-] and inserted text as {+text+}.
func (p *Printer) Diff(lineNo int, before, after string) {
	before = strings.TrimRight(before, "\r\n")
	after = strings.TrimRight(after, "\r\n")

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			if p.plain {
				b.WriteString("[-" + d.Text + "-]")
			} else {
				b.WriteString(styleRemoved.Render(d.Text))
			}
		case diffmatchpatch.DiffInsert:
			if p.plain {
				b.WriteString("{+" + d.Text + "+}")
			} else {
				b.WriteString(styleAdded.Render(d.Text))
			}
		default:
			b.WriteString(d.Text)
		}
	}

	fmt.Fprintf(p.w, "%s %s\n", p.render(styleLineNo, fmt.Sprintf("%6d |", lineNo)), b.String())
}
