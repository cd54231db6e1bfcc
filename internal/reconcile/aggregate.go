package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Line is one classified receipt line, identified by its position in the
// submission payload.
type Line struct {
	Index    int
	Ordered  decimal.Decimal
	Invoiced decimal.Decimal
	Received decimal.Decimal
	Class    DiscrepancyClass
}

// Result is the per-receipt aggregation of classified lines.
type Result struct {
	Lines   []Line
	ByClass map[DiscrepancyClass][]Line
}

// ClassifyAll classifies every line independently and groups the results by
// class. Grouping happens here — between classification and case creation —
// so the case manager receives one call per class, never one per line.
func ClassifyAll(lines []Line) Result {
	res := Result{
		Lines:   make([]Line, 0, len(lines)),
		ByClass: make(map[DiscrepancyClass][]Line),
	}
	for _, l := range lines {
		l.Class = Classify(l.Ordered, l.Invoiced, l.Received)
		res.Lines = append(res.Lines, l)
		res.ByClass[l.Class] = append(res.ByClass[l.Class], l)
	}
	return res
}

// AllPerfect reports whether every line matched exactly.
func (r Result) AllPerfect() bool {
	return len(r.ByClass[PerfectMatch]) == len(r.Lines)
}

// Count returns the number of lines in the given class.
func (r Result) Count(class DiscrepancyClass) int {
	return len(r.ByClass[class])
}

// caseClasses lists the classes that spawn a discrepancy case, in the order
// they are reported. Other never spawns a case; it is flagged for manual
// review on the receipt itself.
var caseClasses = []DiscrepancyClass{Shortage, Overage, InvoiceMismatch}

// CaseClasses returns the non-empty classes that require a discrepancy case,
// in stable order.
func (r Result) CaseClasses() []DiscrepancyClass {
	out := make([]DiscrepancyClass, 0, len(caseClasses))
	for _, c := range caseClasses {
		if len(r.ByClass[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Summary renders the human-readable per-class breakdown that accompanies
// every submission response, so callers can display the outcome without
// re-deriving it.
func (r Result) Summary() string {
	if r.AllPerfect() {
		return fmt.Sprintf("all %d line(s) matched", len(r.Lines))
	}
	parts := make([]string, 0, 5)
	for _, c := range []DiscrepancyClass{PerfectMatch, Shortage, Overage, InvoiceMismatch, Other} {
		if n := len(r.ByClass[c]); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	return strings.Join(parts, ", ")
}
