// Package reconcile implements the three-way match between ordered, invoiced
// and received quantities. It is pure: no persistence, no clock, no I/O —
// the orchestration layer (service.ReceiptService) calls into it once per
// receipt line at submission time and persists the outcome.
package reconcile

import "github.com/shopspring/decimal"

// DiscrepancyClass is the outcome of a three-way match on one receipt line.
type DiscrepancyClass string

const (
	PerfectMatch    DiscrepancyClass = "perfect_match"
	Shortage        DiscrepancyClass = "shortage"
	Overage         DiscrepancyClass = "overage"
	InvoiceMismatch DiscrepancyClass = "invoice_mismatch"
	// Other marks a combination the rules below cannot name. Lines in this
	// class are surfaced for manual review, never silently dropped.
	Other DiscrepancyClass = "other"
)

// Classify runs the three-way match for a single line. The checks are
// order-sensitive: shortage and overage win over invoice mismatch, so a line
// that is both short and mis-invoiced is reported as a shortage.
//
// Callers must validate quantities are non-negative before classifying.
func Classify(ordered, invoiced, received decimal.Decimal) DiscrepancyClass {
	switch {
	case received.Equal(ordered) && received.Equal(invoiced):
		return PerfectMatch
	case received.LessThan(decimal.Min(ordered, invoiced)):
		return Shortage
	case received.GreaterThan(decimal.Max(ordered, invoiced)):
		return Overage
	case !invoiced.Equal(ordered):
		return InvoiceMismatch
	default:
		return Other
	}
}

// Variance returns the absolute received-vs-ordered quantity difference.
// Cases value shortage/overage lines as Variance × unit price.
func Variance(ordered, received decimal.Decimal) decimal.Decimal {
	return received.Sub(ordered).Abs()
}
