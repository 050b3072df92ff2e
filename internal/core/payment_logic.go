package core

import "github.com/shopspring/decimal"

// PaymentStatusFor derives the status of a document from its paid amount.
func PaymentStatusFor(total, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total) && total.IsPositive():
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// PaymentTarget is one outstanding document considered for allocation.
type PaymentTarget struct {
	ID    int
	Total decimal.Decimal
	Paid  decimal.Decimal
}

// Allocation is the portion of a payment applied to one document.
type Allocation struct {
	ID      int
	Applied decimal.Decimal
	NewPaid decimal.Decimal
	Status  PaymentStatus
}

// AllocateFIFO distributes amount across targets in order (callers pass them
// oldest first), paying each document's outstanding balance before moving to
// the next. The returned remainder is whatever could not be applied because
// no outstanding documents were left.
func AllocateFIFO(targets []PaymentTarget, amount decimal.Decimal) ([]Allocation, decimal.Decimal) {
	var allocs []Allocation
	remaining := amount

	for _, t := range targets {
		if !remaining.IsPositive() {
			break
		}
		due := t.Total.Sub(t.Paid)
		if !due.IsPositive() {
			continue
		}
		applied := decimal.Min(due, remaining)
		newPaid := t.Paid.Add(applied)
		allocs = append(allocs, Allocation{
			ID:      t.ID,
			Applied: applied,
			NewPaid: newPaid,
			Status:  PaymentStatusFor(t.Total, newPaid),
		})
		remaining = remaining.Sub(applied)
	}
	return allocs, remaining
}
