// Package allocator distributes a single payment across outstanding
// invoices, oldest first.
package allocator

import (
	"sort"

	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
)

// Result describes how a payment was applied. Conservation holds:
// sum of applied amounts + UnallocatedRemainder == the payment amount.
type Result struct {
	Allocations          []domain.Allocation
	ReceiptAmount        int64
	UnallocatedRemainder int64
}

// Allocate walks the targets in FIFO aging order (ascending date, id as a
// deterministic tie-break) and applies min(remaining, outstanding) to each
// invoice. Input order never affects the result. Settled invoices and
// zero allocations are omitted. Overpayment is capped: the leftover comes
// back as UnallocatedRemainder and policy is decided by the caller.
func Allocate(paymentAmount int64, targets []domain.Invoice) (Result, error) {
	if paymentAmount < 0 {
		return Result{}, domain.ErrInvalidAmount
	}
	if len(targets) == 0 {
		return Result{}, domain.ErrNoTargetInvoices
	}

	sorted := make([]domain.Invoice, len(targets))
	copy(sorted, targets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	remaining := paymentAmount
	allocations := make([]domain.Allocation, 0, len(sorted))
	for _, inv := range sorted {
		if remaining == 0 {
			break
		}
		outstanding := inv.Outstanding()
		if outstanding == 0 {
			continue
		}

		applied := remaining
		if outstanding < applied {
			applied = outstanding
		}
		newPaid := inv.PaidAmount + applied
		allocations = append(allocations, domain.Allocation{
			InvoiceID:     inv.ID,
			AppliedAmount: applied,
			NewPaidAmount: newPaid,
			NewStatus:     domain.DeriveStatus(inv.Amount, newPaid),
		})
		remaining -= applied
	}

	return Result{
		Allocations:          allocations,
		ReceiptAmount:        paymentAmount - remaining,
		UnallocatedRemainder: remaining,
	}, nil
}
