package domain

import (
	"time"

	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/money"
)

// SettleEpsilon is the tolerance, in minor units, under which an invoice
// counts as fully paid.
const SettleEpsilon = money.Epsilon

// DeriveStatus computes invoice status purely from amounts. It never
// depends on the prior status, so it cannot regress a PAID invoice through
// the payment path: PaidAmount is monotonic.
func DeriveStatus(amount, paidAmount int64) InvoiceStatus {
	switch {
	case paidAmount >= amount-SettleEpsilon:
		return InvoiceStatusPaid
	case paidAmount > 0:
		return InvoiceStatusPartiallyPaid
	default:
		return InvoiceStatusPending
	}
}

// EffectiveStatus resolves the read-time status of an invoice. OVERDUE is
// derived from the due date, never stored as a transition.
func (i Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	status := DeriveStatus(i.Amount, i.PaidAmount)
	if status == InvoiceStatusPaid {
		return status
	}
	if i.DueAt != nil && now.After(*i.DueAt) {
		return InvoiceStatusOverdue
	}
	return status
}
