// Package domain contains persistence models and contracts for patient
// billing: invoices, receipts and payment allocation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// RecordType tags a billing document row as an invoice or a receipt.
type RecordType string

const (
	RecordTypeInvoice RecordType = "INVOICE"
	RecordTypeReceipt RecordType = "RECEIPT"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "PENDING"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
)

// Invoice is a billing document. Rows with RecordTypeInvoice are mutable
// through the payment path only (PaidAmount, Status); rows with
// RecordTypeReceipt are append-only and never updated after creation.
type Invoice struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	RecordType RecordType     `gorm:"type:text;not null;index" json:"record_type"`
	PatientID  snowflake.ID   `gorm:"not null;index" json:"patient_id"`
	BranchID   string         `gorm:"type:text;not null;index" json:"branch_id"`
	Date       time.Time      `gorm:"not null;index" json:"date"`
	DueAt      *time.Time     `gorm:"" json:"due_at,omitempty"`
	Currency   string         `gorm:"type:text;not null" json:"currency"`
	Items      datatypes.JSON `gorm:"type:jsonb" json:"items,omitempty"`

	// Amount is the total billed (subtotal + tax), fixed at creation for
	// invoices; for receipts it equals the payment collected.
	Amount     int64 `gorm:"not null;default:0" json:"amount"`
	TaxAmount  int64 `gorm:"not null;default:0" json:"tax_amount"`
	PaidAmount int64 `gorm:"not null;default:0" json:"paid_amount"`

	Status InvoiceStatus `gorm:"type:text;not null;default:'PENDING'" json:"status"`

	// RelatedInvoiceID points a receipt at the first invoice it settles;
	// RelatedInvoiceIDs carries the full target list.
	RelatedInvoiceID  *string        `gorm:"index" json:"related_invoice_id,omitempty"`
	RelatedInvoiceIDs datatypes.JSON `gorm:"type:jsonb" json:"related_invoice_ids,omitempty"`

	PaymentMethod *string `gorm:"type:text" json:"payment_method,omitempty"`
	CardSuffix    *string `gorm:"type:text" json:"card_suffix,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "billing_documents" }

// Outstanding is the balance still owed on an invoice.
func (i Invoice) Outstanding() int64 {
	remaining := i.Amount - i.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsSettled reports whether the invoice is fully paid within the
// settlement tolerance.
func (i Invoice) IsSettled() bool {
	return i.PaidAmount >= i.Amount-SettleEpsilon
}

// PaymentMethod describes how a payment was collected.
type PaymentMethod struct {
	Label      string `json:"label"`
	CardSuffix string `json:"card_suffix,omitempty"`
}

// Allocation is the portion of one payment applied to one invoice.
type Allocation struct {
	InvoiceID     string        `json:"invoice_id"`
	AppliedAmount int64         `json:"applied_amount"`
	NewPaidAmount int64         `json:"new_paid_amount"`
	NewStatus     InvoiceStatus `json:"new_status"`
}
