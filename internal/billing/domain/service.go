package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/money"
)

type CreateInvoiceRequest struct {
	// ID is optional; when empty the service assigns an INV-prefixed id.
	ID        string           `json:"id,omitempty"`
	PatientID snowflake.ID     `json:"patient_id"`
	BranchID  string           `json:"branch_id"`
	Date      time.Time        `json:"date"`
	DueAt     *time.Time       `json:"due_at,omitempty"`
	Items     []money.LineItem `json:"items"`
}

type UpdateInvoiceItemsRequest struct {
	InvoiceID string           `json:"-"`
	Items     []money.LineItem `json:"items"`
}

type ListInvoicesRequest struct {
	PatientID *snowflake.ID
	Status    *InvoiceStatus
	Type      *RecordType
}

// FinalizePaymentRequest is the ephemeral payment allocation request. It
// is never persisted; the receipt row is its durable trace.
type FinalizePaymentRequest struct {
	// RequestID keys the single-flight finalize guard. A double-submitted
	// request carries the same id and the second attempt is rejected.
	RequestID  string        `json:"request_id"`
	PatientID  snowflake.ID  `json:"patient_id"`
	BranchID   string        `json:"branch_id"`
	InvoiceIDs []string      `json:"invoice_ids"`
	Amount     int64         `json:"amount"`
	Method     PaymentMethod `json:"method"`
}

type FinalizePaymentResponse struct {
	Receipt              Invoice      `json:"receipt"`
	Allocations          []Allocation `json:"allocations"`
	ReceiptAmount        int64        `json:"receipt_amount"`
	UnallocatedRemainder int64        `json:"unallocated_remainder"`
}

// Service is the billing core: invoice record store operations plus
// payment finalization (allocation + receipt issuance).
type Service interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	UpdateInvoiceItems(ctx context.Context, req UpdateInvoiceItemsRequest) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error)
	FindManyByIDs(ctx context.Context, ids []string) ([]Invoice, error)
	FinalizePayment(ctx context.Context, req FinalizePaymentRequest) (FinalizePaymentResponse, error)
}
