// Package render turns finalized billing documents into printable
// artifacts. The Renderer interface is the boundary the billing core
// hands data across; rendering backends live behind it.
package render

import (
	"encoding/json"
	"time"

	billingdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/money"
	patientdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/patient/domain"
)

// RenderInput is the data handed to a renderer: everything a printable
// invoice or receipt shows, already derived.
type RenderInput struct {
	DocumentNumber string
	DocumentKind   string // "Invoice" or "Receipt"
	ClinicName     string
	BranchID       string
	PatientName    string
	Date           time.Time
	DueAt          *time.Time

	Items []money.LineItem

	Currency      string
	Subtotal      int64
	Tax           int64
	Total         int64
	AmountPaid    int64
	BalanceDue    int64
	PaymentMethod string
}

type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}

// BuildInput derives the render view from a billing document and its
// patient.
func BuildInput(doc billingdomain.Invoice, patient patientdomain.Patient, clinicName string) RenderInput {
	input := RenderInput{
		DocumentNumber: doc.ID,
		DocumentKind:   "Invoice",
		ClinicName:     clinicName,
		BranchID:       doc.BranchID,
		PatientName:    patient.Name,
		Date:           doc.Date,
		DueAt:          doc.DueAt,
		Currency:       doc.Currency,
		Subtotal:       doc.Amount - doc.TaxAmount,
		Tax:            doc.TaxAmount,
		Total:          doc.Amount,
		AmountPaid:     doc.PaidAmount,
		BalanceDue:     doc.Outstanding(),
	}
	if doc.RecordType == billingdomain.RecordTypeReceipt {
		input.DocumentKind = "Receipt"
		input.BalanceDue = 0
	}
	if doc.PaymentMethod != nil {
		input.PaymentMethod = *doc.PaymentMethod
		if doc.CardSuffix != nil && *doc.CardSuffix != "" {
			input.PaymentMethod += " •••• " + *doc.CardSuffix
		}
	}
	if len(doc.Items) > 0 {
		_ = json.Unmarshal(doc.Items, &input.Items)
	}
	return input
}
