// Package domain contains the patient statement (ledger) view models.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// EntryKind distinguishes ledger lines.
type EntryKind string

const (
	EntryKindCharge  EntryKind = "CHARGE"
	EntryKindPayment EntryKind = "PAYMENT"
)

// Entry is one chronological line on a patient statement. RunningBalance
// is derived at read time, never stored.
type Entry struct {
	DocumentID     string    `json:"document_id"`
	Kind           EntryKind `json:"kind"`
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	Amount         int64     `json:"amount"`
	RunningBalance int64     `json:"running_balance"`
}

// AgingLine reports the outstanding balance of one open invoice.
type AgingLine struct {
	InvoiceID   string    `json:"invoice_id"`
	Date        time.Time `json:"date"`
	Outstanding int64     `json:"outstanding"`
	DaysOverdue int       `json:"days_overdue"`
}

type Statement struct {
	PatientID    snowflake.ID `json:"patient_id"`
	PatientName  string       `json:"patient_name"`
	Currency     string       `json:"currency"`
	Entries      []Entry      `json:"entries"`
	Aging        []AgingLine  `json:"aging"`
	TotalBilled  int64        `json:"total_billed"`
	TotalPaid    int64        `json:"total_paid"`
	TotalBalance int64        `json:"total_balance"`
}

type Service interface {
	PatientStatement(ctx context.Context, patientID snowflake.ID) (Statement, error)
}
