package domain

import "errors"

var (
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidRequest   = errors.New("invalid_request")
	ErrNotFound         = errors.New("invoice_not_found")
	ErrDuplicateID      = errors.New("duplicate_invoice_id")
	ErrOverpayment      = errors.New("overpayment")
	ErrAlreadySettled   = errors.New("already_settled")
	ErrInvoiceLocked    = errors.New("invoice_locked")
	ErrNotAnInvoice     = errors.New("not_an_invoice")
	ErrPaymentInFlight  = errors.New("payment_in_flight")
	ErrNoTargetInvoices = errors.New("no_target_invoices")
)
