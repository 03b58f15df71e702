package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/clock"
	patientdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/patient/domain"
	statementdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/statement/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type billingStub struct {
	documents []billingdomain.Invoice
}

func (b *billingStub) CreateInvoice(ctx context.Context, req billingdomain.CreateInvoiceRequest) (billingdomain.Invoice, error) {
	return billingdomain.Invoice{}, nil
}
func (b *billingStub) UpdateInvoiceItems(ctx context.Context, req billingdomain.UpdateInvoiceItemsRequest) (billingdomain.Invoice, error) {
	return billingdomain.Invoice{}, nil
}
func (b *billingStub) GetByID(ctx context.Context, id string) (billingdomain.Invoice, error) {
	return billingdomain.Invoice{}, billingdomain.ErrNotFound
}
func (b *billingStub) List(ctx context.Context, req billingdomain.ListInvoicesRequest) ([]billingdomain.Invoice, error) {
	return b.documents, nil
}
func (b *billingStub) FindManyByIDs(ctx context.Context, ids []string) ([]billingdomain.Invoice, error) {
	return nil, nil
}
func (b *billingStub) FinalizePayment(ctx context.Context, req billingdomain.FinalizePaymentRequest) (billingdomain.FinalizePaymentResponse, error) {
	return billingdomain.FinalizePaymentResponse{}, nil
}

type patientStub struct {
	patient patientdomain.Patient
}

func (p *patientStub) Create(ctx context.Context, req patientdomain.CreatePatientRequest) (patientdomain.Patient, error) {
	return p.patient, nil
}
func (p *patientStub) GetByID(ctx context.Context, id snowflake.ID) (patientdomain.Patient, error) {
	return p.patient, nil
}
func (p *patientStub) List(ctx context.Context) ([]patientdomain.Patient, error) {
	return []patientdomain.Patient{p.patient}, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPatientStatement_RunningBalance(t *testing.T) {
	patientID := snowflake.ID(1001)
	method := "Cash"
	rcptRelated := "INV-1"

	billing := &billingStub{documents: []billingdomain.Invoice{
		{
			ID: "RCPT-1", RecordType: billingdomain.RecordTypeReceipt, PatientID: patientID,
			Date: day("2024-02-05"), Currency: "MYR", Amount: 3000, PaidAmount: 3000,
			Status: billingdomain.InvoiceStatusPaid, PaymentMethod: &method, RelatedInvoiceID: &rcptRelated,
		},
		{
			ID: "INV-1", RecordType: billingdomain.RecordTypeInvoice, PatientID: patientID,
			Date: day("2024-01-10"), Currency: "MYR", Amount: 5000, PaidAmount: 3000,
			Status: billingdomain.InvoiceStatusPartiallyPaid,
		},
		{
			ID: "INV-2", RecordType: billingdomain.RecordTypeInvoice, PatientID: patientID,
			Date: day("2024-03-01"), Currency: "MYR", Amount: 2000, PaidAmount: 0,
			Status: billingdomain.InvoiceStatusPending,
		},
	}}
	patients := &patientStub{patient: patientdomain.Patient{ID: patientID, Name: "Aminah binti Hassan"}}

	svc := NewService(ServiceParam{
		Log:        zap.NewNop(),
		Clock:      clock.NewFakeClock(day("2024-03-15")),
		BillingSvc: billing,
		PatientSvc: patients,
	})

	stmt, err := svc.PatientStatement(context.Background(), patientID)
	require.NoError(t, err)

	require.Len(t, stmt.Entries, 3)

	// Chronological regardless of store order.
	assert.Equal(t, "INV-1", stmt.Entries[0].DocumentID)
	assert.Equal(t, statementdomain.EntryKindCharge, stmt.Entries[0].Kind)
	assert.Equal(t, int64(5000), stmt.Entries[0].RunningBalance)

	assert.Equal(t, "RCPT-1", stmt.Entries[1].DocumentID)
	assert.Equal(t, statementdomain.EntryKindPayment, stmt.Entries[1].Kind)
	assert.Equal(t, int64(2000), stmt.Entries[1].RunningBalance)
	assert.Equal(t, "Payment - Cash", stmt.Entries[1].Description)

	assert.Equal(t, "INV-2", stmt.Entries[2].DocumentID)
	assert.Equal(t, int64(4000), stmt.Entries[2].RunningBalance)

	assert.Equal(t, int64(7000), stmt.TotalBilled)
	assert.Equal(t, int64(3000), stmt.TotalPaid)
	assert.Equal(t, int64(4000), stmt.TotalBalance)
	assert.Equal(t, "MYR", stmt.Currency)
	assert.Equal(t, "Aminah binti Hassan", stmt.PatientName)

	// Aging lists only open invoices.
	require.Len(t, stmt.Aging, 2)
	assert.Equal(t, "INV-1", stmt.Aging[0].InvoiceID)
	assert.Equal(t, int64(2000), stmt.Aging[0].Outstanding)
	assert.Equal(t, "INV-2", stmt.Aging[1].InvoiceID)
	assert.Equal(t, int64(2000), stmt.Aging[1].Outstanding)
}

func TestPatientStatement_Empty(t *testing.T) {
	patientID := snowflake.ID(1001)
	svc := NewService(ServiceParam{
		Log:        zap.NewNop(),
		Clock:      clock.NewFakeClock(day("2024-03-15")),
		BillingSvc: &billingStub{},
		PatientSvc: &patientStub{patient: patientdomain.Patient{ID: patientID, Name: "Tan Wei Ming"}},
	})

	stmt, err := svc.PatientStatement(context.Background(), patientID)
	require.NoError(t, err)
	assert.Empty(t, stmt.Entries)
	assert.Equal(t, int64(0), stmt.TotalBalance)
}
