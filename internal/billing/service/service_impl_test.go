package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/audit/domain"
	billingdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/guard"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/clock"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/config"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/money"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type auditStub struct {
	entries []string
}

func (a *auditStub) AuditLog(ctx context.Context, action string, targetType string, targetID *string, metadata map[string]any) error {
	a.entries = append(a.entries, action)
	return nil
}

func (a *auditStub) List(ctx context.Context, req auditdomain.ListAuditLogRequest) ([]auditdomain.AuditLog, error) {
	return nil, nil
}

func newTestService(t *testing.T, billingCfg config.BillingConfig) (billingdomain.Service, *gorm.DB, *clock.FakeClock, *auditStub) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&billingdomain.Invoice{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	audit := &auditStub{}

	svc := NewService(ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Config:   config.Config{Billing: billingCfg},
		Guard:    guard.NewFinalizeGuard(),
		AuditSvc: audit,
	})
	return svc, db, fake, audit
}

func defaultCfg() config.BillingConfig {
	return config.BillingConfig{Currency: "MYR", TaxRatePercent: 0, DueDays: 30}
}

func seedInvoice(t *testing.T, svc billingdomain.Service, patientID snowflake.ID, date time.Time, items []money.LineItem) billingdomain.Invoice {
	t.Helper()
	inv, err := svc.CreateInvoice(context.Background(), billingdomain.CreateInvoiceRequest{
		PatientID: patientID,
		BranchID:  "BR-KL-01",
		Date:      date,
		Items:     items,
	})
	require.NoError(t, err)
	return inv
}

func TestCreateInvoice(t *testing.T) {
	svc, _, fake, audit := newTestService(t, config.BillingConfig{Currency: "MYR", TaxRatePercent: 6, DueDays: 30})
	patientID := snowflake.ID(1001)

	inv, err := svc.CreateInvoice(context.Background(), billingdomain.CreateInvoiceRequest{
		PatientID: patientID,
		BranchID:  "BR-KL-01",
		Items: []money.LineItem{
			{Description: "Consultation", Price: 8000},
			{Description: "Scaling & polishing", Price: 10333},
		},
	})
	require.NoError(t, err)

	// subtotal 183.33, 6% tax => 11.00, total 194.33
	assert.Equal(t, int64(1100), inv.TaxAmount)
	assert.Equal(t, int64(19433), inv.Amount)
	assert.Equal(t, int64(0), inv.PaidAmount)
	assert.Equal(t, billingdomain.InvoiceStatusPending, inv.Status)
	assert.Equal(t, billingdomain.RecordTypeInvoice, inv.RecordType)
	assert.Contains(t, inv.ID, "INV-")
	require.NotNil(t, inv.DueAt)
	assert.Equal(t, fake.Now().Add(30*24*time.Hour), *inv.DueAt)
	assert.Contains(t, audit.entries, "invoice.created")
}

func TestCreateInvoice_DuplicateID(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())
	patientID := snowflake.ID(1001)

	req := billingdomain.CreateInvoiceRequest{
		ID:        "INV-FIXED",
		PatientID: patientID,
		Items:     []money.LineItem{{Description: "Consultation", Price: 8000}},
	}
	_, err := svc.CreateInvoice(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateInvoice(context.Background(), req)
	assert.ErrorIs(t, err, billingdomain.ErrDuplicateID)
}

func TestCreateInvoice_NegativeItemPrice(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())

	_, err := svc.CreateInvoice(context.Background(), billingdomain.CreateInvoiceRequest{
		PatientID: snowflake.ID(1001),
		Items:     []money.LineItem{{Description: "Refund line", Price: -100}},
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidAmount)
}

func TestUpdateInvoiceItems_OnlyBeforePayment(t *testing.T) {
	svc, _, fake, _ := newTestService(t, defaultCfg())
	patientID := snowflake.ID(1001)
	inv := seedInvoice(t, svc, patientID, fake.Now(), []money.LineItem{{Description: "Consultation", Price: 8000}})

	updated, err := svc.UpdateInvoiceItems(context.Background(), billingdomain.UpdateInvoiceItemsRequest{
		InvoiceID: inv.ID,
		Items:     []money.LineItem{{Description: "Consultation", Price: 9000}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9000), updated.Amount)

	_, err = svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-1",
		PatientID:  patientID,
		InvoiceIDs: []string{inv.ID},
		Amount:     1000,
	})
	require.NoError(t, err)

	_, err = svc.UpdateInvoiceItems(context.Background(), billingdomain.UpdateInvoiceItemsRequest{
		InvoiceID: inv.ID,
		Items:     []money.LineItem{{Description: "Consultation", Price: 5000}},
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvoiceLocked)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())

	_, err := svc.GetByID(context.Background(), "INV-MISSING")
	assert.ErrorIs(t, err, billingdomain.ErrNotFound)
}

func TestList_EmptyResultIsNotAnError(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())
	patientID := snowflake.ID(424242)

	invoices, err := svc.List(context.Background(), billingdomain.ListInvoicesRequest{PatientID: &patientID})
	require.NoError(t, err)
	assert.Empty(t, invoices)

	found, err := svc.FindManyByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFinalizePayment_MultiInvoiceFIFO(t *testing.T) {
	svc, _, fake, audit := newTestService(t, defaultCfg())
	patientID := snowflake.ID(1001)

	// Seeded out of date order on purpose.
	mar := seedInvoice(t, svc, patientID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), []money.LineItem{{Description: "Crown", Price: 5000}})
	jan := seedInvoice(t, svc, patientID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []money.LineItem{{Description: "Filling", Price: 3000}})
	feb := seedInvoice(t, svc, patientID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), []money.LineItem{{Description: "X-ray", Price: 2000}})

	resp, err := svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-1",
		PatientID:  patientID,
		BranchID:   "BR-KL-01",
		InvoiceIDs: []string{mar.ID, jan.ID, feb.ID},
		Amount:     6000,
		Method:     billingdomain.PaymentMethod{Label: "Credit Card", CardSuffix: "4242"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Allocations, 3)
	assert.Equal(t, jan.ID, resp.Allocations[0].InvoiceID)
	assert.Equal(t, int64(3000), resp.Allocations[0].AppliedAmount)
	assert.Equal(t, feb.ID, resp.Allocations[1].InvoiceID)
	assert.Equal(t, int64(2000), resp.Allocations[1].AppliedAmount)
	assert.Equal(t, mar.ID, resp.Allocations[2].InvoiceID)
	assert.Equal(t, int64(1000), resp.Allocations[2].AppliedAmount)

	// Statuses persisted.
	janStored, err := svc.GetByID(context.Background(), jan.ID)
	require.NoError(t, err)
	assert.Equal(t, billingdomain.InvoiceStatusPaid, janStored.Status)
	assert.Equal(t, int64(3000), janStored.PaidAmount)

	marStored, err := svc.GetByID(context.Background(), mar.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), marStored.PaidAmount)

	// Receipt carries the collected amount and the full target list.
	assert.Equal(t, billingdomain.RecordTypeReceipt, resp.Receipt.RecordType)
	assert.Contains(t, resp.Receipt.ID, "RCPT-")
	assert.Equal(t, int64(6000), resp.Receipt.Amount)
	require.NotNil(t, resp.Receipt.RelatedInvoiceID)
	assert.Equal(t, jan.ID, *resp.Receipt.RelatedInvoiceID)

	var relatedIDs []string
	require.NoError(t, json.Unmarshal(resp.Receipt.RelatedInvoiceIDs, &relatedIDs))
	assert.ElementsMatch(t, []string{jan.ID, feb.ID, mar.ID}, relatedIDs)

	require.NotNil(t, resp.Receipt.PaymentMethod)
	assert.Equal(t, "Credit Card", *resp.Receipt.PaymentMethod)
	assert.Equal(t, fake.Now(), resp.Receipt.Date)

	assert.Contains(t, audit.entries, "payment.finalized")
}

func TestFinalizePayment_OverpaymentCapAndReport(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())
	patientID := snowflake.ID(1001)
	inv := seedInvoice(t, svc, patientID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []money.LineItem{{Description: "Filling", Price: 10000}})

	resp, err := svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-1",
		PatientID:  patientID,
		InvoiceIDs: []string{inv.ID},
		Amount:     15000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), resp.ReceiptAmount)
	assert.Equal(t, int64(5000), resp.UnallocatedRemainder)
	// Remainder stays visible on the receipt: its amount is what was collected.
	assert.Equal(t, int64(15000), resp.Receipt.Amount)
}

func TestFinalizePayment_OverpaymentRejectedByPolicy(t *testing.T) {
	cfg := defaultCfg()
	cfg.RejectOverpayment = true
	svc, _, _, _ := newTestService(t, cfg)
	patientID := snowflake.ID(1001)
	inv := seedInvoice(t, svc, patientID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []money.LineItem{{Description: "Filling", Price: 10000}})

	_, err := svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-1",
		PatientID:  patientID,
		InvoiceIDs: []string{inv.ID},
		Amount:     15000,
	})
	assert.ErrorIs(t, err, billingdomain.ErrOverpayment)

	// Nothing was applied.
	stored, err := svc.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.PaidAmount)
}

func TestFinalizePayment_AlreadySettled(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())
	patientID := snowflake.ID(1001)
	inv := seedInvoice(t, svc, patientID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []money.LineItem{{Description: "Filling", Price: 5000}})

	_, err := svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-1",
		PatientID:  patientID,
		InvoiceIDs: []string{inv.ID},
		Amount:     5000,
	})
	require.NoError(t, err)

	_, err = svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-2",
		PatientID:  patientID,
		InvoiceIDs: []string{inv.ID},
		Amount:     1000,
	})
	assert.ErrorIs(t, err, billingdomain.ErrAlreadySettled)

	// Status never regresses from PAID.
	stored, err := svc.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billingdomain.InvoiceStatusPaid, stored.Status)
	assert.Equal(t, int64(5000), stored.PaidAmount)
}

func TestFinalizePayment_UnknownInvoice(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())

	_, err := svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-1",
		PatientID:  snowflake.ID(1001),
		InvoiceIDs: []string{"INV-MISSING"},
		Amount:     1000,
	})
	assert.ErrorIs(t, err, billingdomain.ErrNotFound)
}

func TestFinalizePayment_InvalidAmount(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())

	_, err := svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-1",
		InvoiceIDs: []string{"INV-X"},
		Amount:     -100,
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidAmount)

	_, err = svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-2",
		InvoiceIDs: []string{"INV-X"},
		Amount:     0,
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidAmount)
}

func TestFinalizePayment_ReceiptImmutable(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())
	patientID := snowflake.ID(1001)
	first := seedInvoice(t, svc, patientID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []money.LineItem{{Description: "Filling", Price: 5000}})
	second := seedInvoice(t, svc, patientID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), []money.LineItem{{Description: "Crown", Price: 9000}})

	resp, err := svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-1",
		PatientID:  patientID,
		InvoiceIDs: []string{first.ID},
		Amount:     5000,
	})
	require.NoError(t, err)
	receiptID := resp.Receipt.ID

	// Receipts reject line-item edits.
	_, err = svc.UpdateInvoiceItems(context.Background(), billingdomain.UpdateInvoiceItemsRequest{
		InvoiceID: receiptID,
		Items:     []money.LineItem{{Description: "Tampered", Price: 1}},
	})
	assert.ErrorIs(t, err, billingdomain.ErrNotAnInvoice)

	// A later allocation against other invoices leaves the receipt alone.
	_, err = svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-2",
		PatientID:  patientID,
		InvoiceIDs: []string{second.ID},
		Amount:     9000,
	})
	require.NoError(t, err)

	stored, err := svc.GetByID(context.Background(), receiptID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), stored.Amount)
	require.NotNil(t, stored.RelatedInvoiceID)
	assert.Equal(t, first.ID, *stored.RelatedInvoiceID)
}

func TestFinalizePayment_GuardBlocksDoubleSubmit(t *testing.T) {
	svc, _, _, _ := newTestService(t, defaultCfg())
	patientID := snowflake.ID(1001)
	inv := seedInvoice(t, svc, patientID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), []money.LineItem{{Description: "Filling", Price: 5000}})

	impl, ok := svc.(*Service)
	require.True(t, ok)
	require.NoError(t, impl.guard.Acquire("req-dup"))

	_, err := svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-dup",
		PatientID:  patientID,
		InvoiceIDs: []string{inv.ID},
		Amount:     5000,
	})
	assert.ErrorIs(t, err, billingdomain.ErrPaymentInFlight)

	impl.guard.Release("req-dup")

	// Once released, the same request id goes through.
	_, err = svc.FinalizePayment(context.Background(), billingdomain.FinalizePaymentRequest{
		RequestID:  "req-dup",
		PatientID:  patientID,
		InvoiceIDs: []string{inv.ID},
		Amount:     5000,
	})
	assert.NoError(t, err)
}

func TestList_OverdueDerivedAtRead(t *testing.T) {
	svc, _, fake, _ := newTestService(t, defaultCfg())
	patientID := snowflake.ID(1001)
	inv := seedInvoice(t, svc, patientID, fake.Now(), []money.LineItem{{Description: "Filling", Price: 5000}})

	stored, err := svc.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billingdomain.InvoiceStatusPending, stored.Status)

	fake.Advance(31 * 24 * time.Hour)

	stored, err = svc.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billingdomain.InvoiceStatusOverdue, stored.Status)
}
