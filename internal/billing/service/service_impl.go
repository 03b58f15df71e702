package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/audit/domain"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/allocator"
	billingdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/guard"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/clock"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/config"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/money"
	obsmetrics "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/observability/metrics"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/pkg/db"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/pkg/db/option"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Config     config.Config
	Guard      *guard.FinalizeGuard
	AuditSvc   auditdomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	cfg   config.BillingConfig

	guard      *guard.FinalizeGuard
	repo       repository.Repository[billingdomain.Invoice]
	auditSvc   auditdomain.Service
	obsMetrics *obsmetrics.Metrics
}

func NewService(p ServiceParam) billingdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billing.service"),
		genID: p.GenID,
		clock: p.Clock,
		cfg:   p.Config.Billing,

		guard:      p.Guard,
		repo:       repository.ProvideStore[billingdomain.Invoice](p.DB),
		auditSvc:   p.AuditSvc,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) CreateInvoice(ctx context.Context, req billingdomain.CreateInvoiceRequest) (billingdomain.Invoice, error) {
	if req.PatientID == 0 {
		return billingdomain.Invoice{}, billingdomain.ErrInvalidRequest
	}
	if len(req.Items) == 0 {
		return billingdomain.Invoice{}, billingdomain.ErrInvalidRequest
	}

	subtotal, err := money.SumItems(req.Items)
	if err != nil {
		return billingdomain.Invoice{}, billingdomain.ErrInvalidAmount
	}
	tax, err := money.ComputeTax(subtotal, s.cfg.TaxRatePercent)
	if err != nil {
		return billingdomain.Invoice{}, billingdomain.ErrInvalidAmount
	}

	items, err := marshalItems(req.Items)
	if err != nil {
		return billingdomain.Invoice{}, err
	}

	now := s.clock.Now()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	dueAt := req.DueAt
	if dueAt == nil && s.cfg.DueDays > 0 {
		due := date.Add(time.Duration(s.cfg.DueDays) * 24 * time.Hour)
		dueAt = &due
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = "INV-" + s.genID.Generate().String()
	}

	invoice := billingdomain.Invoice{
		ID:         id,
		RecordType: billingdomain.RecordTypeInvoice,
		PatientID:  req.PatientID,
		BranchID:   strings.TrimSpace(req.BranchID),
		Date:       date,
		DueAt:      dueAt,
		Currency:   s.cfg.Currency,
		Items:      items,
		Amount:     subtotal + tax,
		TaxAmount:  tax,
		PaidAmount: 0,
		Status:     billingdomain.InvoiceStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, &invoice); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return billingdomain.Invoice{}, billingdomain.ErrDuplicateID
		}
		return billingdomain.Invoice{}, err
	}

	s.obsMetrics.RecordInvoiceCreated()
	s.emitAudit(ctx, "invoice.created", invoice.ID, map[string]any{
		"patient_id": invoice.PatientID.String(),
		"branch_id":  invoice.BranchID,
		"amount":     invoice.Amount,
		"tax_amount": invoice.TaxAmount,
		"currency":   invoice.Currency,
	})
	return invoice, nil
}

func (s *Service) UpdateInvoiceItems(ctx context.Context, req billingdomain.UpdateInvoiceItemsRequest) (billingdomain.Invoice, error) {
	if len(req.Items) == 0 {
		return billingdomain.Invoice{}, billingdomain.ErrInvalidRequest
	}

	subtotal, err := money.SumItems(req.Items)
	if err != nil {
		return billingdomain.Invoice{}, billingdomain.ErrInvalidAmount
	}
	tax, err := money.ComputeTax(subtotal, s.cfg.TaxRatePercent)
	if err != nil {
		return billingdomain.Invoice{}, billingdomain.ErrInvalidAmount
	}
	items, err := marshalItems(req.Items)
	if err != nil {
		return billingdomain.Invoice{}, err
	}

	var updated billingdomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadDocument(ctx, tx, req.InvoiceID)
		if err != nil {
			return err
		}
		if invoice.RecordType != billingdomain.RecordTypeInvoice {
			// Receipts are the audit trail; they are never edited.
			return billingdomain.ErrNotAnInvoice
		}
		if invoice.PaidAmount > 0 {
			// Edits must not silently change the balance owed once a
			// payment exists.
			return billingdomain.ErrInvoiceLocked
		}

		now := s.clock.Now()
		if err := tx.Model(&billingdomain.Invoice{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]any{
				"items":      items,
				"amount":     subtotal + tax,
				"tax_amount": tax,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		invoice.Items = items
		invoice.Amount = subtotal + tax
		invoice.TaxAmount = tax
		invoice.UpdatedAt = now
		updated = *invoice
		return nil
	})
	if err != nil {
		return billingdomain.Invoice{}, err
	}

	s.emitAudit(ctx, "invoice.items_updated", updated.ID, map[string]any{
		"amount":     updated.Amount,
		"tax_amount": updated.TaxAmount,
	})
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (billingdomain.Invoice, error) {
	item, err := s.repo.FindOne(ctx, &billingdomain.Invoice{ID: strings.TrimSpace(id)})
	if err != nil {
		return billingdomain.Invoice{}, err
	}
	if item == nil {
		return billingdomain.Invoice{}, billingdomain.ErrNotFound
	}

	out := *item
	out.Status = out.EffectiveStatus(s.clock.Now())
	return out, nil
}

func (s *Service) List(ctx context.Context, req billingdomain.ListInvoicesRequest) ([]billingdomain.Invoice, error) {
	filter := &billingdomain.Invoice{}
	if req.PatientID != nil {
		filter.PatientID = *req.PatientID
	}
	if req.Type != nil {
		filter.RecordType = *req.Type
	}

	items, err := s.repo.Find(ctx, filter, option.OrderAsc("date"))
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	invoices := make([]billingdomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out := *item
		if out.RecordType == billingdomain.RecordTypeInvoice {
			out.Status = out.EffectiveStatus(now)
		}
		if req.Status != nil && out.Status != *req.Status {
			continue
		}
		invoices = append(invoices, out)
	}
	return invoices, nil
}

func (s *Service) FindManyByIDs(ctx context.Context, ids []string) ([]billingdomain.Invoice, error) {
	if len(ids) == 0 {
		return []billingdomain.Invoice{}, nil
	}

	items, err := s.repo.Find(ctx, &billingdomain.Invoice{}, option.In("id", ids), option.OrderAsc("date"))
	if err != nil {
		return nil, err
	}

	invoices := make([]billingdomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return invoices, nil
}

// FinalizePayment runs the allocation and receipt issuance sequence for one
// payment request. The guard admits at most one in-flight sequence per
// request id; the latch is released on success or failure, never retried
// automatically.
func (s *Service) FinalizePayment(ctx context.Context, req billingdomain.FinalizePaymentRequest) (billingdomain.FinalizePaymentResponse, error) {
	if req.Amount <= 0 {
		return billingdomain.FinalizePaymentResponse{}, billingdomain.ErrInvalidAmount
	}
	if len(req.InvoiceIDs) == 0 {
		return billingdomain.FinalizePaymentResponse{}, billingdomain.ErrNoTargetInvoices
	}

	if err := s.guard.Acquire(req.RequestID); err != nil {
		s.obsMetrics.RecordPaymentFinalized("rejected", 0)
		return billingdomain.FinalizePaymentResponse{}, err
	}
	defer s.guard.Release(req.RequestID)

	var (
		receipt billingdomain.Invoice
		result  allocator.Result
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		targets, err := s.loadTargets(ctx, tx, req.InvoiceIDs)
		if err != nil {
			return err
		}
		for _, target := range targets {
			if target.RecordType != billingdomain.RecordTypeInvoice {
				return billingdomain.ErrNotAnInvoice
			}
			if req.PatientID != 0 && target.PatientID != req.PatientID {
				return billingdomain.ErrInvalidRequest
			}
		}

		result, err = allocator.Allocate(req.Amount, targets)
		if err != nil {
			return err
		}
		if result.ReceiptAmount == 0 {
			// Every target is already settled; applying the payment would
			// be a silent no-op against PAID invoices.
			return billingdomain.ErrAlreadySettled
		}
		if s.cfg.RejectOverpayment && result.UnallocatedRemainder > 0 {
			return billingdomain.ErrOverpayment
		}

		now := s.clock.Now()
		for _, alloc := range result.Allocations {
			if err := tx.Model(&billingdomain.Invoice{}).
				Where("id = ?", alloc.InvoiceID).
				Updates(map[string]any{
					"paid_amount": alloc.NewPaidAmount,
					"status":      alloc.NewStatus,
					"updated_at":  now,
				}).Error; err != nil {
				return err
			}
		}

		receipt, err = s.buildReceipt(req, result, now)
		if err != nil {
			return err
		}
		return tx.Create(&receipt).Error
	})
	if err != nil {
		s.obsMetrics.RecordPaymentFinalized("failure", 0)
		return billingdomain.FinalizePaymentResponse{}, err
	}

	s.obsMetrics.RecordPaymentFinalized("success", result.ReceiptAmount)
	s.obsMetrics.RecordReceiptIssued()
	s.emitAudit(ctx, "payment.finalized", receipt.ID, map[string]any{
		"patient_id":            req.PatientID.String(),
		"payment_amount":        req.Amount,
		"receipt_amount":        result.ReceiptAmount,
		"unallocated_remainder": result.UnallocatedRemainder,
		"target_invoice_ids":    req.InvoiceIDs,
		"payment_method":        req.Method.Label,
	})

	return billingdomain.FinalizePaymentResponse{
		Receipt:              receipt,
		Allocations:          result.Allocations,
		ReceiptAmount:        result.ReceiptAmount,
		UnallocatedRemainder: result.UnallocatedRemainder,
	}, nil
}

func (s *Service) buildReceipt(req billingdomain.FinalizePaymentRequest, result allocator.Result, now time.Time) (billingdomain.Invoice, error) {
	relatedIDs, err := json.Marshal(req.InvoiceIDs)
	if err != nil {
		return billingdomain.Invoice{}, err
	}

	first := result.Allocations[0].InvoiceID
	receipt := billingdomain.Invoice{
		ID:                "RCPT-" + s.genID.Generate().String(),
		RecordType:        billingdomain.RecordTypeReceipt,
		PatientID:         req.PatientID,
		BranchID:          strings.TrimSpace(req.BranchID),
		Date:              now,
		Currency:          s.cfg.Currency,
		Amount:            req.Amount,
		PaidAmount:        req.Amount,
		Status:            billingdomain.InvoiceStatusPaid,
		RelatedInvoiceID:  &first,
		RelatedInvoiceIDs: datatypes.JSON(relatedIDs),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if label := strings.TrimSpace(req.Method.Label); label != "" {
		receipt.PaymentMethod = &label
	}
	if suffix := strings.TrimSpace(req.Method.CardSuffix); suffix != "" {
		receipt.CardSuffix = &suffix
	}
	return receipt, nil
}

func (s *Service) loadTargets(ctx context.Context, tx *gorm.DB, ids []string) ([]billingdomain.Invoice, error) {
	var targets []billingdomain.Invoice
	if err := tx.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&targets).Error; err != nil {
		return nil, err
	}
	if len(targets) != len(ids) {
		return nil, billingdomain.ErrNotFound
	}
	return targets, nil
}

func (s *Service) loadDocument(ctx context.Context, tx *gorm.DB, id string) (*billingdomain.Invoice, error) {
	var invoice billingdomain.Invoice
	err := tx.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billingdomain.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, targetID string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.AuditLog(ctx, action, "billing_document", &targetID, metadata)
}

func marshalItems(items []money.LineItem) (datatypes.JSON, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
