package service

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/clock"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/money"
	patientdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/patient/domain"
	statementdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/statement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	BillingSvc billingdomain.Service
	PatientSvc patientdomain.Service
}

type Service struct {
	log        *zap.Logger
	clock      clock.Clock
	billingSvc billingdomain.Service
	patientSvc patientdomain.Service
}

func NewService(p ServiceParam) statementdomain.Service {
	return &Service{
		log:        p.Log.Named("statement.service"),
		clock:      p.Clock,
		billingSvc: p.BillingSvc,
		patientSvc: p.PatientSvc,
	}
}

// PatientStatement derives the chronological ledger for one patient:
// charges increase the running balance, payments decrease it.
func (s *Service) PatientStatement(ctx context.Context, patientID snowflake.ID) (statementdomain.Statement, error) {
	patient, err := s.patientSvc.GetByID(ctx, patientID)
	if err != nil {
		return statementdomain.Statement{}, err
	}

	documents, err := s.billingSvc.List(ctx, billingdomain.ListInvoicesRequest{PatientID: &patientID})
	if err != nil {
		return statementdomain.Statement{}, err
	}

	sort.SliceStable(documents, func(i, j int) bool {
		if documents[i].Date.Equal(documents[j].Date) {
			return documents[i].ID < documents[j].ID
		}
		return documents[i].Date.Before(documents[j].Date)
	})

	now := s.clock.Now()
	stmt := statementdomain.Statement{
		PatientID:   patientID,
		PatientName: patient.Name,
		Entries:     make([]statementdomain.Entry, 0, len(documents)),
		Aging:       make([]statementdomain.AgingLine, 0),
	}

	var balance int64
	for _, doc := range documents {
		if stmt.Currency == "" {
			stmt.Currency = doc.Currency
		}

		switch doc.RecordType {
		case billingdomain.RecordTypeInvoice:
			balance += doc.Amount
			stmt.TotalBilled += doc.Amount
			stmt.Entries = append(stmt.Entries, statementdomain.Entry{
				DocumentID:     doc.ID,
				Kind:           statementdomain.EntryKindCharge,
				Date:           doc.Date,
				Description:    describeCharge(doc),
				Amount:         doc.Amount,
				RunningBalance: balance,
			})

			if outstanding := doc.Outstanding(); outstanding > 0 {
				line := statementdomain.AgingLine{
					InvoiceID:   doc.ID,
					Date:        doc.Date,
					Outstanding: outstanding,
				}
				if doc.DueAt != nil && now.After(*doc.DueAt) {
					line.DaysOverdue = int(now.Sub(*doc.DueAt).Hours() / 24)
				}
				stmt.Aging = append(stmt.Aging, line)
			}
		case billingdomain.RecordTypeReceipt:
			balance -= doc.Amount
			stmt.TotalPaid += doc.Amount
			stmt.Entries = append(stmt.Entries, statementdomain.Entry{
				DocumentID:     doc.ID,
				Kind:           statementdomain.EntryKindPayment,
				Date:           doc.Date,
				Description:    describePayment(doc),
				Amount:         doc.Amount,
				RunningBalance: balance,
			})
		}
	}

	stmt.TotalBalance = balance
	return stmt, nil
}

func describeCharge(doc billingdomain.Invoice) string {
	var items []money.LineItem
	if len(doc.Items) > 0 {
		if err := json.Unmarshal(doc.Items, &items); err == nil && len(items) > 0 {
			return items[0].Description
		}
	}
	return "Dental treatment"
}

func describePayment(doc billingdomain.Invoice) string {
	if doc.PaymentMethod != nil && *doc.PaymentMethod != "" {
		return "Payment - " + *doc.PaymentMethod
	}
	return "Payment received"
}
