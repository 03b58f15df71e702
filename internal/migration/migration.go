// Package migration creates the core billing tables on startup so the
// service is usable out of the box for local and self-hosted
// environments.
package migration

import (
	auditdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/audit/domain"
	billingdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/domain"
	patientdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/patient/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return conn.AutoMigrate(
			&patientdomain.Patient{},
			&billingdomain.Invoice{},
			&auditdomain.AuditLog{},
		)
	}),
)
