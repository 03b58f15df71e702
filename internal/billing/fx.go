package billing

import (
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/guard"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(guard.NewFinalizeGuard),
	fx.Provide(service.NewService),
)
