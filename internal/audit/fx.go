package audit

import (
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(service.NewService),
)
