package statement

import (
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/statement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("statement.service",
	fx.Provide(service.NewService),
)
