package patient

import (
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/patient/service"
	"go.uber.org/fx"
)

var Module = fx.Module("patient.service",
	fx.Provide(service.NewService),
)
