package billing

import (
	"github.com/katapod/transcribe/internal/billing/service"
	"github.com/katapod/transcribe/internal/billing/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("billing",
	fx.Provide(stripe.New),
	fx.Provide(service.New),
)
