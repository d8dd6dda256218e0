package bootstrap

import (
	"checkout-service/internal/infra/gateway"
	"checkout-service/internal/pkg/config"
	"checkout-service/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewPaymentGateway,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)

func NewPaymentGateway(cfg config.Config) *gateway.WompiGateway {
	return gateway.NewWompiGateway(cfg.Gateway)
}
