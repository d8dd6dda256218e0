package components

import (
	"checkout-service/internal/handler"
	"checkout-service/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewTransactionHandler,
		api.NewSagaHandler,
		api.NewInventoryHandler,
		api.NewEventHandler,
	),
	fx.Invoke(handler.NewRouter),
)
