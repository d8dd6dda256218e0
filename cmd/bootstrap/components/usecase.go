package components

import (
	"checkout-service/internal/pkg/clock"
	"checkout-service/internal/usecase/commands"
	"checkout-service/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewTransactionCommands,
		commands.NewSagaCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewTransactionQueries,
		queries.NewInventoryQueries,
		queries.NewEventQueries,
	),
)
