package components

import (
	"checkout-service/internal/infra/repository"
	"checkout-service/internal/usecase/commands"
	"checkout-service/internal/usecase/queries"

	"go.uber.org/fx"
)

// The postgres repositories serve both sides: annotated once as the
// write-side port for commands and once as the read store for queries.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewTransactionRepository,
			fx.As(new(commands.TransactionRepository)),
		),
		fx.Annotate(
			repository.NewTransactionRepository,
			fx.As(new(queries.TransactionReadStore)),
		),
		fx.Annotate(
			repository.NewInventoryRepository,
			fx.As(new(commands.InventoryRepository)),
		),
		fx.Annotate(
			repository.NewInventoryRepository,
			fx.As(new(queries.InventoryReadStore)),
		),
		fx.Annotate(
			repository.NewEventRepository,
			fx.As(new(commands.EventStore)),
		),
		fx.Annotate(
			repository.NewEventRepository,
			fx.As(new(queries.EventReadStore)),
		),
	),
)
