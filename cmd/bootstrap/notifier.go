package bootstrap

import (
	"context"

	"checkout-service/internal/infra/notifier"
	"checkout-service/internal/pkg/config"
	"checkout-service/internal/usecase/commands"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		fx.Annotate(
			NewNotificationPublisher,
			fx.As(new(commands.NotificationPublisher)),
		),
	),
)

func NewNotificationPublisher(lc fx.Lifecycle, cfg config.Config) *notifier.KafkaPublisher {
	publisher := notifier.NewKafkaPublisher(cfg.Kafka)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher
}
