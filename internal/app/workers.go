package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/service/booking"
	"github.com/Alijeyrad/transfers_backend/pkg/dispatch"
	"github.com/Alijeyrad/transfers_backend/pkg/email"
	"github.com/Alijeyrad/transfers_backend/pkg/events"
)

const workerTimeout = 30 * time.Second

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Provide(ProvideNotifier),
	fx.Invoke(RegisterWorkers),
)

func ProvideNotifier(db *repo.Client, mail *email.Client, dispatcher *dispatch.Client) *booking.Notifier {
	return booking.NewNotifier(db, mail, dispatcher, mail.Config())
}

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn
	Cfg      *config.Config
	Notifier *booking.Notifier
}

// RegisterWorkers subscribes the notifier to every booking topic. The
// subscriptions end when ProvideNatsClient drains the connection.
func RegisterWorkers(p WorkerParams) {
	handlers := map[string]events.Handler{
		events.TopicBookingCreated:        p.Notifier.BookingCreated,
		events.TopicBookingCompleted:      p.Notifier.BookingCompleted,
		events.TopicCancellationSubmitted: p.Notifier.CancellationSubmitted,
		events.TopicDispatchRequested:     p.Notifier.DispatchRequested,
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for topic, h := range handlers {
				if _, err := events.Subscribe(p.NC, p.Cfg.Nats.SubjectPrefix, topic, workerTimeout, h); err != nil {
					return fmt.Errorf("subscribe %s: %w", topic, err)
				}
				slog.Debug("event worker started", "topic", topic)
			}
			return nil
		},
	})
}
