package components

import (
	"context"

	"car-rental-backend/internal/pkg/config"
	"car-rental-backend/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		func(cfg config.Config) config.WorkerConfig { return cfg.Worker },
		fx.Annotate(
			worker.NewLogSender,
			fx.As(new(worker.Sender)),
		),
		worker.NewDispatcher,
		worker.NewReminderScanner,
	),
	fx.Invoke(startWorkers),
)

func startWorkers(lc fx.Lifecycle, dispatcher *worker.Dispatcher, scanner *worker.ReminderScanner) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go dispatcher.Run(ctx)
			go scanner.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
