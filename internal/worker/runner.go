package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"keuangan/internal/amqp"
)

// Consumer delivers row sync messages until ctx is done.
type Consumer interface {
	ConsumeRowSync(ctx context.Context, handler func(context.Context, *amqp.RowSyncMessage) error) error
}

// Runner drives a SyncWorker: an optional AMQP consumer plus a scheduled sweep
// of pending rows.
type Runner struct {
	worker   *SyncWorker
	consumer Consumer
	interval time.Duration
	pull     func(ctx context.Context) error
}

// NewRunner accepts a nil consumer; only the sweep runs then.
func NewRunner(w *SyncWorker, consumer Consumer, interval time.Duration) *Runner {
	return &Runner{worker: w, consumer: consumer, interval: interval}
}

// WithPull sets a job run at startup and on every sweep after pending rows are pushed.
func (r *Runner) WithPull(pull func(ctx context.Context) error) *Runner {
	r.pull = pull
	return r
}

func (r *Runner) sweep(ctx context.Context) {
	if err := r.worker.ProcessPendingRows(ctx); err != nil {
		slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
		return
	}
	if r.pull != nil {
		if err := r.pull(ctx); err != nil {
			slog.ErrorContext(ctx, "Periodic pull failed", "error", err)
		}
	}
}

// Run blocks until ctx is cancelled or the consumer fails.
func (r *Runner) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Performing startup sync check...")
	if err := r.worker.StartupSyncCheck(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed startup sync check", "error", err)
	}
	if r.pull != nil {
		if err := r.pull(ctx); err != nil {
			slog.ErrorContext(ctx, "Initial pull failed", "error", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", r.interval), func() { r.sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule sync sweep: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.Start()
		slog.InfoContext(gctx, "Sync sweep scheduled", "interval", r.interval.String())
		<-gctx.Done()
		<-c.Stop().Done()
		return nil
	})

	if r.consumer != nil {
		g.Go(func() error {
			err := r.consumer.ConsumeRowSync(gctx, r.worker.HandleSyncMessage)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("message consumption: %w", err)
			}
			return nil
		})
	} else {
		slog.InfoContext(ctx, "Skipping AMQP message consumption - no consumer configured")
	}

	return g.Wait()
}
