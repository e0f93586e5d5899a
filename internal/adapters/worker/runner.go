// Package worker pulls claimed work items off the queue and executes the
// registered pipeline for each kind.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/pipeline"
	"github.com/meridianlabs/thesisflow/internal/queue"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// RunnerOptions configures the worker runner for a single work kind.
type RunnerOptions struct {
	Queue       queue.WorkQueue             // Required
	WorkItems   *service.WorkItemService    // Required; settles deliveries
	Registry    *pipeline.Registry          // Required
	Broadcaster *service.ProgressBroadcaster // Optional; terminal events are skipped when nil

	Kind        model.WorkKind
	Concurrency int           // worker goroutines; defaults to 1
	Lease       time.Duration // informs the heartbeat cadence; defaults to 30s

	Logger *slog.Logger
}

// Runner executes pipelines against claimed work items until its context is
// cancelled.
type Runner struct {
	queue       queue.WorkQueue
	workItems   *service.WorkItemService
	registry    *pipeline.Registry
	broadcaster *service.ProgressBroadcaster
	kind        model.WorkKind
	workers     int
	lease       time.Duration
	logger      *slog.Logger
}

// NewRunner constructs a worker runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Queue == nil {
		return nil, errors.New("Queue is required")
	}
	if opts.WorkItems == nil {
		return nil, errors.New("WorkItemService is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("pipeline Registry is required")
	}
	if !opts.Kind.Valid() {
		return nil, fmt.Errorf("invalid work kind %q", opts.Kind)
	}
	if _, ok := opts.Registry.Get(opts.Kind); !ok {
		return nil, fmt.Errorf("no pipeline registered for kind %s", opts.Kind)
	}

	workers := opts.Concurrency
	if workers <= 0 {
		workers = 1
	}
	lease := opts.Lease
	if lease <= 0 {
		lease = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		queue:       opts.Queue,
		workItems:   opts.WorkItems,
		registry:    opts.Registry,
		broadcaster: opts.Broadcaster,
		kind:        opts.Kind,
		workers:     workers,
		lease:       lease,
		logger:      logger.With("component", "worker", "kind", string(opts.Kind)),
	}, nil
}

// Run starts worker goroutines and processes work until the context is
// cancelled. The first fatal error cancels all workers.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting worker runner", "workers", r.workers, "lease", r.lease)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	for range r.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.workerLoop(ctx); err != nil {
				// first error wins, cancels all workers
				select {
				case errCh <- err:
					cancel()
				default:
				}
			}
		}()
	}

	wg.Wait()

	select {
	case err := <-errCh:
		return err
	default:
		return ctx.Err()
	}
}

func (r *Runner) workerLoop(ctx context.Context) error {
	for ctx.Err() == nil {
		delivery, err := r.queue.Dequeue(ctx, r.kind)
		switch {
		case err == nil:
			r.process(ctx, delivery)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		default:
			return fmt.Errorf("dequeue: %w", err)
		}
	}
	return ctx.Err()
}

func (r *Runner) process(ctx context.Context, d *queue.Delivery) {
	item := d.Item
	p, ok := r.registry.Get(item.Kind)
	if !ok {
		r.settleFailure(ctx, d, fmt.Sprintf("no pipeline for kind %s", item.Kind))
		return
	}

	stopHeartbeat := r.startHeartbeat(ctx, item.ID)
	result, runErr := r.runPipeline(ctx, p, item)
	stopHeartbeat()

	if runErr != nil {
		r.settleFailure(ctx, d, runErr.Error())
		return
	}

	completed, err := r.workItems.Complete(ctx, item.ID, result)
	if err != nil {
		r.logger.ErrorContext(ctx, "complete work item", "id", item.ID, "error", err)
		return
	}
	if !completed {
		// Item was settled elsewhere (deleted or requeued after lease loss);
		// drop the delivery without side effects.
		if ackErr := r.queue.Ack(ctx, d); ackErr != nil {
			r.logger.ErrorContext(ctx, "ack settled delivery", "id", item.ID, "error", ackErr)
		}
		return
	}

	r.broadcastTerminal(ctx, item.ID, "completed")
}

// runPipeline executes the pipeline with panic containment so a misbehaving
// pipeline fails its item instead of killing the worker.
func (r *Runner) runPipeline(ctx context.Context, p pipeline.Pipeline, item *model.WorkItem) (result []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "pipeline panic",
				"id", item.ID, "panic", rec, "stack", string(debug.Stack()))
			err = fmt.Errorf("pipeline panic: %v", rec)
		}
	}()
	return p.Run(ctx, item)
}

func (r *Runner) settleFailure(ctx context.Context, d *queue.Delivery, reason string) {
	if err := r.queue.Nack(ctx, d, reason); err != nil {
		r.logger.ErrorContext(ctx, "nack delivery", "id", d.Item.ID, "error", err)
		return
	}
	r.logger.WarnContext(ctx, "work item attempt failed",
		"id", d.Item.ID, "attempt", d.Attempt, "error", reason)

	// RetryCount was already incremented at claim time, so the budget is
	// exhausted once it reaches MaxRetries.
	if d.Item.RetryCount >= d.Item.MaxRetries {
		r.broadcastTerminal(ctx, d.Item.ID, "failed: "+reason)
	}
}

// broadcastTerminal emits the final progress event and closes the item's
// live streams so SSE subscribers see a clean end of stream.
func (r *Runner) broadcastTerminal(ctx context.Context, itemID, message string) {
	if r.broadcaster == nil {
		return
	}
	if _, err := r.broadcaster.Publish(ctx, itemID, message, nil); err != nil {
		r.logger.WarnContext(ctx, "terminal progress publish failed", "id", itemID, "error", err)
	}
	r.broadcaster.Finish(itemID)
}

// startHeartbeat extends the item's lease while the pipeline runs. The
// returned func stops the heartbeat and must be called exactly once.
func (r *Runner) startHeartbeat(ctx context.Context, itemID string) func() {
	interval := r.lease / 3
	if interval < time.Second {
		interval = time.Second
	}

	hbCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-hbCtx.Done():
				return
			case <-ticker.C:
				if ok, err := r.workItems.Heartbeat(hbCtx, itemID, r.lease); err != nil {
					r.logger.WarnContext(hbCtx, "heartbeat failed", "id", itemID, "error", err)
				} else if !ok {
					// Lease already lost; keep running, settlement will no-op.
					r.logger.WarnContext(hbCtx, "heartbeat found item no longer running", "id", itemID)
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
