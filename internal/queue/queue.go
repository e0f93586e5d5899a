// Package queue exposes the durable work queue as an explicit
// enqueue/dequeue/ack/nack contract with a visibility timeout, so pipeline
// code does not assume the Postgres-backed delivery mechanics underneath.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/service"
	"github.com/meridianlabs/thesisflow/pkg/retry"
)

// Delivery is one at-least-once delivery of a claimed work item. The claim
// holds until the visibility timeout (lease) expires or the worker settles
// the delivery through the status store or Nack.
type Delivery struct {
	Item *model.WorkItem
	// Attempt is 1-indexed across redeliveries.
	Attempt int
}

// WorkQueue is the durable, at-least-once delivery channel between API
// handlers and workers. Any broker with visibility-timeout redelivery can
// satisfy it.
type WorkQueue interface {
	// Enqueue persists a new pending work item and signals availability.
	Enqueue(ctx context.Context, req *model.CreateWorkItemRequest) (*model.WorkItem, error)
	// Dequeue blocks until an item of the kind is claimed or ctx is done.
	Dequeue(ctx context.Context, kind model.WorkKind) (*Delivery, error)
	// Ack drops a delivery whose item no longer needs processing (already
	// settled through the status store). It has no side effects.
	Ack(ctx context.Context, d *Delivery) error
	// Nack returns a delivery to the queue. The item re-enters pending with
	// a backoff delay unless its retry budget is exhausted.
	Nack(ctx context.Context, d *Delivery, reason string) error
}

// Options configure the Postgres-backed queue.
type Options struct {
	WorkItems *service.WorkItemService // Required
	// Lease is the visibility timeout granted on dequeue. Zero uses the
	// service's default lease.
	Lease time.Duration
	// PollInterval bounds the wait between empty-queue checks when no
	// notification arrives.
	PollInterval time.Duration
	// DequeueRetries bounds the retry budget for transient store errors
	// during dequeue.
	DequeueRetries int
	Logger         *slog.Logger
}

// PostgresQueue implements WorkQueue on the work_items table: dequeue is a
// SKIP LOCKED claim that atomically moves the item to running with a lease,
// and redelivery is the reaper returning expired leases to pending.
type PostgresQueue struct {
	workItems    *service.WorkItemService
	lease        time.Duration
	pollInterval time.Duration
	retryBudget  int
	logger       *slog.Logger
}

// New constructs a PostgresQueue.
func New(opts Options) (*PostgresQueue, error) {
	if opts.WorkItems == nil {
		return nil, errors.New("WorkItemService is required")
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}
	retryBudget := opts.DequeueRetries
	if retryBudget <= 0 {
		retryBudget = 3
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "work_queue")
	}

	return &PostgresQueue{
		workItems:    opts.WorkItems,
		lease:        opts.Lease,
		pollInterval: pollInterval,
		retryBudget:  retryBudget,
		logger:       logger,
	}, nil
}

// Enqueue persists a new pending work item. Availability is signalled to
// listening workers inside the same transaction as the insert.
func (q *PostgresQueue) Enqueue(ctx context.Context, req *model.CreateWorkItemRequest) (*model.WorkItem, error) {
	return q.workItems.Enqueue(ctx, req)
}

// Dequeue blocks until an item of the given kind is claimed. Empty-queue
// waits are bounded by the availability notifier and a poll interval, so a
// missed notification delays delivery rather than losing it. Transient store
// errors are retried with backoff before surfacing.
func (q *PostgresQueue) Dequeue(ctx context.Context, kind model.WorkKind) (*Delivery, error) {
	unsub, notify := q.workItems.Subscribe(kind)
	defer unsub()

	for {
		var item *model.WorkItem
		err := retry.Do(ctx, retry.Config{
			MaxAttempts: q.retryBudget,
			BaseDelay:   250 * time.Millisecond,
			OnRetry: func(attempt int, err error) {
				if q.logger != nil {
					q.logger.WarnContext(ctx, "dequeue retrying after store error",
						"kind", kind, "attempt", attempt, "error", err)
				}
			},
		}, func() error {
			var reserveErr error
			item, reserveErr = q.workItems.ReserveNext(ctx, kind, q.lease)
			if errors.Is(reserveErr, model.ErrNoWorkAvailable) {
				return retry.Permanent(reserveErr)
			}
			return reserveErr
		})

		switch {
		case err == nil:
			return &Delivery{Item: item, Attempt: item.RetryCount}, nil
		case errors.Is(err, model.ErrNoWorkAvailable):
			if waitErr := q.waitForWork(ctx, notify); waitErr != nil {
				return nil, waitErr
			}
		default:
			return nil, fmt.Errorf("dequeue %s: %w", kind, err)
		}
	}
}

// Ack acknowledges a delivery without touching the status store. Used when a
// redelivered reference turns out to be already settled.
func (q *PostgresQueue) Ack(ctx context.Context, d *Delivery) error {
	if q.logger != nil && d != nil {
		q.logger.DebugContext(ctx, "delivery acked without side effects",
			"id", d.Item.ID, "attempt", d.Attempt)
	}
	return nil
}

// Nack records a failed attempt, returning the item to pending with backoff
// or marking it failed once the retry budget is spent.
func (q *PostgresQueue) Nack(ctx context.Context, d *Delivery, reason string) error {
	if d == nil || d.Item == nil {
		return errors.New("nil delivery")
	}
	if _, err := q.workItems.Fail(ctx, d.Item.ID, reason); err != nil {
		return fmt.Errorf("nack %s: %w", d.Item.ID, err)
	}
	return nil
}

func (q *PostgresQueue) waitForWork(ctx context.Context, notify <-chan struct{}) error {
	timer := time.NewTimer(q.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-notify:
		return nil
	case <-timer.C:
		// Poll fallback covers a missed or coalesced notification.
		return nil
	}
}

var _ WorkQueue = (*PostgresQueue)(nil)
