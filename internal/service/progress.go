package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/meridianlabs/thesisflow/internal/core"
	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// subscriberBuffer is the per-subscriber live channel capacity. A subscriber
// that falls this far behind is disconnected and must reconnect with
// after_seq to replay what it missed from the durable tail.
const subscriberBuffer = 64

// ProgressBroadcasterOptions groups dependencies for ProgressBroadcaster.
type ProgressBroadcasterOptions struct {
	Repo         core.ProgressRepository // Required: durable event tail
	TimeProvider data.TimeProvider       // Optional: defaults to wall clock
	Logger       *slog.Logger            // Optional: structured logger
}

// ProgressBroadcaster assigns per-item sequence numbers to progress events,
// persists them, and fans them out in order to live subscribers. The durable
// tail makes late subscription lossless: a subscriber replays everything
// after its last seen sequence number before switching to live delivery.
type ProgressBroadcaster struct {
	repo         core.ProgressRepository
	timeProvider data.TimeProvider
	logger       *slog.Logger

	mu    sync.Mutex
	items map[string]*itemStream
}

type itemStream struct {
	seq    int64
	seqSet bool
	closed bool
	subs   map[chan *model.ProgressEvent]struct{}
}

// NewProgressBroadcaster constructs a new ProgressBroadcaster.
func NewProgressBroadcaster(opts ProgressBroadcasterOptions) (*ProgressBroadcaster, error) {
	if opts.Repo == nil {
		return nil, errors.New("ProgressRepository is required")
	}

	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "progress_broadcaster")
	}

	return &ProgressBroadcaster{
		repo:         opts.Repo,
		timeProvider: tp,
		logger:       logger,
		items:        make(map[string]*itemStream),
	}, nil
}

// MustNewProgressBroadcaster constructs a new ProgressBroadcaster and panics on error.
func MustNewProgressBroadcaster(opts ProgressBroadcasterOptions) *ProgressBroadcaster {
	b, err := NewProgressBroadcaster(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create ProgressBroadcaster: %v", err))
	}
	return b
}

// Publish persists one progress event with the next sequence number for the
// work item and delivers it to live subscribers. The event is durable before
// any subscriber sees it, so a crash cannot leave subscribers ahead of the
// tail.
func (b *ProgressBroadcaster) Publish(ctx context.Context, workItemID, message string, progress *int) (*model.ProgressEvent, error) {
	b.mu.Lock()
	stream := b.streamLocked(workItemID)
	if stream.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("progress stream for %s is closed", workItemID)
	}

	if !stream.seqSet {
		// First publish for this item since startup: resume the sequence from
		// the durable tail rather than restarting at 1.
		b.mu.Unlock()
		maxSeq, err := b.repo.MaxSeq(ctx, workItemID)
		if err != nil {
			return nil, fmt.Errorf("resume progress sequence: %w", err)
		}
		b.mu.Lock()
		stream = b.streamLocked(workItemID)
		if !stream.seqSet {
			stream.seq = maxSeq
			stream.seqSet = true
		}
	}

	stream.seq++
	ev := &model.ProgressEvent{
		WorkItemID: workItemID,
		Seq:        stream.seq,
		Message:    message,
		Progress:   progress,
		CreatedAt:  b.timeProvider.Now(),
	}
	b.mu.Unlock()

	if err := b.repo.Append(ctx, ev); err != nil {
		return nil, fmt.Errorf("persist progress event: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range stream.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber fell too far behind. Drop it; reconnecting with
			// after_seq recovers the missed events from the tail.
			delete(stream.subs, ch)
			close(ch)
			if b.logger != nil {
				b.logger.Warn("dropped lagging progress subscriber", "work_item_id", workItemID)
			}
		}
	}
	return ev, nil
}

// Subscribe returns a channel of progress events for a work item, starting
// after the given sequence number. Events already in the durable tail are
// replayed first; live events follow with no gaps or duplicates. The channel
// closes when the stream finishes or the subscriber lags too far behind.
// Cancel releases the subscription.
func (b *ProgressBroadcaster) Subscribe(ctx context.Context, workItemID string, afterSeq int64) (<-chan *model.ProgressEvent, func(), error) {
	live := make(chan *model.ProgressEvent, subscriberBuffer)

	b.mu.Lock()
	stream := b.streamLocked(workItemID)
	alreadyClosed := stream.closed
	if !alreadyClosed {
		stream.subs[live] = struct{}{}
	}
	b.mu.Unlock()

	// Replay the durable tail. Live events that raced in during the replay
	// are deduplicated by sequence number in the merge loop below.
	replay, err := b.repo.ListAfter(ctx, workItemID, afterSeq, 0)
	if err != nil {
		b.removeSub(workItemID, live)
		return nil, nil, fmt.Errorf("replay progress tail: %w", err)
	}

	out := make(chan *model.ProgressEvent, subscriberBuffer)
	go func() {
		defer close(out)

		lastSeq := afterSeq
		for _, ev := range replay {
			if ev.Seq <= lastSeq {
				continue
			}
			select {
			case out <- ev:
				lastSeq = ev.Seq
			case <-ctx.Done():
				return
			}
		}

		if alreadyClosed {
			return
		}
		for {
			select {
			case ev, ok := <-live:
				if !ok {
					return
				}
				if ev.Seq <= lastSeq {
					continue
				}
				select {
				case out <- ev:
					lastSeq = ev.Seq
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { b.removeSub(workItemID, live) }
	return out, cancel, nil
}

// Finish closes the stream for a work item after its terminal event has been
// published. All live subscriber channels close; the durable tail remains
// available for replay.
func (b *ProgressBroadcaster) Finish(workItemID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stream, ok := b.items[workItemID]
	if !ok {
		return
	}
	stream.closed = true
	for ch := range stream.subs {
		delete(stream.subs, ch)
		close(ch)
	}
	delete(b.items, workItemID)
}

// Tail returns durable events for a work item after the given sequence.
func (b *ProgressBroadcaster) Tail(ctx context.Context, workItemID string, afterSeq int64, limit int) ([]*model.ProgressEvent, error) {
	events, err := b.repo.ListAfter(ctx, workItemID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("list progress tail: %w", err)
	}
	return events, nil
}

func (b *ProgressBroadcaster) streamLocked(workItemID string) *itemStream {
	stream, ok := b.items[workItemID]
	if !ok {
		stream = &itemStream{subs: make(map[chan *model.ProgressEvent]struct{})}
		b.items[workItemID] = stream
	}
	return stream
}

func (b *ProgressBroadcaster) removeSub(workItemID string, ch chan *model.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stream, ok := b.items[workItemID]
	if !ok {
		return
	}
	if _, subscribed := stream.subs[ch]; subscribed {
		delete(stream.subs, ch)
		close(ch)
	}
}
