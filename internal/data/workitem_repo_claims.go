package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meridianlabs/thesisflow/internal/data/pgxutil"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
)

// advisory lock keys for reaper sweeps, shared by all repo instances so only
// one of them runs each sweep at a time.
const (
	requeueAdvisoryLockID      = 874002
	stalePendingAdvisoryLockID = 874003
)

// Create inserts a new pending work item and notifies listeners for its kind
// inside the same transaction, so a wake-up is never emitted for an item that
// failed to commit.
func (r *WorkItemRepo) Create(ctx context.Context, req *model.CreateWorkItemRequest) (*model.WorkItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := req.Parameters
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = model.DefaultMaxRetries
	}

	now := r.timeProvider.Now()
	scheduledAt := now
	if req.ScheduledAt != nil && req.ScheduledAt.After(now) {
		scheduledAt = req.ScheduledAt.UTC()
	}

	item := &model.WorkItem{
		ID:           uuid.NewString(),
		EngagementID: req.EngagementID,
		Kind:         req.Kind,
		Status:       model.WorkStatusPending,
		Progress:     0,
		Parameters:   append(json.RawMessage(nil), params...),
		MaxRetries:   maxRetries,
		ScheduledAt:  scheduledAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
      INSERT INTO work_items (
        id, engagement_id, kind, status, progress, parameters,
        retry_count, max_retries, scheduled_at, created_at, updated_at
      ) VALUES ($1, $2, $3, $4, 0, $5, 0, $6, $7, $8, $8)`,
			item.ID, item.EngagementID, item.Kind, item.Status,
			[]byte(item.Parameters), item.MaxRetries, item.ScheduledAt, now,
		)
		if err != nil {
			return fmt.Errorf("inserting work item: %w", err)
		}

		_, err = tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, workChannel(item.Kind), item.ID)
		if err != nil {
			return fmt.Errorf("notifying work channel: %w", err)
		}
		return nil
	}})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// ReserveNext atomically claims the oldest due pending work item of the given
// kind, marks it running, and sets its lease. FOR UPDATE SKIP LOCKED keeps
// concurrent workers from blocking on each other's candidate rows. Returns
// model.ErrNoWorkAvailable when nothing is due.
func (r *WorkItemRepo) ReserveNext(ctx context.Context, kind model.WorkKind, lease time.Duration) (*model.WorkItem, error) {
	now := r.timeProvider.Now()

	item := &model.WorkItem{}
	var data workItemRowData

	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, fmt.Sprintf(`
      UPDATE work_items SET
        status = 'running',
        retry_count = retry_count + 1,
        started_at = COALESCE(started_at, $1),
        lease_expires_at = $2,
        error_message = NULL,
        updated_at = $1
      WHERE id = (
        SELECT id FROM work_items
        WHERE kind = $3
          AND status = 'pending'
          AND scheduled_at <= $1
        ORDER BY scheduled_at, created_at
        LIMIT 1
        FOR UPDATE SKIP LOCKED
      )
      RETURNING %s`, workItemColumns),
			now, now.Add(lease), kind,
		)
		return data.scanInto(row, item)
	}})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoWorkAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("reserving work item: %w", err)
	}

	data.apply(item)
	return item, nil
}

// Heartbeat extends the lease of a running work item. A false return means
// the lease was lost (the item was requeued or finished elsewhere) and the
// worker must abandon the attempt.
func (r *WorkItemRepo) Heartbeat(ctx context.Context, id string, lease time.Duration) (bool, error) {
	now := r.timeProvider.Now()
	res, err := r.DB.ExecContext(ctx, `
    UPDATE work_items SET
      lease_expires_at = $2,
      updated_at = $3
    WHERE id = $1 AND status = 'running'`,
		id, now.Add(lease), now,
	)
	if err != nil {
		return false, fmt.Errorf("extending work item lease: %w", err)
	}
	return oneRowAffected(res)
}

// UpdateProgress sets the progress percentage of a running work item.
func (r *WorkItemRepo) UpdateProgress(ctx context.Context, id string, progress int) (bool, error) {
	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}

	res, err := r.DB.ExecContext(ctx, `
    UPDATE work_items SET
      progress = $2,
      updated_at = $3
    WHERE id = $1 AND status = 'running'`,
		id, progress, r.timeProvider.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("updating work item progress: %w", err)
	}
	return oneRowAffected(res)
}

// Complete transitions a running work item to completed and stores its result.
func (r *WorkItemRepo) Complete(ctx context.Context, id string, result json.RawMessage) (bool, error) {
	now := r.timeProvider.Now()
	var resultArg any
	if len(result) > 0 {
		resultArg = []byte(result)
	}

	res, err := r.DB.ExecContext(ctx, `
    UPDATE work_items SET
      status = 'completed',
      progress = 100,
      result = $2,
      completed_at = $3,
      lease_expires_at = NULL,
      updated_at = $3
    WHERE id = $1 AND status = 'running'`,
		id, resultArg, now,
	)
	if err != nil {
		return false, fmt.Errorf("completing work item: %w", err)
	}
	return oneRowAffected(res)
}

// Fail records a failed attempt for a running work item. Items with retries
// remaining go back to pending with a quadratic delay; exhausted items land
// in the terminal failed status with the error message preserved.
func (r *WorkItemRepo) Fail(ctx context.Context, id string, errMsg string) (bool, error) {
	now := r.timeProvider.Now()
	retryDelay := time.Duration(r.cfg.RetryDelaySeconds) * time.Second

	res, err := r.DB.ExecContext(ctx, `
    UPDATE work_items SET
      status = CASE WHEN retry_count >= max_retries THEN 'failed' ELSE 'pending' END,
      scheduled_at = CASE WHEN retry_count >= max_retries THEN scheduled_at
                          ELSE $3 + ($4 * retry_count * retry_count) END,
      completed_at = CASE WHEN retry_count >= max_retries THEN $3 ELSE NULL END,
      error_message = $2,
      lease_expires_at = NULL,
      updated_at = $3
    WHERE id = $1 AND status = 'running'`,
		id, errMsg, now, retryDelay,
	)
	if err != nil {
		return false, fmt.Errorf("failing work item: %w", err)
	}
	return oneRowAffected(res)
}

// Delete removes a work item from its engagement. Running items are refused;
// callers should surface that as a conflict.
func (r *WorkItemRepo) Delete(ctx context.Context, engagementID, id string) error {
	var status model.WorkStatus
	err := r.DB.QueryRowContext(ctx, `
    DELETE FROM work_items
    WHERE id = $1 AND engagement_id = $2 AND status <> 'running'
    RETURNING status`,
		id, engagementID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a missing item from a running one.
		var running bool
		checkErr := r.DB.QueryRowContext(ctx, `
      SELECT EXISTS (
        SELECT 1 FROM work_items
        WHERE id = $1 AND engagement_id = $2 AND status = 'running'
      )`, id, engagementID).Scan(&running)
		if checkErr != nil {
			return fmt.Errorf("checking work item status: %w", checkErr)
		}
		if running {
			return ErrWorkItemRunning
		}
		return ErrWorkItemNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting work item: %w", err)
	}
	return nil
}

// RequeueExpired returns expired-lease running items of the given kind to
// pending so another worker can pick them up. Exhausted items go straight to
// failed. The advisory lock keeps concurrent sweepers from doing duplicate
// work; a held lock is not an error, the other sweeper covers this pass.
func (r *WorkItemRepo) RequeueExpired(ctx context.Context, kind model.WorkKind) (int64, error) {
	now := r.timeProvider.Now()

	var requeued int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		var locked bool
		if err := tx.QueryRowContext(ctx, `SELECT pg_try_advisory_xact_lock($1)`, requeueAdvisoryLockID).Scan(&locked); err != nil {
			return fmt.Errorf("acquiring requeue lock: %w", err)
		}
		if !locked {
			return nil
		}

		res, err := tx.ExecContext(ctx, `
      UPDATE work_items SET
        status = CASE WHEN retry_count >= max_retries THEN 'failed' ELSE 'pending' END,
        error_message = CASE WHEN retry_count >= max_retries THEN 'lease expired' ELSE error_message END,
        completed_at = CASE WHEN retry_count >= max_retries THEN $2 ELSE NULL END,
        lease_expires_at = NULL,
        updated_at = $2
      WHERE kind = $1
        AND status = 'running'
        AND lease_expires_at IS NOT NULL
        AND lease_expires_at < $2`,
			kind, now,
		)
		if err != nil {
			return fmt.Errorf("requeuing expired work items: %w", err)
		}
		requeued, err = res.RowsAffected()
		return err
	}})
	if err != nil {
		return 0, err
	}

	if requeued > 0 && r.logger != nil {
		r.logger.Info("requeued expired work items", "kind", kind, "count", requeued)
	}
	return requeued, nil
}

// FailStalePending marks pending items older than maxAge as failed. Items
// that sat unclaimed this long were never going to run; failing them keeps
// the pending set meaningful.
func (r *WorkItemRepo) FailStalePending(ctx context.Context, maxAge time.Duration) (int64, error) {
	now := r.timeProvider.Now()
	cutoff := now.Add(-maxAge)

	var failed int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		var locked bool
		if err := tx.QueryRowContext(ctx, `SELECT pg_try_advisory_xact_lock($1)`, stalePendingAdvisoryLockID).Scan(&locked); err != nil {
			return fmt.Errorf("acquiring stale-pending lock: %w", err)
		}
		if !locked {
			return nil
		}

		res, err := tx.ExecContext(ctx, `
      UPDATE work_items SET
        status = 'failed',
        error_message = 'timed out waiting in pending',
        completed_at = $2,
        updated_at = $2
      WHERE status = 'pending'
        AND created_at < $1`,
			cutoff, now,
		)
		if err != nil {
			return fmt.Errorf("failing stale pending work items: %w", err)
		}
		failed, err = res.RowsAffected()
		return err
	}})
	if err != nil {
		return 0, err
	}

	if failed > 0 && r.logger != nil {
		r.logger.Info("failed stale pending work items", "count", failed, "max_age", maxAge)
	}
	return failed, nil
}

// WaitForNotification blocks until a work item of the given kind is enqueued
// or the context expires. It dedicates a connection to LISTEN for the
// duration of the call.
func (r *WorkItemRepo) WaitForNotification(ctx context.Context, kind model.WorkKind) error {
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if _, err := conn.Exec(ctx, fmt.Sprintf(`LISTEN %q`, workChannel(kind))); err != nil {
			return fmt.Errorf("listening on work channel: %w", err)
		}
		if _, err := conn.WaitForNotification(ctx); err != nil {
			return fmt.Errorf("waiting for work notification: %w", err)
		}
		return nil
	})
}

func workChannel(kind model.WorkKind) string {
	return "work_added_" + string(kind)
}

func oneRowAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n > 0, nil
}
