package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/testutil"
)

func TestWorkItemRepo_Create(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	tests := []struct {
		name    string
		mutate  func(req *model.CreateWorkItemRequest)
		wantErr string
	}{
		{
			name:   "valid work item",
			mutate: func(*model.CreateWorkItemRequest) {},
		},
		{
			name:    "invalid kind",
			mutate:  func(req *model.CreateWorkItemRequest) { req.Kind = "laundry" },
			wantErr: "invalid work kind",
		},
		{
			name:    "missing parameters",
			mutate:  func(req *model.CreateWorkItemRequest) { req.Parameters = nil },
			wantErr: "parameters are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.WithTestDB(t, func(db *sql.DB) {
				repo := NewWorkItemRepo(db, RepoConfig{})
				engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

				req := testutil.NewWorkItemRequest(engagementID).Build()
				tt.mutate(req)

				item, err := repo.Create(context.Background(), req)

				if tt.wantErr != "" {
					require.Error(t, err)
					assert.Contains(t, err.Error(), tt.wantErr)
					assert.Nil(t, item)
					return
				}

				require.NoError(t, err)
				require.NotNil(t, item)
				assert.NotEmpty(t, item.ID)
				assert.Equal(t, engagementID, item.EngagementID)
				assert.Equal(t, model.WorkStatusPending, item.Status)
				assert.Equal(t, 0, item.RetryCount)
				assert.Equal(t, model.DefaultMaxRetries, item.MaxRetries)
				assert.NotZero(t, item.CreatedAt)
			})
		})
	}
}

func TestWorkItemRepo_ReserveNext(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWorkItemRepo(db, RepoConfig{})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		first, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).Build())
		require.NoError(t, err)

		_, err = repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).Build())
		require.NoError(t, err)

		// Oldest due item is claimed first.
		claimed, err := repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)
		assert.Equal(t, first.ID, claimed.ID)
		assert.Equal(t, model.WorkStatusRunning, claimed.Status)
		assert.Equal(t, 1, claimed.RetryCount)
		require.NotNil(t, claimed.LeaseExpiresAt)
		require.NotNil(t, claimed.StartedAt)

		// Claimed items are invisible to subsequent reservations.
		second, err := repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)
		assert.NotEqual(t, claimed.ID, second.ID)

		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		assert.ErrorIs(t, err, model.ErrNoWorkAvailable)
	})
}

func TestWorkItemRepo_ReserveNext_ExactlyOnceUnderContention(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWorkItemRepo(db, RepoConfig{})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		const items = 5
		for i := 0; i < items; i++ {
			_, err := repo.Create(context.Background(),
				testutil.NewWorkItemRequest(engagementID).Build())
			require.NoError(t, err)
		}

		// Many workers race over the same pending rows; every item must be
		// claimed by exactly one of them.
		var mu sync.Mutex
		claims := map[string]int{}
		var wg sync.WaitGroup
		for w := 0; w < 16; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					item, err := repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
					if errors.Is(err, model.ErrNoWorkAvailable) {
						return
					}
					if err != nil {
						t.Errorf("reserving: %v", err)
						return
					}
					mu.Lock()
					claims[item.ID]++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Len(t, claims, items)
		for id, n := range claims {
			assert.Equal(t, 1, n, "item %s claimed %d times", id, n)
		}
	})
}

func TestWorkItemRepo_ReserveNext_KindIsolation(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWorkItemRepo(db, RepoConfig{})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		_, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).
				WithKind(model.WorkKindDocument).
				WithParametersString(`{"filename": "10-K.txt", "content": "revenue grew"}`).
				Build())
		require.NoError(t, err)

		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		assert.ErrorIs(t, err, model.ErrNoWorkAvailable)

		claimed, err := repo.ReserveNext(context.Background(), model.WorkKindDocument, 30*time.Second)
		require.NoError(t, err)
		assert.Equal(t, model.WorkKindDocument, claimed.Kind)
	})
}

func TestWorkItemRepo_ScheduledItemsAreNotDueEarly(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		tp := NewFixedTimeProvider(time.Now().UTC())
		repo := NewWorkItemRepo(db, RepoConfig{TimeProvider: tp})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		_, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).
				WithScheduledAt(tp.Now().Add(time.Hour)).
				Build())
		require.NoError(t, err)

		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		assert.ErrorIs(t, err, model.ErrNoWorkAvailable)

		// Once the clock passes the scheduled time the item becomes due.
		tp.AddTime(2 * time.Hour)
		claimed, err := repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)
		assert.Equal(t, model.WorkStatusRunning, claimed.Status)
	})
}

func TestWorkItemRepo_Complete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWorkItemRepo(db, RepoConfig{})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		item, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).Build())
		require.NoError(t, err)

		// Completing a pending item is a no-op; only running items settle.
		ok, err := repo.Complete(context.Background(), item.ID, json.RawMessage(`{"verdict": "validated"}`))
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)

		ok, err = repo.Complete(context.Background(), item.ID, json.RawMessage(`{"verdict": "validated"}`))
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetForEngagement(context.Background(), engagementID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.WorkStatusCompleted, got.Status)
		assert.Equal(t, 100, got.Progress)
		assert.JSONEq(t, `{"verdict": "validated"}`, string(got.Result))
		assert.NotNil(t, got.CompletedAt)
		assert.Nil(t, got.LeaseExpiresAt)

		// A second completion finds no running row.
		ok, err = repo.Complete(context.Background(), item.ID, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestWorkItemRepo_Fail_RequeuesWithRetriesRemaining(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWorkItemRepo(db, RepoConfig{RetryDelaySeconds: 10})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		item, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).WithMaxRetries(3).Build())
		require.NoError(t, err)

		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)

		ok, err := repo.Fail(context.Background(), item.ID, "upstream data source unavailable")
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetForEngagement(context.Background(), engagementID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.WorkStatusPending, got.Status)
		require.NotNil(t, got.ErrorMessage)
		assert.Equal(t, "upstream data source unavailable", *got.ErrorMessage)
		assert.Nil(t, got.LeaseExpiresAt)
		// Backoff pushes the retry into the future.
		assert.True(t, got.ScheduledAt.After(got.CreatedAt))
	})
}

func TestWorkItemRepo_Fail_DefaultBackoffApplied(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		tp := NewFixedTimeProvider(time.Now().UTC())
		// No RetryDelaySeconds configured: the default backoff must apply.
		repo := NewWorkItemRepo(db, RepoConfig{TimeProvider: tp})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		item, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).WithMaxRetries(3).Build())
		require.NoError(t, err)

		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)

		ok, err := repo.Fail(context.Background(), item.ID, "upstream data source unavailable")
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetForEngagement(context.Background(), engagementID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.WorkStatusPending, got.Status)
		want := tp.Now().Add(defaultRetryDelaySeconds * time.Second)
		assert.WithinDuration(t, want, got.ScheduledAt, time.Second)
	})
}

func TestWorkItemRepo_Fail_TerminalAfterBudgetExhausted(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		tp := NewFixedTimeProvider(time.Now().UTC())
		repo := NewWorkItemRepo(db, RepoConfig{RetryDelaySeconds: 1, TimeProvider: tp})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		item, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).WithMaxRetries(2).Build())
		require.NoError(t, err)

		for attempt := 1; attempt <= 2; attempt++ {
			claimed, reserveErr := repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
			require.NoError(t, reserveErr)
			assert.Equal(t, attempt, claimed.RetryCount)

			ok, failErr := repo.Fail(context.Background(), item.ID, "still broken")
			require.NoError(t, failErr)
			assert.True(t, ok)

			// Step past the retry backoff.
			tp.AddTime(time.Minute)
		}

		got, err := repo.GetForEngagement(context.Background(), engagementID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.WorkStatusFailed, got.Status)
		assert.NotNil(t, got.CompletedAt)

		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		assert.ErrorIs(t, err, model.ErrNoWorkAvailable)
	})
}

func TestWorkItemRepo_Heartbeat(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWorkItemRepo(db, RepoConfig{})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		item, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).Build())
		require.NoError(t, err)

		// No lease to extend while pending.
		ok, err := repo.Heartbeat(context.Background(), item.ID, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)

		ok, err = repo.Heartbeat(context.Background(), item.ID, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = repo.Complete(context.Background(), item.ID, nil)
		require.NoError(t, err)

		ok, err = repo.Heartbeat(context.Background(), item.ID, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestWorkItemRepo_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWorkItemRepo(db, RepoConfig{})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		item, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).Build())
		require.NoError(t, err)

		// Running items are refused.
		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)
		err = repo.Delete(context.Background(), engagementID, item.ID)
		assert.ErrorIs(t, err, ErrWorkItemRunning)

		// Settled items delete cleanly.
		_, err = repo.Complete(context.Background(), item.ID, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(context.Background(), engagementID, item.ID))

		err = repo.Delete(context.Background(), engagementID, item.ID)
		assert.ErrorIs(t, err, ErrWorkItemNotFound)

		_, err = repo.GetForEngagement(context.Background(), engagementID, item.ID)
		assert.ErrorIs(t, err, ErrWorkItemNotFound)
	})
}

func TestWorkItemRepo_Delete_ScopedToEngagement(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWorkItemRepo(db, RepoConfig{})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")
		otherID := testutil.InsertEngagement(t, db, "Project Borealis")

		item, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).Build())
		require.NoError(t, err)

		err = repo.Delete(context.Background(), otherID, item.ID)
		assert.ErrorIs(t, err, ErrWorkItemNotFound)

		// The item survives the cross-engagement delete attempt.
		_, err = repo.GetForEngagement(context.Background(), engagementID, item.ID)
		require.NoError(t, err)
	})
}

func TestWorkItemRepo_RequeueExpired(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		tp := NewFixedTimeProvider(time.Now().UTC())
		repo := NewWorkItemRepo(db, RepoConfig{TimeProvider: tp})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		item, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).WithMaxRetries(3).Build())
		require.NoError(t, err)

		_, err = repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)

		// Lease still valid: nothing to requeue.
		requeued, err := repo.RequeueExpired(context.Background(), model.WorkKindResearch)
		require.NoError(t, err)
		assert.Zero(t, requeued)

		tp.AddTime(time.Minute)
		requeued, err = repo.RequeueExpired(context.Background(), model.WorkKindResearch)
		require.NoError(t, err)
		assert.EqualValues(t, 1, requeued)

		got, err := repo.GetForEngagement(context.Background(), engagementID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.WorkStatusPending, got.Status)
		assert.Nil(t, got.LeaseExpiresAt)
	})
}

func TestWorkItemRepo_FailStalePending(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		tp := NewFixedTimeProvider(time.Now().UTC())
		repo := NewWorkItemRepo(db, RepoConfig{TimeProvider: tp})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		item, err := repo.Create(context.Background(),
			testutil.NewWorkItemRequest(engagementID).Build())
		require.NoError(t, err)

		// Not stale yet.
		failed, err := repo.FailStalePending(context.Background(), 24*time.Hour)
		require.NoError(t, err)
		assert.Zero(t, failed)

		tp.AddTime(25 * time.Hour)
		failed, err = repo.FailStalePending(context.Background(), 24*time.Hour)
		require.NoError(t, err)
		assert.EqualValues(t, 1, failed)

		got, err := repo.GetForEngagement(context.Background(), engagementID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.WorkStatusFailed, got.Status)
		require.NotNil(t, got.ErrorMessage)
		assert.Equal(t, "timed out waiting in pending", *got.ErrorMessage)
	})
}

func TestWorkItemRepo_Stats(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewWorkItemRepo(db, RepoConfig{})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		for range 3 {
			_, err := repo.Create(context.Background(),
				testutil.NewWorkItemRequest(engagementID).Build())
			require.NoError(t, err)
		}
		claimed, err := repo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)
		_, err = repo.Complete(context.Background(), claimed.ID, nil)
		require.NoError(t, err)

		stats, err := repo.Stats(context.Background(), engagementID, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Pending)
		assert.Equal(t, 1, stats.Completed)
		assert.Equal(t, 0, stats.Running)

		kind := model.WorkKindDocument
		empty, err := repo.Stats(context.Background(), engagementID, &kind)
		require.NoError(t, err)
		assert.Zero(t, empty.Total())
	})
}
