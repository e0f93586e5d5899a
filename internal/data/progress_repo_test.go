package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/testutil"
)

// createWorkItem inserts a work item to hang progress events off.
func createWorkItem(t *testing.T, db *sql.DB, engagementID string) *model.WorkItem {
	t.Helper()
	repo := NewWorkItemRepo(db, RepoConfig{})
	item, err := repo.Create(context.Background(),
		testutil.NewWorkItemRequest(engagementID).Build())
	require.NoError(t, err)
	return item
}

func appendEvent(t *testing.T, repo *ProgressRepo, workItemID string, seq int64, message string, at time.Time) {
	t.Helper()
	require.NoError(t, repo.Append(context.Background(), &model.ProgressEvent{
		WorkItemID: workItemID,
		Seq:        seq,
		Message:    message,
		CreatedAt:  at,
	}))
}

func TestProgressRepo_AppendAndListAfter(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProgressRepo(db, nil, nil)
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")
		item := createWorkItem(t, db, engagementID)

		now := time.Now().UTC()
		appendEvent(t, repo, item.ID, 1, "gathering evidence", now)
		appendEvent(t, repo, item.ID, 2, "assessing hypothesis", now.Add(time.Second))

		progress := 80
		require.NoError(t, repo.Append(context.Background(), &model.ProgressEvent{
			WorkItemID: item.ID,
			Seq:        3,
			Message:    "writing verdict",
			Progress:   &progress,
			CreatedAt:  now.Add(2 * time.Second),
		}))

		events, err := repo.ListAfter(context.Background(), item.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, int64(1), events[0].Seq)
		assert.Equal(t, "gathering evidence", events[0].Message)
		assert.Nil(t, events[0].Progress)
		require.NotNil(t, events[2].Progress)
		assert.Equal(t, 80, *events[2].Progress)

		// afterSeq filters out replayed history.
		tail, err := repo.ListAfter(context.Background(), item.ID, 2, 0)
		require.NoError(t, err)
		require.Len(t, tail, 1)
		assert.Equal(t, int64(3), tail[0].Seq)

		maxSeq, err := repo.MaxSeq(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), maxSeq)
	})
}

func TestProgressRepo_MaxSeq_EmptyTail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProgressRepo(db, nil, nil)

		maxSeq, err := repo.MaxSeq(context.Background(), uuid.NewString())
		require.NoError(t, err)
		assert.Zero(t, maxSeq)
	})
}

func TestProgressRepo_DuplicateSeqRejected(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProgressRepo(db, nil, nil)
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")
		item := createWorkItem(t, db, engagementID)

		now := time.Now().UTC()
		appendEvent(t, repo, item.ID, 1, "first", now)

		err := repo.Append(context.Background(), &model.ProgressEvent{
			WorkItemID: item.ID,
			Seq:        1,
			Message:    "duplicate",
			CreatedAt:  now,
		})
		require.Error(t, err)
	})
}

func TestProgressRepo_PruneBefore(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProgressRepo(db, nil, nil)
		workRepo := NewWorkItemRepo(db, RepoConfig{})
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		settled := createWorkItem(t, db, engagementID)
		live := createWorkItem(t, db, engagementID)

		old := time.Now().UTC().Add(-40 * 24 * time.Hour)
		appendEvent(t, repo, settled.ID, 1, "old settled event", old)
		appendEvent(t, repo, settled.ID, 2, "recent settled event", time.Now().UTC())
		appendEvent(t, repo, live.ID, 1, "old live event", old)

		// Settle the first item; the second keeps its tail even when old.
		claimed, err := workRepo.ReserveNext(context.Background(), model.WorkKindResearch, 30*time.Second)
		require.NoError(t, err)
		require.Equal(t, settled.ID, claimed.ID)
		_, err = workRepo.Complete(context.Background(), settled.ID, nil)
		require.NoError(t, err)

		pruned, err := repo.PruneBefore(context.Background(), 30)
		require.NoError(t, err)
		assert.EqualValues(t, 1, pruned)

		remaining, err := repo.ListAfter(context.Background(), settled.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, int64(2), remaining[0].Seq)

		kept, err := repo.ListAfter(context.Background(), live.ID, 0, 0)
		require.NoError(t, err)
		assert.Len(t, kept, 1)
	})
}
