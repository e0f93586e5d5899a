package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/thesisflow/internal/domain/model"
	"github.com/meridianlabs/thesisflow/internal/testutil"
)

func TestHypothesisRepo_Create(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewHypothesisRepo(db, nil)
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		h, err := repo.Create(context.Background(), engagementID, "Switching costs protect retention")
		require.NoError(t, err)
		assert.Equal(t, model.HypothesisProposed, h.Status)
		assert.InDelta(t, 0.5, h.Confidence, 1e-9)

		_, err = repo.Create(context.Background(), engagementID, "")
		require.ErrorContains(t, err, "statement is required")

		fetched, err := repo.GetForEngagement(context.Background(), engagementID, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Switching costs protect retention", fetched.Statement)

		other := testutil.InsertEngagement(t, db, "Project Borealis")
		_, err = repo.GetForEngagement(context.Background(), other, h.ID)
		require.ErrorIs(t, err, ErrHypothesisNotFound)
	})
}

func TestHypothesisRepo_SetOutcome(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewHypothesisRepo(db, nil)
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		h, err := repo.Create(context.Background(), engagementID, "Unit economics improve with scale")
		require.NoError(t, err)

		require.NoError(t, repo.SetOutcome(context.Background(), h.ID, model.HypothesisValidated, 0.85))

		updated, err := repo.GetForEngagement(context.Background(), engagementID, h.ID)
		require.NoError(t, err)
		assert.Equal(t, model.HypothesisValidated, updated.Status)
		assert.InDelta(t, 0.85, updated.Confidence, 1e-9)

		err = repo.SetOutcome(context.Background(), h.ID, model.HypothesisStatus("plausible"), 0.5)
		require.ErrorContains(t, err, "invalid hypothesis status")

		err = repo.SetOutcome(context.Background(), uuid.NewString(), model.HypothesisRefuted, 0.1)
		require.ErrorIs(t, err, ErrHypothesisNotFound)
	})
}

func TestHypothesisRepo_Snapshot(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewHypothesisRepo(db, nil)
		engagementID := testutil.InsertEngagement(t, db, "Project Atlas")

		validated, err := repo.Create(context.Background(), engagementID, "statement one")
		require.NoError(t, err)
		refuted, err := repo.Create(context.Background(), engagementID, "statement two")
		require.NoError(t, err)
		_, err = repo.Create(context.Background(), engagementID, "statement three")
		require.NoError(t, err)

		require.NoError(t, repo.SetOutcome(context.Background(), validated.ID, model.HypothesisValidated, 0.9))
		require.NoError(t, repo.SetOutcome(context.Background(), refuted.ID, model.HypothesisRefuted, 0.1))

		snap, err := repo.Snapshot(context.Background(), engagementID)
		require.NoError(t, err)
		assert.Equal(t, 3, snap.Total)
		assert.Equal(t, 1, snap.Validated)
		assert.Equal(t, 1, snap.Refuted)
		assert.InDelta(t, 0.5, snap.AvgConfidence, 1e-9)

		// No hypotheses means zeroed aggregates, not an error.
		empty, err := repo.Snapshot(context.Background(), testutil.InsertEngagement(t, db, "Project Borealis"))
		require.NoError(t, err)
		assert.Zero(t, empty.Total)
		assert.Zero(t, empty.AvgConfidence)
	})
}
