package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
	"github.com/meridianlabs/thesisflow/internal/mocks"
)

func TestContradictionService_List_InvalidStatusFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := MustNewContradictionService(ContradictionServiceOptions{
		Repo: mocks.NewMockContradictionRepository(ctrl),
	})

	bad := model.ContradictionStatus("shrugged")
	_, err := svc.List(context.Background(), "eng-1", &bad)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestContradictionService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockContradictionRepository(ctrl)
	svc := MustNewContradictionService(ContradictionServiceOptions{Repo: mockRepo})

	mockRepo.EXPECT().
		GetForEngagement(gomock.Any(), "eng-1", "missing").
		Return(nil, data.ErrContradictionNotFound)

	_, err := svc.Get(context.Background(), "eng-1", "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestContradictionService_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockContradictionRepository(ctrl)
	svc := MustNewContradictionService(ContradictionServiceOptions{Repo: mockRepo})

	notes := "churn spike was a one-off billing migration artifact"
	mockRepo.EXPECT().
		Resolve(gomock.Any(), "eng-1", "c-1", model.ContradictionExplained, notes).
		Return(&model.Contradiction{
			ID:     "c-1",
			Status: model.ContradictionExplained,
		}, nil)

	c, err := svc.Resolve(context.Background(), "eng-1", "c-1", &model.ResolveContradictionRequest{
		Action: model.ContradictionExplained,
		Notes:  notes,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ContradictionExplained, c.Status)
}

func TestContradictionService_Resolve_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := MustNewContradictionService(ContradictionServiceOptions{
		Repo: mocks.NewMockContradictionRepository(ctrl),
	})

	tests := []struct {
		name string
		req  *model.ResolveContradictionRequest
	}{
		{
			name: "non-terminal action",
			req: &model.ResolveContradictionRequest{
				Action: model.ContradictionUnresolved,
				Notes:  "long enough resolution notes",
			},
		},
		{
			name: "escalation is not a resolution",
			req: &model.ResolveContradictionRequest{
				Action: model.ContradictionCritical,
				Notes:  "long enough resolution notes",
			},
		},
		{
			name: "notes too short",
			req: &model.ResolveContradictionRequest{
				Action: model.ContradictionDismissed,
				Notes:  "meh",
			},
		},
		{
			name: "whitespace padding does not count",
			req: &model.ResolveContradictionRequest{
				Action: model.ContradictionDismissed,
				Notes:  "   ok    \t\t\t  ",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resolve(context.Background(), "eng-1", "c-1", tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestContradictionService_Resolve_AlreadyResolved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockContradictionRepository(ctrl)
	svc := MustNewContradictionService(ContradictionServiceOptions{Repo: mockRepo})

	mockRepo.EXPECT().
		Resolve(gomock.Any(), "eng-1", "c-1", model.ContradictionDismissed, gomock.Any()).
		Return(nil, data.ErrContradictionResolved)

	_, err := svc.Resolve(context.Background(), "eng-1", "c-1", &model.ResolveContradictionRequest{
		Action: model.ContradictionDismissed,
		Notes:  "long enough resolution notes",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestContradictionService_Escalate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockContradictionRepository(ctrl)
	svc := MustNewContradictionService(ContradictionServiceOptions{Repo: mockRepo})

	mockRepo.EXPECT().
		Escalate(gomock.Any(), "eng-1", "c-1").
		Return(&model.Contradiction{ID: "c-1", Status: model.ContradictionCritical}, nil)

	c, err := svc.Escalate(context.Background(), "eng-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, model.ContradictionCritical, c.Status)
}

func TestContradictionService_Escalate_Resolved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockContradictionRepository(ctrl)
	svc := MustNewContradictionService(ContradictionServiceOptions{Repo: mockRepo})

	mockRepo.EXPECT().
		Escalate(gomock.Any(), "eng-1", "c-1").
		Return(nil, data.ErrContradictionResolved)

	_, err := svc.Escalate(context.Background(), "eng-1", "c-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}
