package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/meridianlabs/thesisflow/internal/data"
	"github.com/meridianlabs/thesisflow/internal/domain/model"
	apperrors "github.com/meridianlabs/thesisflow/internal/errors"
	"github.com/meridianlabs/thesisflow/internal/mocks"
	"github.com/meridianlabs/thesisflow/internal/testutil"
)

// stubNotifier replaces the LISTEN-backed default notifier in unit tests.
type stubNotifier struct {
	ch chan struct{}
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{ch: make(chan struct{})}
}

func (n *stubNotifier) Subscribe(model.WorkKind) (func(), <-chan struct{}) {
	return func() {}, n.ch
}

func (n *stubNotifier) StopAll() {}

func newTestWorkItemService(t *testing.T, repo *mocks.MockWorkItemRepository) *WorkItemService {
	t.Helper()
	svc, err := NewWorkItemService(WorkItemServiceOptions{
		Repo:         repo,
		DefaultLease: 30 * time.Second,
		Notifier:     newStubNotifier(),
	})
	require.NoError(t, err)
	return svc
}

func TestNewWorkItemService_RequiresRepo(t *testing.T) {
	_, err := NewWorkItemService(WorkItemServiceOptions{
		DefaultLease: 30 * time.Second,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WorkItemRepository is required")
}

func TestNewWorkItemService_RequiresPositiveLease(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := NewWorkItemService(WorkItemServiceOptions{
		Repo:     mocks.NewMockWorkItemRepository(ctrl),
		Notifier: newStubNotifier(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DefaultLease must be positive")
}

func TestWorkItemService_Enqueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	req := testutil.NewWorkItemRequest("eng-1").
		WithKind(model.WorkKindStressTest).
		Build()

	created := &model.WorkItem{
		ID:           "wi-1",
		EngagementID: "eng-1",
		Kind:         model.WorkKindStressTest,
		Status:       model.WorkStatusPending,
	}
	mockRepo.EXPECT().Create(gomock.Any(), req).Return(created, nil)

	item, err := svc.Enqueue(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "wi-1", item.ID)
	assert.Equal(t, model.WorkStatusPending, item.Status)
}

func TestWorkItemService_Enqueue_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	tests := []struct {
		name string
		req  *model.CreateWorkItemRequest
	}{
		{
			name: "missing engagement id",
			req: &model.CreateWorkItemRequest{
				Kind:       model.WorkKindResearch,
				Parameters: json.RawMessage(`{}`),
			},
		},
		{
			name: "invalid kind",
			req: &model.CreateWorkItemRequest{
				EngagementID: "eng-1",
				Kind:         model.WorkKind("laundry"),
				Parameters:   json.RawMessage(`{}`),
			},
		},
		{
			name: "missing parameters",
			req: &model.CreateWorkItemRequest{
				EngagementID: "eng-1",
				Kind:         model.WorkKindResearch,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Enqueue(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestWorkItemService_ReserveNext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	item := &model.WorkItem{
		ID:         "wi-1",
		Kind:       model.WorkKindDocument,
		Status:     model.WorkStatusRunning,
		RetryCount: 1,
	}
	mockRepo.EXPECT().
		ReserveNext(gomock.Any(), model.WorkKindDocument, time.Minute).
		Return(item, nil)

	got, err := svc.ReserveNext(context.Background(), model.WorkKindDocument, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "wi-1", got.ID)
}

func TestWorkItemService_ReserveNext_UsesDefaultLease(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	// A zero lease request resolves to the configured default.
	mockRepo.EXPECT().
		ReserveNext(gomock.Any(), model.WorkKindResearch, 30*time.Second).
		Return(&model.WorkItem{ID: "wi-1"}, nil)

	_, err := svc.ReserveNext(context.Background(), model.WorkKindResearch, 0)
	require.NoError(t, err)
}

func TestWorkItemService_ReserveNext_NoWork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	mockRepo.EXPECT().
		ReserveNext(gomock.Any(), model.WorkKindResearch, gomock.Any()).
		Return(nil, model.ErrNoWorkAvailable)

	_, err := svc.ReserveNext(context.Background(), model.WorkKindResearch, time.Minute)
	require.ErrorIs(t, err, model.ErrNoWorkAvailable)
}

func TestWorkItemService_Heartbeat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	mockRepo.EXPECT().Heartbeat(gomock.Any(), "wi-1", time.Minute).Return(true, nil)

	ok, err := svc.Heartbeat(context.Background(), "wi-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWorkItemService_Heartbeat_LostLease(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	mockRepo.EXPECT().Heartbeat(gomock.Any(), "wi-1", gomock.Any()).Return(false, nil)

	ok, err := svc.Heartbeat(context.Background(), "wi-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkItemService_Complete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	result := json.RawMessage(`{"verdict": "supported"}`)
	mockRepo.EXPECT().Complete(gomock.Any(), "wi-1", result).Return(true, nil)

	ok, err := svc.Complete(context.Background(), "wi-1", result)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWorkItemService_Fail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	mockRepo.EXPECT().Fail(gomock.Any(), "wi-1", "boom").Return(true, nil)

	ok, err := svc.Fail(context.Background(), "wi-1", "boom")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWorkItemService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	mockRepo.EXPECT().
		GetForEngagement(gomock.Any(), "eng-1", "missing").
		Return(nil, data.ErrWorkItemNotFound)

	_, err := svc.Get(context.Background(), "eng-1", "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestWorkItemService_GetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	completedAt := time.Now().UTC()
	mockRepo.EXPECT().
		GetForEngagement(gomock.Any(), "eng-1", "wi-1").
		Return(&model.WorkItem{
			ID:          "wi-1",
			Status:      model.WorkStatusCompleted,
			Progress:    100,
			CompletedAt: &completedAt,
		}, nil)

	status, err := svc.GetStatus(context.Background(), "eng-1", "wi-1")
	require.NoError(t, err)
	assert.Equal(t, model.WorkStatusCompleted, status.Status)
	assert.Equal(t, 100, status.Progress)
	require.NotNil(t, status.CompletedAt)
	assert.Nil(t, status.ErrorMessage)
}

func TestWorkItemService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	mockRepo.EXPECT().Delete(gomock.Any(), "eng-1", "wi-1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "eng-1", "wi-1"))
}

func TestWorkItemService_Delete_Running(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	mockRepo.EXPECT().Delete(gomock.Any(), "eng-1", "wi-1").Return(data.ErrWorkItemRunning)

	err := svc.Delete(context.Background(), "eng-1", "wi-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestWorkItemService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	mockRepo.EXPECT().Delete(gomock.Any(), "eng-1", "missing").Return(data.ErrWorkItemNotFound)

	err := svc.Delete(context.Background(), "eng-1", "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestWorkItemService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
	svc := newTestWorkItemService(t, mockRepo)

	kind := model.WorkKindStressTest
	mockRepo.EXPECT().
		Stats(gomock.Any(), "eng-1", &kind).
		Return(&model.WorkItemStats{Pending: 2, Completed: 5}, nil)

	stats, err := svc.Stats(context.Background(), "eng-1", &kind)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Total())
}
