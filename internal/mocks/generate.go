// Package mocks provides mock implementations for testing the thesisflow job system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockWorkItemRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(item, nil)
package mocks

// Generate mock for WorkItemRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=workitem_repository_mock.go github.com/meridianlabs/thesisflow/internal/core WorkItemRepository

// Generate mock for ProgressRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=progress_repository_mock.go github.com/meridianlabs/thesisflow/internal/core ProgressRepository

// Generate mock for MetricRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=metric_repository_mock.go github.com/meridianlabs/thesisflow/internal/core MetricRepository

// Generate mock for EvidenceRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=evidence_repository_mock.go github.com/meridianlabs/thesisflow/internal/core EvidenceRepository

// Generate mock for HypothesisRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=hypothesis_repository_mock.go github.com/meridianlabs/thesisflow/internal/core HypothesisRepository

// Generate mock for ContradictionRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=contradiction_repository_mock.go github.com/meridianlabs/thesisflow/internal/core ContradictionRepository

// Generate mock for EngagementRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=engagement_repository_mock.go github.com/meridianlabs/thesisflow/internal/core EngagementRepository

// Generate mock for CacheRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/meridianlabs/thesisflow/internal/core CacheRepository
