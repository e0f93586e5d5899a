package data

import "errors"

var (
	// ErrWorkItemNotFound is returned when a work item is not found.
	ErrWorkItemNotFound = errors.New("work item not found")
	// ErrWorkItemRunning is returned when attempting to delete a running work item.
	ErrWorkItemRunning = errors.New("work item is running and cannot be deleted")
	// ErrEngagementNotFound is returned when an engagement is not found.
	ErrEngagementNotFound = errors.New("engagement not found")
	// ErrContradictionNotFound is returned when a contradiction is not found.
	ErrContradictionNotFound = errors.New("contradiction not found")
	// ErrContradictionResolved is returned when mutating a contradiction that
	// has already reached a terminal resolution.
	ErrContradictionResolved = errors.New("contradiction is already resolved")
	// ErrHypothesisNotFound is returned when a hypothesis is not found.
	ErrHypothesisNotFound = errors.New("hypothesis not found")
)
