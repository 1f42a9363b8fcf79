// Package domain provides the housekeeping entities, the pure priority
// scorer and the error taxonomy shared by the dispatch engine.
package domain

import "errors"

var (
	// ErrTaskNotFound is returned when a task id references nothing.
	ErrTaskNotFound = errors.New("task not found")

	// ErrWorkerNotFound is returned when a worker id references nothing.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrMissingRoomNumber rejects a checkout submitted without a room number.
	ErrMissingRoomNumber = errors.New("room number is required")

	// ErrInvalidRoomNumber rejects room numbers that do not encode a floor
	// (fewer than three digits, or non-digit characters).
	ErrInvalidRoomNumber = errors.New("invalid room number")

	// ErrRoomAlreadyQueued rejects a second checkout for a room that already
	// has a non-complete task in the queue.
	ErrRoomAlreadyQueued = errors.New("room already has an active task")

	// ErrInvalidTransition rejects a lifecycle call made from the wrong prior
	// state, e.g. completing a task that was never assigned.
	ErrInvalidTransition = errors.New("invalid task status transition")
)
