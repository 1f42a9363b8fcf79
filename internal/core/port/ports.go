// Package port provides the behavior interfaces that connect the dispatch
// service to its registries and supporting adapters.
package port

import (
	"context"
	"time"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
)

// TaskRegistry owns the in-flight housekeeping tasks. It is the sole mutator
// of its table; callers hold ids, never references into it. Every listing is
// ordered by priority descending with ties broken by insertion order.
type TaskRegistry interface {
	AddRoom(input domain.CheckoutInput) (*domain.Task, error)
	Get(id string) (*domain.Task, error)
	GetByRoom(roomNumber string) (*domain.Task, error)
	GetPending() []*domain.Task
	GetQueue() []*domain.Task
	GetAll() []*domain.Task
	Assign(id string, workerIDs []string) (*domain.Task, error)
	UpdateStatus(id string, status domain.TaskStatus) (*domain.Task, error)
	RecalculatePriorities(now time.Time)
	GetCounts() map[domain.TaskStatus]int
	Reset()
}

// WorkerRegistry owns the housekeeping roster and its floor/availability
// state.
type WorkerRegistry interface {
	Get(id string) (*domain.Worker, error)
	GetAll() []*domain.Worker
	GetAvailable() []*domain.Worker
	GetAvailableOnFloor(floor int) []*domain.Worker
	GetByStatus(status domain.WorkerStatus) []*domain.Worker
	UpdateStatus(id string, status domain.WorkerStatus) (*domain.Worker, error)
	UpdateFloor(id string, floor int) (*domain.Worker, error)
	AssignRoom(ids []string)
	CompleteRoom(ids []string, floor int)
	GetCounts() map[domain.WorkerStatus]int
	Reset()
}

// HistoryArchive records completed tasks outside the live queue (Postgres).
type HistoryArchive interface {
	Record(ctx context.Context, task *domain.Task) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Task, error)
}

// SnapshotStore caches the latest queue status for dashboard polling (Redis).
type SnapshotStore interface {
	Store(ctx context.Context, status *QueueStatus) error
	Load(ctx context.Context) (*QueueStatus, error)
}

// EventPublisher emits task lifecycle events for the dashboard and chat-bot
// bridge collaborators (RabbitMQ).
type EventPublisher interface {
	PublishTaskEvent(ctx context.Context, event string, task *domain.Task) error
}

// MetricsRecorder counts dispatch outcomes (Prometheus).
type MetricsRecorder interface {
	CheckoutProcessed()
	TaskAssigned()
	AssignmentUnavailable()
	TaskCompleted()
	SetPendingTasks(n int)
}

// QueueStatus is the read-only aggregate snapshot combining both registries.
type QueueStatus struct {
	Tasks           []*domain.Task              `json:"tasks"`
	Workers         []*domain.Worker            `json:"workers"`
	PendingCount    int                         `json:"pending_count"`
	InProgressCount int                         `json:"in_progress_count"`
	StaffCounts     map[domain.WorkerStatus]int `json:"staff_counts"`
	GeneratedAt     time.Time                   `json:"generated_at"`
}
