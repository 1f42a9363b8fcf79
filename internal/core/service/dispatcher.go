// Package service implements the dispatch orchestrator and the periodic
// recomputation sweep. It is the only place with cross-registry logic.
package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/port"
)

// workersPerTask is the pairing policy: every room is cleaned by exactly two
// housekeepers. Not configurable per task.
const workersPerTask = 2

// DispatchService turns checkout events into prioritized tasks and staffs
// them against the worker roster. Checkout processing, assignment and status
// transitions straddle both registries, so each runs under one mutex and is
// atomic to any reader: a task is never observed ASSIGNED while its workers
// are still AVAILABLE.
type DispatchService struct {
	mu      sync.Mutex
	tasks   port.TaskRegistry
	workers port.WorkerRegistry
	archive port.HistoryArchive
	events  port.EventPublisher
	metrics port.MetricsRecorder
	log     *zap.Logger
	now     func() time.Time
}

// Option configures optional collaborators on the dispatch service.
type Option func(*DispatchService)

// WithArchive records completed tasks into the given archive.
func WithArchive(a port.HistoryArchive) Option {
	return func(s *DispatchService) { s.archive = a }
}

// WithEvents publishes task lifecycle events through the given publisher.
func WithEvents(e port.EventPublisher) Option {
	return func(s *DispatchService) { s.events = e }
}

// WithMetrics records dispatch outcomes on the given recorder.
func WithMetrics(m port.MetricsRecorder) Option {
	return func(s *DispatchService) { s.metrics = m }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *DispatchService) { s.now = now }
}

// NewDispatchService wires the orchestrator to its registries.
func NewDispatchService(tasks port.TaskRegistry, workers port.WorkerRegistry, log *zap.Logger, opts ...Option) *DispatchService {
	s := &DispatchService{
		tasks:   tasks,
		workers: workers,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractFloor derives the floor from a room number: the trailing two digits
// are the room position, the leading digit group is the floor. "412" is floor
// 4, "1201" is floor 12.
func ExtractFloor(roomNumber string) (int, error) {
	if roomNumber == "" {
		return 0, domain.ErrMissingRoomNumber
	}
	if len(roomNumber) < 3 {
		return 0, domain.ErrInvalidRoomNumber
	}
	for _, c := range roomNumber {
		if c < '0' || c > '9' {
			return 0, domain.ErrInvalidRoomNumber
		}
	}
	floor, err := strconv.Atoi(roomNumber[:len(roomNumber)-2])
	if err != nil {
		return 0, domain.ErrInvalidRoomNumber
	}
	return floor, nil
}

// DetermineRoomType classifies a room by its position on the floor: room 01
// is the suite, rooms 02-05 are deluxe, the rest are standard.
func DetermineRoomType(roomNumber string) domain.RoomType {
	if len(roomNumber) < 2 {
		return domain.RoomTypeStandard
	}
	switch roomNumber[len(roomNumber)-2:] {
	case "01":
		return domain.RoomTypeSuite
	case "02", "03", "04", "05":
		return domain.RoomTypeDeluxe
	default:
		return domain.RoomTypeStandard
	}
}

// ProcessCheckout derives floor and room type from the room number, creates
// the task and immediately attempts auto-assignment. The returned task is
// PENDING when no worker pair was available, ASSIGNED otherwise. A room that
// already has a non-complete task queued is a conflict: the existing task is
// returned alongside ErrRoomAlreadyQueued.
func (s *DispatchService) ProcessCheckout(input domain.CheckoutInput) (*domain.Task, error) {
	floor, err := ExtractFloor(input.RoomNumber)
	if err != nil {
		return nil, err
	}
	input.Floor = floor
	input.RoomType = DetermineRoomType(input.RoomNumber)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, err := s.tasks.GetByRoom(input.RoomNumber); err == nil {
		return existing, domain.ErrRoomAlreadyQueued
	}

	task, err := s.tasks.AddRoom(input)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CheckoutProcessed()
	}
	s.publish("task.created", task)
	s.log.Info("Checkout processed",
		zap.String("task_id", task.ID),
		zap.String("room", task.RoomNumber),
		zap.String("room_type", string(task.RoomType)),
		zap.Int("floor", task.Floor),
		zap.Int("priority", task.Priority))

	if s.autoAssignLocked(task.ID) {
		return s.tasks.Get(task.ID)
	}
	return task, nil
}

// AutoAssign attempts to staff the task with a worker pair. It reports false
// when the task is not PENDING or fewer than two workers are available; the
// task is never partially assigned with one worker.
func (s *DispatchService) AutoAssign(taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.tasks.Get(taskID); err != nil {
		return false, err
	}
	return s.autoAssignLocked(taskID), nil
}

// autoAssignLocked runs the assignment algorithm. Caller holds s.mu.
func (s *DispatchService) autoAssignLocked(taskID string) bool {
	task, err := s.tasks.Get(taskID)
	if err != nil || task.Status != domain.TaskStatusPending {
		return false
	}

	// Rank available workers by floor proximity, stable on roster order.
	// Workers on break are not available and never considered.
	candidates := s.workers.GetAvailable()
	sort.SliceStable(candidates, func(i, j int) bool {
		return domain.CalculateFloorMatch(task.Floor, candidates[i].CurrentFloor) >
			domain.CalculateFloorMatch(task.Floor, candidates[j].CurrentFloor)
	})

	if len(candidates) < workersPerTask {
		if s.metrics != nil {
			s.metrics.AssignmentUnavailable()
		}
		s.log.Warn("Not enough available workers for task",
			zap.String("task_id", taskID),
			zap.Int("available", len(candidates)))
		return false
	}

	ids := []string{candidates[0].ID, candidates[1].ID}

	// Commit task first, then workers, under the same lock: no reader ever
	// sees an assigned task with available workers or the reverse.
	assigned, err := s.tasks.Assign(taskID, ids)
	if err != nil {
		return false
	}
	s.workers.AssignRoom(ids)

	if s.metrics != nil {
		s.metrics.TaskAssigned()
	}
	s.publish("task.assigned", assigned)
	s.log.Info("Task assigned",
		zap.String("task_id", taskID),
		zap.String("room", assigned.RoomNumber),
		zap.Strings("workers", ids))
	return true
}

// StartTask moves an ASSIGNED task to IN_PROGRESS. Calls from any other prior
// state are rejected with domain.ErrInvalidTransition.
func (s *DispatchService) StartTask(taskID string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.TaskStatusAssigned {
		return nil, domain.ErrInvalidTransition
	}
	return s.tasks.UpdateStatus(taskID, domain.TaskStatusInProgress)
}

// CompleteTask moves an ASSIGNED or IN_PROGRESS task to COMPLETE, releases
// its workers and walks them to the completed room's floor. Calls from any
// other prior state are rejected with domain.ErrInvalidTransition.
func (s *DispatchService) CompleteTask(ctx context.Context, taskID string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.TaskStatusAssigned && task.Status != domain.TaskStatusInProgress {
		return nil, domain.ErrInvalidTransition
	}

	completed, err := s.tasks.UpdateStatus(taskID, domain.TaskStatusComplete)
	if err != nil {
		return nil, err
	}
	s.workers.CompleteRoom(completed.AssignedTo, completed.Floor)

	if s.metrics != nil {
		s.metrics.TaskCompleted()
	}
	s.publish("task.completed", completed)
	s.log.Info("Task completed",
		zap.String("task_id", taskID),
		zap.String("room", completed.RoomNumber),
		zap.Int("floor", completed.Floor))

	if s.archive != nil {
		if err := s.archive.Record(ctx, completed); err != nil {
			s.log.Warn("Failed to archive completed task", zap.String("task_id", taskID), zap.Error(err))
		}
	}
	return completed, nil
}

// UpdateTaskStatus routes IN_PROGRESS and COMPLETE through the specialized
// transitions; any other known status goes through the raw setter.
func (s *DispatchService) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	switch status {
	case domain.TaskStatusInProgress:
		return s.StartTask(taskID)
	case domain.TaskStatusComplete:
		return s.CompleteTask(ctx, taskID)
	case domain.TaskStatusPending, domain.TaskStatusAssigned:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.tasks.UpdateStatus(taskID, status)
	default:
		return nil, domain.ErrInvalidTransition
	}
}

// GetTask returns the task or domain.ErrTaskNotFound.
func (s *DispatchService) GetTask(taskID string) (*domain.Task, error) {
	return s.tasks.Get(taskID)
}

// RecalculatePriorities re-scores every pending and assigned task at the
// current time.
func (s *DispatchService) RecalculatePriorities() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recalculateLocked()
}

func (s *DispatchService) recalculateLocked() {
	s.tasks.RecalculatePriorities(s.now())
	if s.metrics != nil {
		s.metrics.SetPendingTasks(s.tasks.GetCounts()[domain.TaskStatusPending])
	}
}

// DispatchPending is the sweep body: refresh scores, then retry assignment on
// pending tasks in priority order. Reports how many tasks were staffed.
func (s *DispatchService) DispatchPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recalculateLocked()

	assigned := 0
	for _, task := range s.tasks.GetPending() {
		if s.autoAssignLocked(task.ID) {
			assigned++
		}
	}
	return assigned
}

// QueueStatus builds the read-only aggregate snapshot over both registries.
func (s *DispatchService) QueueStatus() *port.QueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	taskCounts := s.tasks.GetCounts()
	return &port.QueueStatus{
		Tasks:           s.tasks.GetQueue(),
		Workers:         s.workers.GetAll(),
		PendingCount:    taskCounts[domain.TaskStatusPending],
		InProgressCount: taskCounts[domain.TaskStatusInProgress],
		StaffCounts:     s.workers.GetCounts(),
		GeneratedAt:     s.now(),
	}
}

// Workers exposes the roster registry for the request layer.
func (s *DispatchService) Workers() port.WorkerRegistry {
	return s.workers
}

// Reset restores both registries to their documented empty/default state.
// Test and ops utility.
func (s *DispatchService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks.Reset()
	s.workers.Reset()
}

func (s *DispatchService) publish(event string, task *domain.Task) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.events.PublishTaskEvent(ctx, event, task); err != nil {
		s.log.Warn("Failed to publish task event", zap.String("event", event), zap.Error(err))
	}
}

// IsNotFound reports whether err is one of the not-found outcomes.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, domain.ErrWorkerNotFound)
}
