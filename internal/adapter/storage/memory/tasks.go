// Package memory provides the lock-guarded in-memory registries that stand in
// for a persistent store. Each registry is the sole mutator of its table;
// callers only ever hold ids and copies.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/port"
)

type taskRecord struct {
	task *domain.Task
	seq  int // insertion order, tiebreak for equal priorities
}

type taskRegistry struct {
	mu      sync.RWMutex
	tasks   map[string]*taskRecord
	nextSeq int
	now     func() time.Time
}

// NewTaskRegistry creates an empty task registry. The clock is injectable so
// tests can freeze scoring time.
func NewTaskRegistry(now func() time.Time) port.TaskRegistry {
	if now == nil {
		now = time.Now
	}
	return &taskRegistry{
		tasks: make(map[string]*taskRecord),
		now:   now,
	}
}

func (r *taskRegistry) AddRoom(input domain.CheckoutInput) (*domain.Task, error) {
	if input.RoomNumber == "" {
		return nil, domain.ErrMissingRoomNumber
	}
	if input.CheckoutTime.IsZero() {
		input.CheckoutTime = r.now()
	}

	now := r.now()
	score := domain.CalculatePriority(input.RoomType, input.NextGuestVIP, input.NextArrival, now)

	task := &domain.Task{
		ID:            uuid.NewString(),
		RoomNumber:    input.RoomNumber,
		RoomType:      input.RoomType,
		Floor:         input.Floor,
		CheckoutTime:  input.CheckoutTime,
		NextArrival:   input.NextArrival,
		NextGuestVIP:  input.NextGuestVIP,
		NextGuestName: input.NextGuestName,
		Preferences:   input.Preferences,
		Priority:      score,
		PriorityLevel: domain.PriorityLevelFor(score),
		Status:        domain.TaskStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = &taskRecord{task: task, seq: r.nextSeq}
	r.nextSeq++

	return cloneTask(task), nil
}

func (r *taskRegistry) Get(id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(rec.task), nil
}

// GetByRoom returns the most recent non-complete task for the room.
func (r *taskRegistry) GetByRoom(roomNumber string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *taskRecord
	for _, rec := range r.tasks {
		if rec.task.RoomNumber != roomNumber || rec.task.Terminal() {
			continue
		}
		if found == nil || rec.seq > found.seq {
			found = rec
		}
	}
	if found == nil {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(found.task), nil
}

func (r *taskRegistry) GetPending() []*domain.Task {
	return r.list(func(t *domain.Task) bool { return t.Status == domain.TaskStatusPending })
}

func (r *taskRegistry) GetQueue() []*domain.Task {
	return r.list(func(t *domain.Task) bool { return !t.Terminal() })
}

func (r *taskRegistry) GetAll() []*domain.Task {
	return r.list(func(*domain.Task) bool { return true })
}

// list snapshots matching tasks sorted by priority descending, earlier
// insertion first on ties.
func (r *taskRegistry) list(keep func(*domain.Task) bool) []*domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]*taskRecord, 0, len(r.tasks))
	for _, rec := range r.tasks {
		if keep(rec.task) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].task.Priority != recs[j].task.Priority {
			return recs[i].task.Priority > recs[j].task.Priority
		}
		return recs[i].seq < recs[j].seq
	})

	out := make([]*domain.Task, len(recs))
	for i, rec := range recs {
		out[i] = cloneTask(rec.task)
	}
	return out
}

// Assign sets the worker pair and flips the task to ASSIGNED. Availability of
// the workers is the dispatcher's responsibility, checked before this call.
func (r *taskRegistry) Assign(id string, workerIDs []string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	rec.task.AssignedTo = append([]string(nil), workerIDs...)
	rec.task.Status = domain.TaskStatusAssigned
	rec.task.UpdatedAt = r.now()

	return cloneTask(rec.task), nil
}

func (r *taskRegistry) UpdateStatus(id string, status domain.TaskStatus) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	rec.task.Status = status
	rec.task.UpdatedAt = r.now()

	return cloneTask(rec.task), nil
}

// RecalculatePriorities re-scores every pending and assigned task so arrival
// deadlines that entered or left the urgency window are reflected. Tasks in
// progress or complete keep their last score.
func (r *taskRegistry) RecalculatePriorities(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.tasks {
		if !rec.task.Rescorable() {
			continue
		}
		score := domain.CalculatePriority(rec.task.RoomType, rec.task.NextGuestVIP, rec.task.NextArrival, now)
		if score != rec.task.Priority {
			rec.task.Priority = score
			rec.task.PriorityLevel = domain.PriorityLevelFor(score)
			rec.task.UpdatedAt = now
		}
	}
}

func (r *taskRegistry) GetCounts() map[domain.TaskStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.TaskStatus]int)
	for _, rec := range r.tasks {
		counts[rec.task.Status]++
	}
	return counts
}

// Reset empties the registry. Test and ops utility, not part of normal flow.
func (r *taskRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = make(map[string]*taskRecord)
	r.nextSeq = 0
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.AssignedTo != nil {
		c.AssignedTo = append([]string(nil), t.AssignedTo...)
	}
	if t.Preferences != nil {
		c.Preferences = append([]string(nil), t.Preferences...)
	}
	if t.NextArrival != nil {
		arrival := *t.NextArrival
		c.NextArrival = &arrival
	}
	return &c
}
