package memory

import (
	"sync"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/port"
)

type workerRegistry struct {
	mu      sync.RWMutex
	workers map[string]*domain.Worker
	order   []string // roster order, tiebreak for equal floor-match ranks
	seed    []domain.WorkerSeed
}

// NewWorkerRegistry creates a registry seeded from the given roster. Roster
// order is retained for stable assignment tie-breaks.
func NewWorkerRegistry(seed []domain.WorkerSeed) port.WorkerRegistry {
	r := &workerRegistry{seed: seed}
	r.provision()
	return r
}

func (r *workerRegistry) provision() {
	r.workers = make(map[string]*domain.Worker, len(r.seed))
	r.order = make([]string, 0, len(r.seed))
	for _, s := range r.seed {
		r.workers[s.ID] = &domain.Worker{
			ID:           s.ID,
			Name:         s.Name,
			CurrentFloor: s.Floor,
			Status:       domain.WorkerStatusAvailable,
		}
		r.order = append(r.order, s.ID)
	}
}

func (r *workerRegistry) Get(id string) (*domain.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workers[id]
	if !ok {
		return nil, domain.ErrWorkerNotFound
	}
	return cloneWorker(w), nil
}

func (r *workerRegistry) GetAll() []*domain.Worker {
	return r.list(func(*domain.Worker) bool { return true })
}

func (r *workerRegistry) GetAvailable() []*domain.Worker {
	return r.list(func(w *domain.Worker) bool { return w.Status == domain.WorkerStatusAvailable })
}

func (r *workerRegistry) GetAvailableOnFloor(floor int) []*domain.Worker {
	return r.list(func(w *domain.Worker) bool {
		return w.Status == domain.WorkerStatusAvailable && w.CurrentFloor == floor
	})
}

func (r *workerRegistry) GetByStatus(status domain.WorkerStatus) []*domain.Worker {
	return r.list(func(w *domain.Worker) bool { return w.Status == status })
}

// list snapshots matching workers in roster order.
func (r *workerRegistry) list(keep func(*domain.Worker) bool) []*domain.Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Worker
	for _, id := range r.order {
		if w := r.workers[id]; keep(w) {
			out = append(out, cloneWorker(w))
		}
	}
	return out
}

// UpdateStatus sets the status directly. This is the shift-management escape
// hatch (BREAK on/off); the count-driven available/busy flip happens in
// AssignRoom and CompleteRoom.
func (r *workerRegistry) UpdateStatus(id string, status domain.WorkerStatus) (*domain.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	if !ok {
		return nil, domain.ErrWorkerNotFound
	}
	w.Status = status
	return cloneWorker(w), nil
}

func (r *workerRegistry) UpdateFloor(id string, floor int) (*domain.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[id]
	if !ok {
		return nil, domain.ErrWorkerNotFound
	}
	w.CurrentFloor = floor
	return cloneWorker(w), nil
}

// AssignRoom increments the room count for each worker and marks them busy.
// Unknown ids are skipped.
func (r *workerRegistry) AssignRoom(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		w, ok := r.workers[id]
		if !ok {
			continue
		}
		w.AssignedRooms++
		if w.AssignedRooms > 0 && w.Status != domain.WorkerStatusBreak {
			w.Status = domain.WorkerStatusBusy
		}
	}
}

// CompleteRoom decrements each worker's room count and moves them to the
// completed room's floor. A worker reaching zero rooms returns to AVAILABLE
// unless shift management put them on BREAK in the meantime.
func (r *workerRegistry) CompleteRoom(ids []string, floor int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		w, ok := r.workers[id]
		if !ok {
			continue
		}
		if w.AssignedRooms > 0 {
			w.AssignedRooms--
		}
		w.CurrentFloor = floor
		if w.AssignedRooms == 0 && w.Status == domain.WorkerStatusBusy {
			w.Status = domain.WorkerStatusAvailable
		}
	}
}

func (r *workerRegistry) GetCounts() map[domain.WorkerStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.WorkerStatus]int)
	for _, w := range r.workers {
		counts[w.Status]++
	}
	return counts
}

// Reset reprovisions the roster from the original seed.
func (r *workerRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.provision()
}

func cloneWorker(w *domain.Worker) *domain.Worker {
	c := *w
	return &c
}
