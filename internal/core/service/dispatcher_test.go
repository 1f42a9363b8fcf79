package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/storage/memory"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
)

func testService(t *testing.T) *DispatchService {
	t.Helper()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tasks := memory.NewTaskRegistry(clock)
	workers := memory.NewWorkerRegistry(domain.DefaultRoster())
	return NewDispatchService(tasks, workers, zap.NewNop(), WithClock(clock))
}

func TestExtractFloor(t *testing.T) {
	tests := []struct {
		room    string
		want    int
		wantErr error
	}{
		{"412", 4, nil},
		{"1201", 12, nil},
		{"101", 1, nil},
		{"805", 8, nil},
		{"", 0, domain.ErrMissingRoomNumber},
		{"42", 0, domain.ErrInvalidRoomNumber},
		{"4a2", 0, domain.ErrInvalidRoomNumber},
	}

	for _, tt := range tests {
		got, err := ExtractFloor(tt.room)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ExtractFloor(%q) error = %v, want %v", tt.room, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractFloor(%q) = %d, want %d", tt.room, got, tt.want)
		}
	}
}

func TestDetermineRoomType(t *testing.T) {
	tests := []struct {
		room string
		want domain.RoomType
	}{
		{"801", domain.RoomTypeSuite},
		{"402", domain.RoomTypeDeluxe},
		{"405", domain.RoomTypeDeluxe},
		{"412", domain.RoomTypeStandard},
		{"1201", domain.RoomTypeSuite},
		{"1206", domain.RoomTypeStandard},
	}

	for _, tt := range tests {
		if got := DetermineRoomType(tt.room); got != tt.want {
			t.Errorf("DetermineRoomType(%q) = %s, want %s", tt.room, got, tt.want)
		}
	}
}

func TestProcessCheckoutAssignsPair(t *testing.T) {
	svc := testService(t)

	task, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "412"})
	if err != nil {
		t.Fatalf("ProcessCheckout failed: %v", err)
	}

	if task.Floor != 4 {
		t.Errorf("floor = %d, want 4", task.Floor)
	}
	if task.RoomType != domain.RoomTypeStandard {
		t.Errorf("room type = %s, want STANDARD", task.RoomType)
	}
	if task.Status != domain.TaskStatusAssigned {
		t.Fatalf("status = %s, want ASSIGNED", task.Status)
	}
	if len(task.AssignedTo) != 2 {
		t.Fatalf("assigned workers = %d, want exactly 2", len(task.AssignedTo))
	}

	// The default roster has two floor-4 workers; at least one must be on the
	// task's floor.
	onFloor := 0
	for _, id := range task.AssignedTo {
		w, err := svc.Workers().Get(id)
		if err != nil {
			t.Fatalf("assigned unknown worker %s", id)
		}
		if w.Status != domain.WorkerStatusBusy {
			t.Errorf("worker %s status = %s, want BUSY", id, w.Status)
		}
		if w.CurrentFloor == 4 {
			onFloor++
		}
	}
	if onFloor == 0 {
		t.Error("no assigned worker is on the task's floor")
	}
}

func TestProcessCheckoutConflict(t *testing.T) {
	svc := testService(t)

	first, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "512"})
	if err != nil {
		t.Fatalf("ProcessCheckout failed: %v", err)
	}

	existing, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "512"})
	if !errors.Is(err, domain.ErrRoomAlreadyQueued) {
		t.Fatalf("expected ErrRoomAlreadyQueued, got %v", err)
	}
	if existing == nil || existing.ID != first.ID {
		t.Error("conflict should return the existing task for reference")
	}
}

func TestProcessCheckoutValidation(t *testing.T) {
	svc := testService(t)

	if _, err := svc.ProcessCheckout(domain.CheckoutInput{}); !errors.Is(err, domain.ErrMissingRoomNumber) {
		t.Errorf("expected ErrMissingRoomNumber, got %v", err)
	}
	if _, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "9"}); !errors.Is(err, domain.ErrInvalidRoomNumber) {
		t.Errorf("expected ErrInvalidRoomNumber, got %v", err)
	}
}

func TestVIPSuiteOutranksStandard(t *testing.T) {
	svc := testService(t)
	arrival := time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC) // one hour out

	standard, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "412"})
	if err != nil {
		t.Fatalf("ProcessCheckout failed: %v", err)
	}
	suite, err := svc.ProcessCheckout(domain.CheckoutInput{
		RoomNumber:   "801",
		NextArrival:  &arrival,
		NextGuestVIP: true,
	})
	if err != nil {
		t.Fatalf("ProcessCheckout failed: %v", err)
	}

	if suite.Priority <= standard.Priority {
		t.Errorf("VIP suite priority %d should exceed standard %d", suite.Priority, standard.Priority)
	}

	status := svc.QueueStatus()
	if len(status.Tasks) < 2 {
		t.Fatalf("queue length = %d, want at least 2", len(status.Tasks))
	}
	if status.Tasks[0].ID != suite.ID {
		t.Errorf("queue head = room %s, want the VIP suite", status.Tasks[0].RoomNumber)
	}
}

func TestAutoAssignExhaustion(t *testing.T) {
	svc := testService(t)

	// All but one worker on break: no pair can be formed.
	roster := domain.DefaultRoster()
	for _, seed := range roster[:len(roster)-1] {
		if _, err := svc.Workers().UpdateStatus(seed.ID, domain.WorkerStatusBreak); err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
	}

	task, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "412"})
	if err != nil {
		t.Fatalf("ProcessCheckout failed: %v", err)
	}
	if task.Status != domain.TaskStatusPending {
		t.Fatalf("status = %s, want PENDING when no pair is available", task.Status)
	}
	if len(task.AssignedTo) != 0 {
		t.Errorf("task partially assigned to %v, want nobody", task.AssignedTo)
	}

	assigned, err := svc.AutoAssign(task.ID)
	if err != nil {
		t.Fatalf("AutoAssign failed: %v", err)
	}
	if assigned {
		t.Error("AutoAssign succeeded with a single available worker")
	}
}

func TestTaskLifecycle(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	task, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "1201"})
	if err != nil {
		t.Fatalf("ProcessCheckout failed: %v", err)
	}
	if task.Status != domain.TaskStatusAssigned {
		t.Fatalf("status = %s, want ASSIGNED", task.Status)
	}

	// Completing before starting is allowed; completing a pending task is not
	// (covered below). Start first here.
	started, err := svc.StartTask(task.ID)
	if err != nil {
		t.Fatalf("StartTask failed: %v", err)
	}
	if started.Status != domain.TaskStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", started.Status)
	}

	// Starting twice is an invalid transition.
	if _, err := svc.StartTask(task.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on double start, got %v", err)
	}

	completed, err := svc.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if completed.Status != domain.TaskStatusComplete {
		t.Errorf("status = %s, want COMPLETE", completed.Status)
	}

	// Workers released to the completed room's floor.
	for _, id := range completed.AssignedTo {
		w, _ := svc.Workers().Get(id)
		if w.Status != domain.WorkerStatusAvailable {
			t.Errorf("worker %s status = %s, want AVAILABLE", id, w.Status)
		}
		if w.CurrentFloor != 12 {
			t.Errorf("worker %s floor = %d, want 12", id, w.CurrentFloor)
		}
	}

	// Terminal: no further transitions.
	if _, err := svc.CompleteTask(ctx, task.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on double complete, got %v", err)
	}
}

func TestCompletePendingTaskRejected(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	// Exhaust the roster so the task stays pending.
	for _, seed := range domain.DefaultRoster() {
		svc.Workers().UpdateStatus(seed.ID, domain.WorkerStatusBreak)
	}
	task, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "310"})
	if err != nil {
		t.Fatalf("ProcessCheckout failed: %v", err)
	}

	if _, err := svc.StartTask(task.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition starting a pending task, got %v", err)
	}
	if _, err := svc.CompleteTask(ctx, task.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition completing a pending task, got %v", err)
	}
}

func TestDispatchPendingRetries(t *testing.T) {
	svc := testService(t)

	// Park everyone on break, queue a checkout, then end the break.
	for _, seed := range domain.DefaultRoster() {
		svc.Workers().UpdateStatus(seed.ID, domain.WorkerStatusBreak)
	}
	task, _ := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "207"})
	if task.Status != domain.TaskStatusPending {
		t.Fatalf("status = %s, want PENDING", task.Status)
	}

	for _, seed := range domain.DefaultRoster() {
		svc.Workers().UpdateStatus(seed.ID, domain.WorkerStatusAvailable)
	}

	if assigned := svc.DispatchPending(); assigned != 1 {
		t.Fatalf("DispatchPending staffed %d tasks, want 1", assigned)
	}

	got, _ := svc.GetTask(task.ID)
	if got.Status != domain.TaskStatusAssigned {
		t.Errorf("status = %s, want ASSIGNED after sweep", got.Status)
	}
}

func TestAutoAssignPrefersTaskFloor(t *testing.T) {
	svc := testService(t)

	task, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "412"})
	if err != nil {
		t.Fatalf("ProcessCheckout failed: %v", err)
	}

	// Both floor-4 workers (hk-004, hk-005) outrank everyone else; floor
	// match ties break on roster order.
	want := map[string]bool{"hk-004": true, "hk-005": true}
	for _, id := range task.AssignedTo {
		if !want[id] {
			t.Errorf("assigned %s, want only the floor-4 pair", id)
		}
	}
}

func TestUpdateTaskStatusRouting(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	task, _ := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "611"})

	got, err := svc.UpdateTaskStatus(ctx, task.ID, domain.TaskStatusInProgress)
	if err != nil {
		t.Fatalf("UpdateTaskStatus(IN_PROGRESS) failed: %v", err)
	}
	if got.Status != domain.TaskStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", got.Status)
	}

	got, err = svc.UpdateTaskStatus(ctx, task.ID, domain.TaskStatusComplete)
	if err != nil {
		t.Fatalf("UpdateTaskStatus(COMPLETE) failed: %v", err)
	}
	if got.Status != domain.TaskStatusComplete {
		t.Errorf("status = %s, want COMPLETE", got.Status)
	}

	if _, err := svc.UpdateTaskStatus(ctx, task.ID, "SHREDDED"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for unknown status, got %v", err)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	svc := testService(t)

	svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "412"})
	svc.Reset()

	status := svc.QueueStatus()
	if len(status.Tasks) != 0 {
		t.Errorf("tasks after reset = %d, want 0", len(status.Tasks))
	}
	if got := status.StaffCounts[domain.WorkerStatusAvailable]; got != len(domain.DefaultRoster()) {
		t.Errorf("available workers after reset = %d, want the full roster", got)
	}
}
