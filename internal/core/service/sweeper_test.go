package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/storage/memory"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
)

func TestSweeperStaffsStrandedTasks(t *testing.T) {
	tasks := memory.NewTaskRegistry(nil)
	workers := memory.NewWorkerRegistry(domain.DefaultRoster())
	svc := NewDispatchService(tasks, workers, zap.NewNop())

	// Park the roster so the checkout strands.
	for _, seed := range domain.DefaultRoster() {
		workers.UpdateStatus(seed.ID, domain.WorkerStatusBreak)
	}
	task, err := svc.ProcessCheckout(domain.CheckoutInput{RoomNumber: "412"})
	if err != nil {
		t.Fatalf("ProcessCheckout failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := NewSweeper(svc, nil, zap.NewNop())
	go sweeper.Run(ctx, 10*time.Millisecond)

	// Shift ends: the next sweep should staff the task.
	for _, seed := range domain.DefaultRoster() {
		workers.UpdateStatus(seed.ID, domain.WorkerStatusAvailable)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := svc.GetTask(task.ID)
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if got.Status == domain.TaskStatusAssigned {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("sweep never staffed the stranded task")
}
