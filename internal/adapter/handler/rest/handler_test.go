package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/storage/memory"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/port"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/service"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	dispatch := service.NewDispatchService(
		memory.NewTaskRegistry(clock),
		memory.NewWorkerRegistry(domain.DefaultRoster()),
		zap.NewNop(),
		service.WithClock(clock),
	)
	srv := httptest.NewServer(New(dispatch, nil, zap.NewNop()).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestPostCheckout(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/checkouts", map[string]string{"room_number": "412"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	task := decode[domain.Task](t, resp)
	if task.Floor != 4 || task.RoomType != domain.RoomTypeStandard {
		t.Errorf("task = floor %d type %s, want floor 4 STANDARD", task.Floor, task.RoomType)
	}
	if task.Status != domain.TaskStatusAssigned {
		t.Errorf("status = %s, want ASSIGNED on a full roster", task.Status)
	}
}

func TestPostCheckoutValidation(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/checkouts", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing room number", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPostCheckoutConflict(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/checkouts", map[string]string{"room_number": "512"})
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/checkouts", map[string]string{"room_number": "512"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409 for duplicate checkout", resp.StatusCode)
	}

	body := decode[struct {
		Error string      `json:"error"`
		Task  domain.Task `json:"task"`
	}](t, resp)
	if body.Task.RoomNumber != "512" {
		t.Errorf("conflict body should carry the existing task, got %+v", body.Task)
	}
}

func TestGetTask(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/checkouts", map[string]string{"room_number": "801"})
	created := decode[domain.Task](t, resp)

	getResp, err := http.Get(srv.URL + "/tasks/" + created.ID)
	if err != nil {
		t.Fatalf("GET task: %v", err)
	}
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", getResp.StatusCode)
	}
	task := decode[domain.Task](t, getResp)
	if task.RoomType != domain.RoomTypeSuite {
		t.Errorf("room type = %s, want SUITE", task.RoomType)
	}

	missing, err := http.Get(srv.URL + "/tasks/nope")
	if err != nil {
		t.Fatalf("GET missing task: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", missing.StatusCode)
	}
}

func TestQueueOrdering(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/checkouts", map[string]string{"room_number": "412"})
	resp.Body.Close()

	arrival := time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC)
	resp = postJSON(t, srv.URL+"/checkouts", map[string]any{
		"room_number":    "801",
		"next_arrival":   arrival,
		"next_guest_vip": true,
	})
	resp.Body.Close()

	queueResp, err := http.Get(srv.URL + "/queue")
	if err != nil {
		t.Fatalf("GET queue: %v", err)
	}
	status := decode[port.QueueStatus](t, queueResp)

	if len(status.Tasks) != 2 {
		t.Fatalf("queue length = %d, want 2", len(status.Tasks))
	}
	if status.Tasks[0].RoomNumber != "801" {
		t.Errorf("queue head = %s, want the VIP suite 801", status.Tasks[0].RoomNumber)
	}
	if len(status.Workers) != len(domain.DefaultRoster()) {
		t.Errorf("workers = %d, want the full roster", len(status.Workers))
	}
}

func TestPatchTaskStatus(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/checkouts", map[string]string{"room_number": "611"})
	created := decode[domain.Task](t, resp)

	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/tasks/"+created.ID+"/status",
		bytes.NewReader([]byte(`{"status":"IN_PROGRESS"}`)))
	patchResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH status: %v", err)
	}
	if patchResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", patchResp.StatusCode)
	}
	task := decode[domain.Task](t, patchResp)
	if task.Status != domain.TaskStatusInProgress {
		t.Errorf("task status = %s, want IN_PROGRESS", task.Status)
	}

	// Starting twice conflicts with the lifecycle.
	req, _ = http.NewRequest(http.MethodPatch, srv.URL+"/tasks/"+created.ID+"/status",
		bytes.NewReader([]byte(`{"status":"IN_PROGRESS"}`)))
	patchResp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH status: %v", err)
	}
	patchResp.Body.Close()
	if patchResp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409 for invalid transition", patchResp.StatusCode)
	}
}

func TestPatchWorkerStatus(t *testing.T) {
	srv := setupServer(t)

	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/workers/hk-001/status",
		bytes.NewReader([]byte(`{"status":"BREAK"}`)))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH worker: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	worker := decode[domain.Worker](t, resp)
	if worker.Status != domain.WorkerStatusBreak {
		t.Errorf("worker status = %s, want BREAK", worker.Status)
	}

	req, _ = http.NewRequest(http.MethodPatch, srv.URL+"/workers/hk-001/status",
		bytes.NewReader([]byte(`{"status":"NAPPING"}`)))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH worker: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown worker status", resp.StatusCode)
	}
}

func TestPostAssignRetry(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/checkouts", map[string]string{"room_number": "412"})
	created := decode[domain.Task](t, resp)

	// Already assigned: retry reports false but is not an error.
	assignResp := postJSON(t, srv.URL+"/tasks/"+created.ID+"/assign", nil)
	if assignResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", assignResp.StatusCode)
	}
	body := decode[map[string]bool](t, assignResp)
	if body["assigned"] {
		t.Error("retrying an assigned task should report assigned=false")
	}
}
