// Package rest is the thin request layer over the dispatch engine. It maps
// the engine's typed outcomes onto HTTP status codes and never holds state of
// its own.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/service"
)

type Handler struct {
	dispatch *service.DispatchService
	metrics  http.Handler
	log      *zap.Logger
}

// New creates the request layer. metricsHandler may be nil when scraping is
// disabled.
func New(dispatch *service.DispatchService, metricsHandler http.Handler, log *zap.Logger) *Handler {
	return &Handler{
		dispatch: dispatch,
		metrics:  metricsHandler,
		log:      log,
	}
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/checkouts", h.postCheckout).Methods(http.MethodPost)
	r.HandleFunc("/queue", h.getQueue).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", h.getTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}/status", h.patchTaskStatus).Methods(http.MethodPatch)
	r.HandleFunc("/tasks/{id}/assign", h.postAssign).Methods(http.MethodPost)
	r.HandleFunc("/workers", h.getWorkers).Methods(http.MethodGet)
	r.HandleFunc("/workers/{id}/status", h.patchWorkerStatus).Methods(http.MethodPatch)
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)

	if h.metrics != nil {
		r.Handle("/metrics", h.metrics).Methods(http.MethodGet)
	}
	return r
}

func (h *Handler) postCheckout(w http.ResponseWriter, r *http.Request) {
	var input domain.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.dispatch.ProcessCheckout(input)
	switch {
	case errors.Is(err, domain.ErrRoomAlreadyQueued):
		h.writeJSON(w, http.StatusConflict, map[string]any{
			"error": err.Error(),
			"task":  task,
		})
	case errors.Is(err, domain.ErrMissingRoomNumber), errors.Is(err, domain.ErrInvalidRoomNumber):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, "failed to process checkout")
	default:
		h.writeJSON(w, http.StatusCreated, task)
	}
}

// getQueue recomputes priorities first so arrival-driven urgency reflects the
// current time, then returns the aggregate snapshot.
func (h *Handler) getQueue(w http.ResponseWriter, r *http.Request) {
	h.dispatch.RecalculatePriorities()
	h.writeJSON(w, http.StatusOK, h.dispatch.QueueStatus())
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.dispatch.GetTask(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

func (h *Handler) patchTaskStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		h.writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	task, err := h.dispatch.UpdateTaskStatus(r.Context(), mux.Vars(r)["id"], body.Status)
	switch {
	case service.IsNotFound(err):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		h.writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, "failed to update task status")
	default:
		h.writeJSON(w, http.StatusOK, task)
	}
}

// postAssign is the manual retry for a task left PENDING by an exhausted
// roster.
func (h *Handler) postAssign(w http.ResponseWriter, r *http.Request) {
	assigned, err := h.dispatch.AutoAssign(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"assigned": assigned})
}

func (h *Handler) getWorkers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.dispatch.Workers().GetAll())
}

// patchWorkerStatus is the shift-management hook: it is the only way a worker
// enters or leaves BREAK.
func (h *Handler) patchWorkerStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.WorkerStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch body.Status {
	case domain.WorkerStatusAvailable, domain.WorkerStatusBusy, domain.WorkerStatusBreak:
	default:
		h.writeError(w, http.StatusBadRequest, "unknown worker status")
		return
	}

	worker, err := h.dispatch.Workers().UpdateStatus(mux.Vars(r)["id"], body.Status)
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, worker)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, map[string]string{"error": msg})
}
