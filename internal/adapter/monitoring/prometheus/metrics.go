// Package prometheus records dispatch outcomes for scraping.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/port"
)

type Recorder struct {
	registry              *prometheus.Registry
	checkoutsProcessed    prometheus.Counter
	tasksAssigned         prometheus.Counter
	assignmentUnavailable prometheus.Counter
	tasksCompleted        prometheus.Counter
	pendingTasks          prometheus.Gauge
}

// NewRecorder creates a metrics Recorder with its own registry, so tests can
// hold several without duplicate registration panics.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		checkoutsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "housekeeping_checkouts_processed_total",
			Help: "Checkout events turned into cleaning tasks.",
		}),
		tasksAssigned: factory.NewCounter(prometheus.CounterOpts{
			Name: "housekeeping_tasks_assigned_total",
			Help: "Tasks staffed with a worker pair.",
		}),
		assignmentUnavailable: factory.NewCounter(prometheus.CounterOpts{
			Name: "housekeeping_assignment_unavailable_total",
			Help: "Assignment attempts that found fewer than two available workers.",
		}),
		tasksCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "housekeeping_tasks_completed_total",
			Help: "Tasks cleaned and closed out.",
		}),
		pendingTasks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "housekeeping_pending_tasks",
			Help: "Tasks currently waiting for a worker pair.",
		}),
	}
}

var _ port.MetricsRecorder = (*Recorder)(nil)

func (r *Recorder) CheckoutProcessed()     { r.checkoutsProcessed.Inc() }
func (r *Recorder) TaskAssigned()          { r.tasksAssigned.Inc() }
func (r *Recorder) AssignmentUnavailable() { r.assignmentUnavailable.Inc() }
func (r *Recorder) TaskCompleted()         { r.tasksCompleted.Inc() }
func (r *Recorder) SetPendingTasks(n int)  { r.pendingTasks.Set(float64(n)) }

// Handler exposes the scrape endpoint for this Recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
