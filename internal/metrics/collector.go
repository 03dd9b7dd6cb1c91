package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wewinbid/approval-engine/internal/events"
	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// Collector turns approval events into Prometheus metrics. It owns its registry
// so several collectors can coexist in tests without duplicate registration.
type Collector struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	completed   *prometheus.CounterVec
	inProgress  prometheus.Gauge
	stepsPassed *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "approval",
				Name:      "transitions_total",
				Help:      "Total number of approval request transitions by event type",
			},
			[]string{"type"},
		),
		completed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "approval",
				Name:      "requests_completed_total",
				Help:      "Total number of approval requests that reached a terminal status",
			},
			[]string{"status"},
		),
		inProgress: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "approval",
				Name:      "requests_in_progress",
				Help:      "Approval requests submitted and not yet finished, as seen by this process",
			},
		),
		stepsPassed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "approval",
				Name:      "steps_resolved_total",
				Help:      "Total number of steps resolved, by direction",
			},
			[]string{"direction"},
		),
	}

	c.registry.MustRegister(
		c.transitions,
		c.completed,
		c.inProgress,
		c.stepsPassed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Register subscribes the collector to every event on the bus.
func (c *Collector) Register(bus *events.Bus) func() {
	return bus.SubscribeAll(c.Handle)
}

// Handle updates the metrics for one event.
func (c *Collector) Handle(_ context.Context, event events.Event) error {
	c.transitions.WithLabelValues(string(event.Type)).Inc()

	switch event.Type {
	case events.TypeSubmitted:
		c.inProgress.Inc()
	case events.TypeStepAdvanced:
		c.stepsPassed.WithLabelValues("forward").Inc()
	case events.TypeStepReturned:
		c.stepsPassed.WithLabelValues("back").Inc()
	}

	if event.IsTerminal() {
		c.completed.WithLabelValues(string(event.Status)).Inc()
		// Drafts cancelled before submission were never counted as in progress.
		if event.PreviousStatus == model.RequestStatusInProgress {
			c.inProgress.Dec()
		}
	}
	return nil
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
