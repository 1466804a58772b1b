// Package metrics exposes dashboard activity counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medboard"

// Metrics holds all application metrics on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Card lifecycle
	CardsAdded     *prometheus.CounterVec
	CardsRemoved   prometheus.Counter
	WorkspaceCards prometheus.Gauge

	// View mode
	ModeTransitions *prometheus.CounterVec
	ModeDropped     prometheus.Counter
	PanelToggles    prometheus.Counter

	// Generation
	Generations        *prometheus.CounterVec
	GenerationRejected *prometheus.CounterVec
	GenerationLatency  prometheus.Histogram

	// Side channels
	Notifications    *prometheus.CounterVec
	PreferenceWrites *prometheus.CounterVec
}

// New creates and registers all application metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,

		CardsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_added_total",
			Help:      "Total number of cards added to the workspace",
		}, []string{"source"}),
		CardsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_removed_total",
			Help:      "Total number of cards removed from the workspace",
		}),
		WorkspaceCards: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workspace_cards",
			Help:      "Current number of cards in the workspace",
		}),

		ModeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_transitions_total",
			Help:      "Total number of accepted view mode transitions",
		}, []string{"mode"}),
		ModeDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_requests_dropped_total",
			Help:      "Total number of view mode requests ignored by the guard",
		}),
		PanelToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panel_toggles_total",
			Help:      "Total number of visit mode panel toggles",
		}),

		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of completed prompt generations",
		}, []string{"kind"}),
		GenerationRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_rejected_total",
			Help:      "Total number of prompts rejected before generation",
		}, []string{"reason"}),
		GenerationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time from prompt submit to card insertion",
			Buckets:   []float64{.25, .5, 1, 1.5, 2, 3, 5},
		}),

		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of toast notifications shown",
		}, []string{"kind"}),
		PreferenceWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preference_writes_total",
			Help:      "Total number of view mode preference writes",
		}, []string{"mode"}),
	}

	registry.MustRegister(
		m.CardsAdded,
		m.CardsRemoved,
		m.WorkspaceCards,
		m.ModeTransitions,
		m.ModeDropped,
		m.PanelToggles,
		m.Generations,
		m.GenerationRejected,
		m.GenerationLatency,
		m.Notifications,
		m.PreferenceWrites,
		collectors.NewGoCollector(),
	)

	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}

// =============================================================================
// RECORDING HELPERS - nil-safe so callers can run without metrics
// =============================================================================

func (m *Metrics) CardAdded(source string, total int) {
	if m == nil {
		return
	}
	m.CardsAdded.WithLabelValues(source).Inc()
	m.WorkspaceCards.Set(float64(total))
}

func (m *Metrics) CardRemoved(total int) {
	if m == nil {
		return
	}
	m.CardsRemoved.Inc()
	m.WorkspaceCards.Set(float64(total))
}

func (m *Metrics) ModeSwitched(mode string) {
	if m == nil {
		return
	}
	m.ModeTransitions.WithLabelValues(mode).Inc()
}

func (m *Metrics) ModeRequestDropped() {
	if m == nil {
		return
	}
	m.ModeDropped.Inc()
}

func (m *Metrics) PanelToggled() {
	if m == nil {
		return
	}
	m.PanelToggles.Inc()
}

func (m *Metrics) GenerationDone(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(kind).Inc()
	m.GenerationLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) GenerationRejectedFor(reason string) {
	if m == nil {
		return
	}
	m.GenerationRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) Notified(kind string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind).Inc()
}

func (m *Metrics) PreferenceSaved(mode string) {
	if m == nil {
		return
	}
	m.PreferenceWrites.WithLabelValues(mode).Inc()
}
