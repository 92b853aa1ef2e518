// Package metrics provides Prometheus metrics for the athlonos desktop.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"athlonos/internal/logging"
)

var (
	// Chat metrics
	chatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlon_chat_turns_total",
			Help: "Total number of chat turns by route and outcome",
		},
		[]string{"transport", "mode", "outcome"},
	)

	chatTurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "athlon_chat_turn_duration_seconds",
			Help:    "Chat turn duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"transport", "mode"},
	)

	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlon_tool_calls_total",
			Help: "Total number of agent tool calls",
		},
		[]string{"tool", "status"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlon_uploads_total",
			Help: "Total number of attachment uploads to the interpreter backend",
		},
		[]string{"status"},
	)

	// Desktop metrics
	windowOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlon_window_operations_total",
			Help: "Total number of window manager operations",
		},
		[]string{"op", "app"},
	)

	pageFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlon_browser_fetches_total",
			Help: "Total number of browser page fetches",
		},
		[]string{"fetcher", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordChatTurn records one finished chat turn.
func RecordChatTurn(transport, mode string, ok bool, duration time.Duration) {
	chatTurnsTotal.WithLabelValues(transport, mode, outcome(ok)).Inc()
	chatTurnDuration.WithLabelValues(transport, mode).Observe(duration.Seconds())
}

// RecordToolCall records one agent tool invocation.
func RecordToolCall(tool string, ok bool) {
	toolCallsTotal.WithLabelValues(tool, status(ok)).Inc()
}

// RecordUpload records one attachment upload.
func RecordUpload(ok bool) {
	uploadsTotal.WithLabelValues(status(ok)).Inc()
}

// RecordWindowOp records one window manager operation.
func RecordWindowOp(op, app string) {
	windowOpsTotal.WithLabelValues(op, app).Inc()
}

// RecordPageFetch records one browser fetch.
func RecordPageFetch(fetcher string, ok bool) {
	pageFetchesTotal.WithLabelValues(fetcher, status(ok)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "reply"
	}
	return "error"
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.Metrics("serving metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
