package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the practice-ledger collectors.
	Registry = prometheus.NewRegistry()

	dialogueSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "practice_ledger",
			Subsystem: "dialogue",
			Name:      "steps_total",
			Help:      "Conversation steps handled, by conversation kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	activeConversations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "practice_ledger",
			Subsystem: "dialogue",
			Name:      "active_conversations",
			Help:      "Conversations currently waiting for user input.",
		},
	)

	ledgerWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "practice_ledger",
			Subsystem: "ledger",
			Name:      "writes_total",
			Help:      "Ledger write operations, by operation and result.",
		},
		[]string{"op", "result"},
	)

	ledgerSaveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "practice_ledger",
			Subsystem: "ledger",
			Name:      "save_duration_seconds",
			Help:      "Duration of ledger snapshot saves.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)
)

func init() {
	Registry.MustRegister(
		dialogueSteps,
		activeConversations,
		ledgerWrites,
		ledgerSaveDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordDialogueStep(kind, outcome string) {
	if kind == "" {
		kind = "none"
	}
	dialogueSteps.WithLabelValues(kind, outcome).Inc()
}

func SetActiveConversations(n int) {
	activeConversations.Set(float64(n))
}

// RecordLedgerWrite counts a write operation and classifies its error.
func RecordLedgerWrite(op string, err error) {
	ledgerWrites.WithLabelValues(op, writeResult(err)).Inc()
}

func ObserveLedgerSave(duration time.Duration) {
	ledgerSaveDuration.Observe(duration.Seconds())
}

func writeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
