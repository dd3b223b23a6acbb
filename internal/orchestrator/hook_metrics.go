package orchestrator

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsHook exports core events as Prometheus metrics. Batch size and
// duration are observability side effects only, never part of the
// correctness contract.
type MetricsHook struct {
	batches       prometheus.Counter
	batchDuration prometheus.Histogram
	batchSize     prometheus.Histogram
	toolCalls     *prometheus.CounterVec
	toolFailures  *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	recoveries    *prometheus.CounterVec

	NopHook
}

// NewMetricsHook registers the core's metrics on reg and returns the hook.
func NewMetricsHook(reg prometheus.Registerer) *MetricsHook {
	h := &MetricsHook{
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heron_read_batches_total",
			Help: "Read-only tool batches dispatched.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "heron_read_batch_duration_seconds",
			Help:    "Wall-clock duration of read-only batches.",
			Buckets: prometheus.DefBuckets,
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "heron_read_batch_size",
			Help:    "Number of calls per read-only batch.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heron_tool_calls_total",
			Help: "Tool calls dispatched, by tool and category.",
		}, []string{"tool", "category"}),
		toolFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heron_tool_failures_total",
			Help: "Tool calls that resolved with an error, by tool.",
		}, []string{"tool"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heron_state_transitions_total",
			Help: "Run-state transitions, by edge.",
		}, []string{"from", "to"}),
		recoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heron_recoveries_total",
			Help: "Recovery interventions, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(h.batches, h.batchDuration, h.batchSize, h.toolCalls, h.toolFailures, h.transitions, h.recoveries)
	return h
}

func (h *MetricsHook) OnBatchStart(_ context.Context, size int) {
	h.batches.Inc()
	h.batchSize.Observe(float64(size))
}

func (h *MetricsHook) OnBatchComplete(_ context.Context, _ int, elapsed time.Duration) {
	h.batchDuration.Observe(elapsed.Seconds())
}

func (h *MetricsHook) OnToolCall(_ context.Context, call ToolCallRequest) {
	h.toolCalls.WithLabelValues(call.Name, string(call.Category)).Inc()
}

func (h *MetricsHook) OnToolResult(_ context.Context, call ToolCallRequest, res ToolResult) {
	if res.Err != nil {
		h.toolFailures.WithLabelValues(call.Name).Inc()
	}
}

func (h *MetricsHook) OnStateTransition(_ context.Context, from, to RunState) {
	h.transitions.WithLabelValues(string(from), string(to)).Inc()
}

func (h *MetricsHook) OnRecovery(_ context.Context, kind RecoveryKind) {
	h.recoveries.WithLabelValues(string(kind)).Inc()
}
