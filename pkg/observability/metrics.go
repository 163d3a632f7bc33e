package observability

import (
	"context"
	"math"
	"strconv"

	"github.com/aretw0/verdict/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the editor's Prometheus collectors.
type Metrics struct {
	conversions     *prometheus.CounterVec
	convertedLines  prometheus.Histogram
	edits           prometheus.Counter
	classifications *prometheus.CounterVec
	completed       prometheus.Counter
	rejections      *prometheus.CounterVec
	transitions     prometheus.Counter
	displacement    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verdict_conversions_total",
			Help: "Selections turned into groups.",
		}, []string{"initial"}),
		convertedLines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verdict_conversion_lines",
			Help:    "Items created per conversion.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
		edits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verdict_text_edits_total",
			Help: "Text node edits.",
		}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verdict_classifications_total",
			Help: "Item transitions by resulting state.",
		}, []string{"to"}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verdict_documents_completed_total",
			Help: "Classifications after which every item had a verdict.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verdict_rejections_total",
			Help: "Operations absorbed as no-ops.",
		}, []string{"op", "reason"}),
		transitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verdict_transitions_total",
			Help: "Position transitions handed to animation sinks.",
		}),
		displacement: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verdict_transition_displacement",
			Help:    "Absolute start offset of animated transitions, in renderer units.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.conversions, m.convertedLines, m.edits, m.classifications,
		m.completed, m.rejections, m.transitions, m.displacement,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConvert: func(_ context.Context, e *domain.ConvertEvent) {
			m.conversions.WithLabelValues(strconv.FormatBool(e.Initial)).Inc()
			m.convertedLines.Observe(float64(e.Lines))
		},
		OnEditText: func(_ context.Context, _ *domain.EditEvent) {
			m.edits.Inc()
		},
		OnClassify: func(_ context.Context, e *domain.ClassifyEvent) {
			m.classifications.WithLabelValues(string(e.To)).Inc()
			if e.Ratio != nil {
				m.completed.Inc()
			}
		},
		OnAnimate: func(_ context.Context, e *domain.AnimateEvent) {
			m.transitions.Inc()
			m.displacement.Observe(math.Abs(e.Delta))
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			m.rejections.WithLabelValues(e.Op, Reason(e.Err)).Inc()
		},
	}
}
