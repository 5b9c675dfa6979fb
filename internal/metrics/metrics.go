package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"faraid-engine/internal/model"
)

type Metrics struct {
	Registry *prometheus.Registry

	CalculationsTotal   *prometheus.CounterVec
	AdjustmentsTotal    *prometheus.CounterVec
	WarningsTotal       *prometheus.CounterVec
	CalculationDuration prometheus.Histogram
	ResultCacheHits     prometheus.Counter
	RateLimitedTotal    prometheus.Counter
}

// New registers the collectors on a fresh registry, so several instances
// (one per test) never collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		CalculationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "faraid_calculations_total",
			Help: "Total number of calculations by outcome",
		}, []string{"outcome"}),
		AdjustmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "faraid_adjustments_total",
			Help: "Total number of distributions that needed Aul or Radd",
		}, []string{"kind"}),
		WarningsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "faraid_warnings_total",
			Help: "Total number of warnings attached to distributions, by code",
		}, []string{"code"}),
		CalculationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "faraid_calculation_duration_seconds",
			Help:    "Duration of calculations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		ResultCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "faraid_result_cache_hits_total",
			Help: "Total number of requests answered from the result cache",
		}),
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "faraid_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		}),
	}
}

// ObserveCalculation records one computed response.
func (m *Metrics) ObserveCalculation(resp *model.CalculationResponse, elapsed time.Duration) {
	m.CalculationsTotal.WithLabelValues(resp.CalculationMetadata.CalculationOutcome).Inc()
	m.CalculationDuration.Observe(elapsed.Seconds())

	dist := resp.CalculationResult.Distribution
	if dist == nil {
		return
	}
	if dist.Summary.AulApplied {
		m.AdjustmentsTotal.WithLabelValues("aul").Inc()
	}
	if dist.Summary.RaddApplied {
		m.AdjustmentsTotal.WithLabelValues("radd").Inc()
	}
	if dist.Summary.UmariyyatanApplied {
		m.AdjustmentsTotal.WithLabelValues("umariyyatan").Inc()
	}
	if dist.Summary.MushtarakahApplied {
		m.AdjustmentsTotal.WithLabelValues("mushtarakah").Inc()
	}
	for _, code := range dist.Warnings {
		m.WarningsTotal.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) IncrementCacheHits() {
	m.ResultCacheHits.Inc()
}

func (m *Metrics) IncrementRateLimited() {
	m.RateLimitedTotal.Inc()
}
