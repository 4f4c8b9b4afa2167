package metrics

import (
	"github.com/arnavshah/student-rota/pkg/scheduler"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records rota runs as Prometheus metrics
type Collector struct {
	runs      prometheus.Counter
	assigned  prometheus.Counter
	unfilled  prometheus.Counter
	fillRatio prometheus.Histogram
}

// NewCollector creates the rota metrics and registers them on reg
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rota_runs_total",
			Help: "Number of rota allocation runs.",
		}),
		assigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rota_assigned_slots_total",
			Help: "Shift slots filled by the allocator.",
		}),
		unfilled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rota_unfilled_slots_total",
			Help: "Shift slots left unfilled by the allocator.",
		}),
		fillRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rota_fill_ratio",
			Help:    "Share of slots filled per run.",
			Buckets: []float64{0.25, 0.5, 0.75, 0.9, 0.95, 1},
		}),
	}
	for _, m := range []prometheus.Collector{c.runs, c.assigned, c.unfilled, c.fillRatio} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveRun records one finished run
func (c *Collector) ObserveRun(res *scheduler.Result) {
	c.runs.Inc()
	c.assigned.Add(float64(res.FilledSlots()))
	c.unfilled.Add(float64(res.UnfilledSlots()))
	c.fillRatio.Observe(res.FillRatio())
}
