// Package metrics exports branch-and-bound search events as Prometheus
// metrics. A Collector implements bnb.Observer; pass it in bnb.Options.
package metrics

import (
	"math"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/cvrpbb/bnb"
)

// Collector owns a dedicated registry with the search metrics.
type Collector struct {
	Registry *prometheus.Registry

	NodesClosed  *prometheus.CounterVec
	NodeDepth    prometheus.Histogram
	LPSolves     prometheus.Counter
	Cuts         prometheus.Counter
	Improvements prometheus.Counter
	Incumbent    prometheus.Gauge
	Bound        prometheus.Gauge
	Runs         *prometheus.CounterVec

	mu   sync.Mutex
	snap Snapshot
}

// Snapshot is the latest state seen by a Collector.
type Snapshot struct {
	Nodes     int64   `json:"nodes"`
	LPSolves  int64   `json:"lp_solves"`
	Cuts      int64   `json:"cuts"`
	Incumbent float64 `json:"incumbent"`
	Bound     float64 `json:"bound"`
	Status    string  `json:"status"`
}

var _ bnb.Observer = (*Collector)(nil)

// New creates a Collector. withRuntime adds the Go and process collectors.
func New(namespace string, withRuntime bool) *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		NodesClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "nodes_closed_total", Help: "Search nodes closed, by final status."},
			[]string{"status"},
		),
		NodeDepth: prometheus.NewHistogram(
			prometheus.HistogramOpts{Namespace: namespace, Name: "node_depth", Help: "Depth of closed search nodes.", Buckets: prometheus.LinearBuckets(0, 4, 16)},
		),
		LPSolves: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "lp_solves_total", Help: "Relaxations solved."},
		),
		Cuts: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "cuts_total", Help: "Cutting planes added."},
		),
		Improvements: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "incumbent_improvements_total", Help: "Accepted incumbents."},
		),
		Incumbent: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "incumbent_objective", Help: "Objective of the current incumbent."},
		),
		Bound: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "best_bound", Help: "Proven lower bound at the end of the last run."},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "runs_total", Help: "Finished searches, by proof status."},
			[]string{"status"},
		),
		snap: Snapshot{Incumbent: math.Inf(1), Bound: math.Inf(-1)},
	}
	c.Incumbent.Set(math.Inf(1))
	c.Bound.Set(math.Inf(-1))
	c.Registry.MustRegister(c.NodesClosed, c.NodeDepth, c.LPSolves, c.Cuts, c.Improvements, c.Incumbent, c.Bound, c.Runs)
	if withRuntime {
		c.Registry.MustRegister(collectors.NewGoCollector())
		c.Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}

// Snapshot returns a copy of the latest state.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snap
}

// NodeClosed implements bnb.Observer.
func (c *Collector) NodeClosed(s bnb.NodeStatus, depth int) {
	c.NodesClosed.WithLabelValues(s.String()).Inc()
	c.NodeDepth.Observe(float64(depth))
	c.mu.Lock()
	c.snap.Nodes++
	c.mu.Unlock()
}

// LPSolved implements bnb.Observer.
func (c *Collector) LPSolved() {
	c.LPSolves.Inc()
	c.mu.Lock()
	c.snap.LPSolves++
	c.mu.Unlock()
}

// CutsAdded implements bnb.Observer.
func (c *Collector) CutsAdded(n int) {
	c.Cuts.Add(float64(n))
	c.mu.Lock()
	c.snap.Cuts += int64(n)
	c.mu.Unlock()
}

// IncumbentImproved implements bnb.Observer.
func (c *Collector) IncumbentImproved(obj float64) {
	c.Improvements.Inc()
	c.mu.Lock()
	// Callbacks from different workers may arrive out of order.
	if obj < c.snap.Incumbent {
		c.snap.Incumbent = obj
		c.Incumbent.Set(obj)
	}
	c.mu.Unlock()
}

// SearchFinished implements bnb.Observer.
func (c *Collector) SearchFinished(s bnb.ProofStatus, bound, objective float64) {
	c.Runs.WithLabelValues(s.String()).Inc()
	c.Bound.Set(bound)
	c.mu.Lock()
	c.snap.Status = s.String()
	c.snap.Bound = bound
	c.mu.Unlock()
}
