package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Series holds the planner's prometheus series. One Series is registered per
// registry and shared by the collectors of every searcher.
type Series struct {
	episodes   prometheus.Counter
	walks      *prometheus.CounterVec
	expansions prometheus.Counter
	duration   prometheus.Histogram
}

// NewSeries registers the planner series on reg.
func NewSeries(reg prometheus.Registerer) *Series {
	factory := promauto.With(reg)
	return &Series{
		episodes: factory.NewCounter(prometheus.CounterOpts{
			Name: "planner_search_episodes_total",
			Help: "Total completed search iterations",
		}),
		walks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_search_walks_total",
			Help: "Selection walks by outcome",
		}, []string{"outcome"}),
		expansions: factory.NewCounter(prometheus.CounterOpts{
			Name: "planner_tree_expansions_total",
			Help: "Nodes created across all player trees",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_search_duration_seconds",
			Help:    "Wall-clock duration of a search",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
	}
}

// Collector returns a fresh collector that also feeds s.
func (s *Series) Collector() Collector {
	return &promCollector{Collector: NewCollector(), series: s}
}

// promCollector mirrors every event into the shared series while keeping
// the per-search totals of the wrapped collector.
type promCollector struct {
	Collector
	series *Series
}

func (m *promCollector) AddEpisode() {
	m.Collector.AddEpisode()
	m.series.episodes.Inc()
}

func (m *promCollector) AddTerminal() {
	m.Collector.AddTerminal()
	m.series.walks.WithLabelValues("terminal").Inc()
}

func (m *promCollector) AddRollout() {
	m.Collector.AddRollout()
	m.series.walks.WithLabelValues("rollout").Inc()
}

func (m *promCollector) AddDegenerate() {
	m.Collector.AddDegenerate()
	m.series.walks.WithLabelValues("degenerate").Inc()
}

func (m *promCollector) AddExpansions(n int) {
	m.Collector.AddExpansions(n)
	m.series.expansions.Add(float64(n))
}

func (m *promCollector) Complete() SearchMetric {
	metric := m.Collector.Complete()
	m.series.duration.Observe(metric.Duration.Seconds())
	return metric
}
