package prometheus

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	authkit "github.com/verazapp/authkit"
	"github.com/verazapp/authkit/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() authkit.MetricsSnapshot
}

type counterDesc struct {
	id   authkit.MetricID
	desc *prometheus.Desc
}

type histogramDesc struct {
	id   authkit.MetricID
	desc *prometheus.Desc
}

// Collector exposes authkit metrics through the standard Prometheus
// registry. Every scrape reads a fresh snapshot; the collector itself
// holds no state beyond its descriptors.
type Collector struct {
	source     metricsSource
	counters   []counterDesc
	histograms []histogramDesc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector reading from the given client.
func NewCollector(client *authkit.Client) *Collector {
	return NewCollectorFromSource(client)
}

// NewCollectorFromSource creates a Collector from a custom metrics
// source, typically a test double.
func NewCollectorFromSource(source metricsSource) *Collector {
	c := &Collector{
		source:     source,
		counters:   make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		histograms: make([]histogramDesc, 0, len(internaldefs.HistogramDefs)),
	}

	for _, def := range internaldefs.CounterDefs {
		c.counters = append(c.counters, counterDesc{
			id:   def.ID,
			desc: prometheus.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	for _, def := range internaldefs.HistogramDefs {
		c.histograms = append(c.histograms, histogramDesc{
			id:   def.ID,
			desc: prometheus.NewDesc(def.Name, def.Help, nil, nil),
		})
	}

	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.counters {
		ch <- d.desc
	}
	for _, d := range c.histograms {
		ch <- d.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c == nil || c.source == nil {
		return
	}

	snapshot := c.source.MetricsSnapshot()

	for _, d := range c.counters {
		ch <- prometheus.MustNewConstMetric(d.desc, prometheus.CounterValue, float64(snapshot.Counters[d.id]))
	}

	for _, d := range c.histograms {
		raw, ok := snapshot.Histograms[d.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))

		buckets := make(map[float64]uint64, len(internaldefs.HistogramBoundsSeconds))
		for i, le := range internaldefs.HistogramBoundsSeconds {
			buckets[le] = cumulative[i]
		}
		count := cumulative[len(cumulative)-1]

		// Per-sample sums are not tracked in core snapshots; approximate
		// with the midpoint mass so rate queries stay monotone.
		ch <- prometheus.MustNewConstHistogram(d.desc, count, approximateSum(cumulative), buckets)
	}
}

func approximateSum(cumulative [8]uint64) float64 {
	bounds := internaldefs.HistogramBoundsSeconds
	var sum float64
	var prevCount uint64
	var lower float64
	for i, upper := range bounds {
		n := cumulative[i] - prevCount
		sum += float64(n) * (lower + upper) / 2
		prevCount = cumulative[i]
		lower = upper
	}
	overflow := cumulative[len(cumulative)-1] - prevCount
	if overflow > 0 && !math.IsInf(bounds[len(bounds)-1], 1) {
		sum += float64(overflow) * bounds[len(bounds)-1]
	}
	return sum
}
