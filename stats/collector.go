// SPDX-License-Identifier: MIT

package stats

import "github.com/prometheus/client_golang/prometheus"

// Factor label values.
const (
	labelFactor = "factor"
	factorW     = "W"
	factorH     = "H"
)

// Collector exports the latest written row of a Table as Prometheus gauges.
// Nothing is emitted until the first row is written.
type Collector struct {
	table *Table

	iteration *prometheus.Desc
	objective *prometheus.Desc
	norm      *prometheus.Desc
	density   *prometheus.Desc
	update    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector over t. namespace prefixes every metric
// name (e.g. "lowrank"); constLabels identify the run.
func NewCollector(t *Table, namespace string, constLabels prometheus.Labels) *Collector {
	return &Collector{
		table: t,
		iteration: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "iteration"),
			"Latest iteration with recorded statistics.",
			nil, constLabels,
		),
		objective: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "objective_error"),
			"Frobenius reconstruction error at the latest recorded iteration.",
			nil, constLabels,
		),
		norm: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "factor", "norm"),
			"Frobenius norm of a factor matrix.",
			[]string{labelFactor}, constLabels,
		),
		density: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "factor", "density"),
			"Fraction of strictly positive entries of a factor matrix.",
			[]string{labelFactor}, constLabels,
		),
		update: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "update", "seconds"),
			"Duration of the latest factor update.",
			[]string{labelFactor}, constLabels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.iteration
	ch <- c.objective
	ch <- c.norm
	ch <- c.density
	ch <- c.update
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	r, ok := c.table.Last()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.iteration, prometheus.GaugeValue, float64(r.Iteration))
	ch <- prometheus.MustNewConstMetric(c.objective, prometheus.GaugeValue, r.ObjectiveError)
	ch <- prometheus.MustNewConstMetric(c.norm, prometheus.GaugeValue, r.NormW, factorW)
	ch <- prometheus.MustNewConstMetric(c.norm, prometheus.GaugeValue, r.NormH, factorH)
	ch <- prometheus.MustNewConstMetric(c.density, prometheus.GaugeValue, r.DensityW, factorW)
	ch <- prometheus.MustNewConstMetric(c.density, prometheus.GaugeValue, r.DensityH, factorH)
	ch <- prometheus.MustNewConstMetric(c.update, prometheus.GaugeValue, r.WTime.Seconds(), factorW)
	ch <- prometheus.MustNewConstMetric(c.update, prometheus.GaugeValue, r.HTime.Seconds(), factorH)
}
