// Package metric provides Prometheus metrics for rediskv.
package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/rediskv-go/pkg/cmap"
)

// Keyspace is the part of the store the collector reads.
type Keyspace interface {
	Len() int
	ShardStats() []cmap.ShardStats
}

// KeyspaceCollector reports key counts at scrape time.
type KeyspaceCollector struct {
	keyspace  Keyspace
	keys      *prometheus.Desc
	shardKeys *prometheus.Desc
}

// NewKeyspaceCollector creates a collector for ks.
func NewKeyspaceCollector(ks Keyspace) *KeyspaceCollector {
	return &KeyspaceCollector{
		keyspace: ks,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Keys currently stored.",
			nil, nil,
		),
		shardKeys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "shard_keys"),
			"Keys currently stored per store shard.",
			[]string{"shard"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *KeyspaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.shardKeys
}

// Collect implements prometheus.Collector.
func (c *KeyspaceCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.keyspace.Len()))
	for _, s := range c.keyspace.ShardStats() {
		ch <- prometheus.MustNewConstMetric(c.shardKeys, prometheus.GaugeValue, float64(s.Count), strconv.Itoa(s.Index))
	}
}
