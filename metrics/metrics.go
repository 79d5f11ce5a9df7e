// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes lazily initialized prometheus collectors.
// All collectors are no-ops until Enable is called, so library code
// can instrument unconditionally.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "helix"

var enabled atomic.Bool

// Enable turns metrics collection on. Collectors created before the
// call start recording from their next use.
func Enable() {
	enabled.Store(true)
}

// Enabled reports whether metrics collection is on.
func Enabled() bool {
	return enabled.Load()
}

// HTTPHandler returns the prometheus scrape handler.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}

// Counter is a lazily registered counter.
type Counter struct {
	name string
	once sync.Once
	c    prometheus.Counter
}

// NewCounter declares a counter. Registration happens on first use
// after Enable.
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Add adds n to the counter.
func (c *Counter) Add(n float64) {
	if !Enabled() {
		return
	}
	c.once.Do(func() {
		c.c = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      c.name,
		})
	})
	c.c.Add(n)
}

// CounterVec is a lazily registered counter vector.
type CounterVec struct {
	name   string
	labels []string
	once   sync.Once
	c      *prometheus.CounterVec
}

// NewCounterVec declares a counter vector with the given label names.
func NewCounterVec(name string, labels ...string) *CounterVec {
	return &CounterVec{name: name, labels: labels}
}

// Add adds n to the counter selected by label values.
func (c *CounterVec) Add(n float64, labelValues ...string) {
	if !Enabled() {
		return
	}
	c.once.Do(func() {
		c.c = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      c.name,
		}, c.labels)
	})
	c.c.WithLabelValues(labelValues...).Add(n)
}

// Histogram is a lazily registered histogram.
type Histogram struct {
	name    string
	buckets []float64
	once    sync.Once
	h       prometheus.Histogram
}

// NewHistogram declares a histogram with the given buckets.
func NewHistogram(name string, buckets []float64) *Histogram {
	return &Histogram{name: name, buckets: buckets}
}

// Observe records one observation.
func (h *Histogram) Observe(v float64) {
	if !Enabled() {
		return
	}
	h.once.Do(func() {
		h.h = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      h.name,
			Buckets:   h.buckets,
		})
	})
	h.h.Observe(v)
}
