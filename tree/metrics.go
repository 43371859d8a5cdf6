// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus metrics of a tree. A nil *Metrics records
// nothing.
type Metrics struct {

	// Nodes is the number of nodes inside the tree.
	Nodes prometheus.Gauge

	// Frames is the number of frames that the tree has processed.
	Frames prometheus.Counter

	// GroupCalls is the number of group dispatches, by mode
	// (realtime, deferred, or unique).
	GroupCalls *prometheus.CounterVec

	// Deleted is the number of nodes destroyed from the delete queue.
	Deleted prometheus.Counter

	// FrameSeconds is the time taken to process each frame.
	FrameSeconds prometheus.Histogram
}

// NewMetrics returns new tree metrics registered with the given registerer.
// Use a separate registry for each tree that records metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "livetree",
			Name:      "nodes",
			Help:      "Number of nodes inside the tree.",
		}),
		Frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: "livetree",
			Name:      "frames_total",
			Help:      "Frames processed by the tree.",
		}),
		GroupCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "livetree",
			Name:      "group_calls_total",
			Help:      "Group dispatches by mode.",
		}, []string{"mode"}),
		Deleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "livetree",
			Name:      "deleted_total",
			Help:      "Nodes destroyed from the delete queue.",
		}),
		FrameSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "livetree",
			Name:      "frame_duration_seconds",
			Help:      "Time taken to process a frame.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

func (m *Metrics) setNodes(n int) {
	if m != nil {
		m.Nodes.Set(float64(n))
	}
}

func (m *Metrics) frame(d time.Duration) {
	if m != nil {
		m.Frames.Inc()
		m.FrameSeconds.Observe(d.Seconds())
	}
}

func (m *Metrics) groupCall(mode string) {
	if m != nil {
		m.GroupCalls.WithLabelValues(mode).Inc()
	}
}

func (m *Metrics) deleted() {
	if m != nil {
		m.Deleted.Inc()
	}
}
