package treeset

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "treeset_operations_received_total",
	Help: "Operations accepted through the set's front door, by operation kind.",
}, []string{"op"})

var operationsBuffered = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treeset_operations_buffered_total",
	Help: "Operations parked while a collection was in flight.",
})

var gcRuns = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treeset_gc_runs_total",
	Help: "Collections started.",
})

var gcIgnored = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treeset_gc_ignored_total",
	Help: "Collection requests dropped because one was already in flight.",
})

var gcDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "treeset_gc_duration_seconds",
	Help:    "Wall time from a collection starting to the root swap.",
	Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
})

var gcReplayed = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "treeset_gc_replayed_operations",
	Help:    "Operations replayed into the fresh tree after a collection.",
	Buckets: prometheus.ExponentialBuckets(1, 4, 10),
})
