package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var nodesSpawned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treeset_nodes_spawned_total",
	Help: "Number of tree node actors ever spawned, across all generations.",
})

var copyInserts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "treeset_copy_inserts_total",
	Help: "Number of self-inserts issued by nodes copying themselves into a replacement tree.",
})
