package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vondralink_searches_total",
		Help: "Number of search requests processed, by mode and path.",
	}, []string{"mode", "path"})

	pairsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vondralink_pairs_emitted_total",
		Help: "Number of comparison pairs returned to clients.",
	})

	recommendationsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vondralink_recommendations_served_total",
		Help: "Number of recommendation items returned, by kind.",
	}, []string{"kind"})
)
