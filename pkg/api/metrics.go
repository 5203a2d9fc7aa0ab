package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraudrank_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fraudrank_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	computationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fraudrank_computations_total",
			Help: "Total number of PageRank computations",
		},
		[]string{"strategy", "converged"},
	)

	computationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fraudrank_computation_duration_seconds",
			Help:    "Duration of PageRank computations in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10, 60},
		},
	)

	currentGraphNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fraudrank_current_graph_nodes",
			Help: "Number of nodes in the current graph",
		},
	)

	currentGraphEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fraudrank_current_graph_edges",
			Help: "Number of edges in the current graph",
		},
	)
)
