package svm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "svmsender_transfers_total",
			Help: "Total number of transfer executions by outcome",
		}, []string{"dest_chain", "outcome"})
	rpcErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "svmsender_rpc_errors_total",
			Help: "Total number of RPC operations that failed on every endpoint",
		}, []string{"operation"})
	confirmationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "svmsender_confirmation_latency_seconds",
			Help:    "Latency histogram from submission to observed confirmation",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"commitment"})
)
