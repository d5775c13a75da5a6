package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DecodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txdecoder_decode_requests_total",
		Help: "Number of decode requests by kind and result",
	}, []string{"kind", "result"})

	DecodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "txdecoder_decode_duration_seconds",
		Help:    "Processing time of decode requests including collaborator calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	AbiFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txdecoder_abi_fetch_total",
		Help: "Number of contract abi lookups by source and result",
	}, []string{"source", "result"})

	AbiCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "txdecoder_abi_cache_entries",
		Help: "Number of contract abis held in the local cache",
	})

	SignatureLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txdecoder_signature_lookup_total",
		Help: "Number of selector signature lookups by source and result",
	}, []string{"source", "result"})
)
