package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StripesWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "zebra",
		Name:      "stripes_written_total",
		Help:      "Total stripe files written.",
	})
	StripeBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "zebra",
		Name:      "stripe_bytes_total",
		Help:      "Total bytes written into stripe files.",
	})
	PiecesAssembled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "zebra",
		Name:      "pieces_assembled_total",
		Help:      "Total input files appended during assembly.",
	})
	AssembledBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "zebra",
		Name:      "assembled_bytes_total",
		Help:      "Total bytes written into assembled outputs.",
	})
	Failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zebra",
		Name:      "failures_total",
		Help:      "Failed stripe or assemble operations.",
	}, []string{"op"})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(StripesWritten, StripeBytes, PiecesAssembled, AssembledBytes, Failures)
}

// Serve starts a /metrics server on the given addr (e.g., ":9090"). Non-blocking when run in goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }
