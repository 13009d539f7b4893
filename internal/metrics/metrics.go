package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trades_total", Help: "Bonding-curve trades attempted"},
		[]string{"side", "mode", "outcome"},
	)
	TransfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "transfers_total", Help: "Distribution transfers by kind and outcome"},
		[]string{"kind", "outcome"},
	)
	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "retry_attempts_total", Help: "Failed attempts observed by the retry wrapper"},
		[]string{"op"},
	)
	StreamEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "stream_events_total", Help: "Live curve trade events received"},
		[]string{"mint"},
	)
)

func init() {
	prometheus.MustRegister(TradesTotal, TransfersTotal, RetryAttemptsTotal, StreamEventsTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
