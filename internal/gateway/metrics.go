package gateway

import "github.com/prometheus/client_golang/prometheus"

var (
	proxyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gateway_proxy_requests_total", Help: "Proxied requests by downstream service and outcome"},
		[]string{"service", "outcome"},
	)
	downstreamUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "gateway_downstream_up", Help: "1 if the last health probe of the service succeeded"},
		[]string{"service"},
	)
)

func init() {
	prometheus.MustRegister(proxyRequests, downstreamUp)
}
