package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts served requests per route and status code.
type Metrics struct {
	requestsTotal *prometheus.CounterVec
	contentBytes  *prometheus.GaugeVec
}

// NewMetrics registers the server collectors on registerer
// (prometheus.DefaultRegisterer when nil).
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactbook_http_requests_total",
				Help: "Total HTTP requests by route and status code.",
			},
			[]string{"route", "code"},
		),
		contentBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "contactbook_content_bytes",
				Help: "Size of the currently served document by route.",
			},
			[]string{"route"},
		),
	}

	registerer.MustRegister(m.requestsTotal, m.contentBytes)
	return m
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveContent records the size of a newly published document.
func (m *Metrics) ObserveContent(route string, size int) {
	if m == nil {
		return
	}
	m.contentBytes.WithLabelValues(route).Set(float64(size))
}
