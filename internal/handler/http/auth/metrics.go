package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// identificationsTotal counts requests by how the caller was identified.
var identificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_identifications_total",
		Help: "Requests by identification result",
	},
	[]string{"result"}, // anonymous | member | admin | rejected
)

func recordIdentification(result string) {
	identificationsTotal.WithLabelValues(result).Inc()
}
