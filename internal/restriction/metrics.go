package restriction

import "github.com/prometheus/client_golang/prometheus"

// Evaluation outcomes.
const (
	OutcomeSuppressed         = "suppressed"
	OutcomeCommerceInactive   = "commerce_inactive"
	OutcomeNoMatch            = "no_match"
	OutcomeOptionsUnavailable = "options_unavailable"
	OutcomeCartUnavailable    = "cart_unavailable"
	OutcomeOptionsError       = "options_error"
	OutcomeNoProducts         = "no_products"
	OutcomeNoMethods          = "no_methods"
)

type Metrics struct {
	Evaluations *prometheus.CounterVec
	Removed     *prometheus.CounterVec
}

// NewMetrics registers the restriction counters on reg (prometheus.DefaultRegisterer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paysieve",
			Subsystem: "restriction",
			Name:      "evaluations_total",
			Help:      "Gateway filter evaluations by outcome.",
		}, []string{"outcome"}),
		Removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paysieve",
			Subsystem: "restriction",
			Name:      "removed_gateways_total",
			Help:      "Payment gateways removed from checkout because a restricted product was in the cart.",
		}, []string{"gateway"}),
	}
	reg.MustRegister(m.Evaluations, m.Removed)
	return m
}

func (m *Metrics) outcome(o string) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(o).Inc()
}

func (m *Metrics) removed(ids []string) {
	if m == nil {
		return
	}
	for _, id := range ids {
		m.Removed.WithLabelValues(id).Inc()
	}
}
