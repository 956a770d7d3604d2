package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics tracks booking lifecycle transitions and reconciliation
// outcomes against equipment availability.
type BookingMetrics struct {
	transitions       *prometheus.CounterVec
	reconcileFailures *prometheus.CounterVec
	capacityRejected  prometheus.Counter
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_status_transitions_total",
		Help: "Booking status transitions applied, labelled by from/to status.",
	}, []string{"from", "to"})
	reconcileFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_reconcile_failures_total",
		Help: "Failed availability reconciliations, labelled by reason.",
	}, []string{"reason"})
	capacityRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_capacity_rejections_total",
		Help: "Booking approvals rejected because no equipment unit was free.",
	})
	reg.MustRegister(transitions, reconcileFailures, capacityRejected)
	return &BookingMetrics{
		transitions:       transitions,
		reconcileFailures: reconcileFailures,
		capacityRejected:  capacityRejected,
	}
}

// IncTransition records a status transition.
func (b *BookingMetrics) IncTransition(from, to string) {
	if b == nil || b.transitions == nil {
		return
	}
	b.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncReconcileFailure records a failed availability adjustment.
func (b *BookingMetrics) IncReconcileFailure(reason string) {
	if b == nil || b.reconcileFailures == nil {
		return
	}
	b.reconcileFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCapacityRejected records an approval refused for lack of free units.
func (b *BookingMetrics) IncCapacityRejected() {
	if b == nil || b.capacityRejected == nil {
		return
	}
	b.capacityRejected.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
