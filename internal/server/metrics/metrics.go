// Package metrics exposes Prometheus counters for authentication outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusError   = "error"
)

// Metrics groups the service counters. A nil *Metrics records nothing.
type Metrics struct {
	registrations *prometheus.CounterVec
	verifications *prometheus.CounterVec
	logins        *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New registers the counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_registrations_total",
			Help: "Total number of registration attempts by outcome",
		}, []string{"status"}),
		verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_verifications_total",
			Help: "Total number of email verification attempts by outcome",
		}, []string{"status"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_logins_total",
			Help: "Total number of login attempts by outcome",
		}, []string{"status"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_notifications_total",
			Help: "Total number of verification notifications by outcome",
		}, []string{"status"}),
	}
}

func (m *Metrics) Registration(status string) {
	if m != nil {
		m.registrations.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) Verification(status string) {
	if m != nil {
		m.verifications.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) Login(status string) {
	if m != nil {
		m.logins.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) Notification(status string) {
	if m != nil {
		m.notifications.WithLabelValues(status).Inc()
	}
}
