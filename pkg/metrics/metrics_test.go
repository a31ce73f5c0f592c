package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveDBQuery("query", time.Millisecond, nil)
		m.SetDBPoolStats(1, 1, 0, 0)
		m.IncAppointmentsCreated()
		m.IncBookingRejection("no_slot")
		m.IncStatusTransition("pending", "approved")
		m.SetAppointmentsByStatus(map[string]int{"pending": 1})
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.IncAppointmentsCreated()
	m.IncAppointmentsCreated()
	m.IncBookingRejection("fully_booked")
	m.ObserveDBQuery("exec", time.Millisecond, errors.New("boom"))
	m.SetAppointmentsByStatus(map[string]int{"pending": 3, "approved": 1})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.appointmentsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingRejections.WithLabelValues("fully_booked")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("exec")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.appointmentsByStatus.WithLabelValues("pending")))
}
