package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ShujaShah/starte/internal/metrics"
)

func timeInAnHour() time.Time {
	return time.Now().Add(time.Hour)
}

func rejectionCount(m *metrics.Metrics, reason string) float64 {
	return testutil.ToFloat64(m.AuthRejections.WithLabelValues(reason))
}
