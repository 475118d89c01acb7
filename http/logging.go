package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
)

// RequestLogger logs every request once the response is written and records
// its status and duration in the request metrics.
func RequestLogger(logger *slog.Logger) Filter {
	return FilterFunc(func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(m.Code/100)+"xx").Inc()
		RequestDuration.WithLabelValues(r.Method).Observe(m.Duration.Seconds())

		level := slog.LevelInfo
		if m.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(r.Context(), level,
			fmt.Sprintf("%s %s", r.Method, r.URL),
			"response_code", m.Code,
			"duration", m.Duration,
			"bytes_sent", m.Written,
			"remote_addr", r.RemoteAddr,
			"request_id", w.Header().Get(RequestIDHeader),
		)
	})
}
