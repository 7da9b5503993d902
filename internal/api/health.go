package api

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// healthCheckTimeout bounds each backend check in /api/v1/health.
const healthCheckTimeout = 3 * time.Second

// Health states.
const (
	healthHealthy  = "healthy"
	healthDegraded = "degraded"
)

// handleHealth is the liveness probe: it never touches backends.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  healthHealthy,
		"version": s.version,
	})
}

// handleHealthDetailed runs every registered backend check.
// Any failure turns the response into 503 "degraded".
func (s *Server) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := healthHealthy
	checks := make(map[string]string, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := s.checks[name].HealthCheck(ctx)
		cancel()
		if err != nil {
			status = healthDegraded
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	code := http.StatusOK
	if status != healthHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":  status,
		"version": s.version,
		"checks":  checks,
	})
}
