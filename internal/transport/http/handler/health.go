package handler

import (
	"context"
	"net/http"
	"time"

	"alphachest/internal/transport/http/response"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Health handles GET /api/v1/health
// Used for liveness probes in Docker/Kubernetes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}

	response.OK(w, resp)
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Ready     bool          `json:"ready"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// CheckResult represents an individual readiness check.
type CheckResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Ready handles GET /api/v1/ready
// Used for readiness probes to check if the service can accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	results := []CheckResult{{Name: "api", Status: "ok"}}
	allReady := true
	for _, c := range h.checks {
		res := CheckResult{Name: c.Name, Status: "ok"}
		if err := c.Probe(ctx); err != nil {
			res.Status = "failing"
			res.Error = err.Error()
			allReady = false
		}
		results = append(results, res)
	}

	resp := ReadyResponse{
		Ready:     allReady,
		Timestamp: time.Now().UTC(),
		Checks:    results,
	}

	if !allReady {
		response.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	response.OK(w, resp)
}
