package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result
type Check struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_mb"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// Health returns basic health status (for load balancer)
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}

// Ready performs full readiness check including dependencies
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check)
	overallStatus := StatusHealthy

	apiCheck := h.checkAPIKey()
	checks["openai"] = apiCheck
	if apiCheck.Status != StatusHealthy {
		overallStatus = StatusUnhealthy
	}

	fontCheck := h.checkFont()
	checks["font"] = fontCheck
	if fontCheck.Status != StatusHealthy {
		overallStatus = StatusUnhealthy
	}

	scratchCheck := h.checkScratch()
	checks["scratch"] = scratchCheck
	if scratchCheck.Status != StatusHealthy {
		overallStatus = StatusUnhealthy
	}

	// System info
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	sysInfo := &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc / 1024 / 1024, // Convert to MB
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		System:    sysInfo,
	}

	w.Header().Set("Content-Type", "application/json")
	if overallStatus == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(status)
}

// checkAPIKey reports whether the completion API can be called at all
func (h *Handlers) checkAPIKey() Check {
	if h.Config.OpenAIAPIKey == "" {
		return Check{Status: StatusUnhealthy, Message: "OPENAI_API_KEY is not set"}
	}
	return Check{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("model %s, max_tokens %d", h.Config.OpenAIModel, h.Config.OpenAIMaxTokens),
	}
}

// checkFont verifies the render font is readable
func (h *Handlers) checkFont() Check {
	if h.Font == nil {
		return Check{Status: StatusUnhealthy, Message: "font checker not configured"}
	}
	start := time.Now()
	err := h.Font.CheckFont()
	duration := time.Since(start)

	if err != nil {
		return Check{
			Status:   StatusUnhealthy,
			Message:  err.Error(),
			Duration: duration.String(),
		}
	}

	return Check{
		Status:   StatusHealthy,
		Message:  "font readable",
		Duration: duration.String(),
	}
}

// checkScratch verifies per-request files can be created
func (h *Handlers) checkScratch() Check {
	if h.Scratch == nil {
		return Check{Status: StatusUnhealthy, Message: "scratch storage not configured"}
	}
	start := time.Now()
	err := h.Scratch.Writable()
	duration := time.Since(start)

	if err != nil {
		return Check{
			Status:   StatusUnhealthy,
			Message:  err.Error(),
			Duration: duration.String(),
		}
	}

	return Check{
		Status:   StatusHealthy,
		Message:  "writable",
		Duration: duration.String(),
	}
}
