package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/noah-ing/pricehawk/internal/monitor"
	"github.com/noah-ing/pricehawk/pkg/middleware"
)

// MonitorHandler handles monitoring control operations
type MonitorHandler struct {
	scheduler   *monitor.Scheduler
	asyncRunner *monitor.AsyncRunner
}

// NewMonitorHandler creates a new monitor handler
func NewMonitorHandler(scheduler *monitor.Scheduler, asyncRunner *monitor.AsyncRunner) *MonitorHandler {
	return &MonitorHandler{
		scheduler:   scheduler,
		asyncRunner: asyncRunner,
	}
}

// StartRequest represents the start monitoring request body. All fields are
// optional; omitted fields fall back to the standard options.
type StartRequest struct {
	HourlyLimit         int   `json:"hourly_limit"`
	DailyLimit          int   `json:"daily_limit"`
	EnableNotifications *bool `json:"enable_notifications"`
}

// StartResponse represents the start monitoring response
type StartResponse struct {
	Success   bool            `json:"success"`
	IsRunning bool            `json:"is_running"`
	Options   monitor.Options `json:"options"`
	Message   string          `json:"message"`
}

// StopResponse represents the stop monitoring response
type StopResponse struct {
	Success   bool   `json:"success"`
	IsRunning bool   `json:"is_running"`
	Message   string `json:"message"`
}

// AsyncCheckResponse represents the queued manual check response
type AsyncCheckResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Start handles POST /api/v1/monitor/start
func (h *MonitorHandler) Start(w http.ResponseWriter, r *http.Request) {
	opts := monitor.DefaultOptions()

	if r.Body != nil && r.ContentLength != 0 {
		var req StartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		if req.HourlyLimit > 0 {
			opts.HourlyLimit = req.HourlyLimit
		}
		if req.DailyLimit > 0 {
			opts.DailyLimit = req.DailyLimit
		}
		if req.EnableNotifications != nil {
			opts.EnableNotifications = *req.EnableNotifications
		}
	}

	result := h.scheduler.Start(opts)

	writeJSON(w, http.StatusOK, StartResponse{
		Success:   true,
		IsRunning: result.IsRunning,
		Options:   result.Options,
		Message:   "Monitoring started",
	})
}

// Stop handles POST /api/v1/monitor/stop
func (h *MonitorHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Stop()

	writeJSON(w, http.StatusOK, StopResponse{
		Success:   true,
		IsRunning: false,
		Message:   "Monitoring stopped",
	})
}

// Status handles GET /api/v1/monitor/status
func (h *MonitorHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.Status())
}

// Check handles POST /api/v1/monitor/check. Query parameters: limit
// (default 10), retry (default true), notify (default true), async
// (default false).
func (h *MonitorHandler) Check(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", monitor.DefaultManualLimit)
	retry := parseQueryBoolDefault(r, "retry", true)
	notify := parseQueryBoolDefault(r, "notify", true)
	async := parseQueryBoolDefault(r, "async", false)

	if async {
		jobID := h.asyncRunner.SubmitCheck(limit, retry, notify)

		writeJSON(w, http.StatusAccepted, AsyncCheckResponse{
			JobID:   jobID,
			Status:  "queued",
			Message: "Manual check queued successfully",
		})
		return
	}

	summary := h.scheduler.ManualCheck(r.Context(), middleware.GetCorrelationID(r.Context()), limit, retry, notify)
	writeJSON(w, http.StatusOK, summary)
}

// JobStatus handles GET /api/v1/monitor/jobs/{id}
func (h *MonitorHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/api/v1/monitor/jobs/")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	status, exists := h.asyncRunner.GetJobStatus(jobID)
	if !exists {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, status)
}
