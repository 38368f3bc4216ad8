package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorechart/internal/chore"
	"github.com/dukerupert/chorechart/internal/metrics"
	"github.com/dukerupert/chorechart/internal/websocket"
)

const maxRequestBody = 1 << 20

type StatusHandler struct {
	svc     *chore.Service
	hub     *websocket.Hub
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewStatusHandler(svc *chore.Service, hub *websocket.Hub, m *metrics.Metrics, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{svc: svc, hub: hub, metrics: m, logger: logger}
}

type updateStatusRequest struct {
	TaskID *int64 `json:"task_id"`
	Status string `json:"status"`
}

// UpdateStatus sets a task's status for today.
func (h *StatusHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var taskID int64
	if req.TaskID != nil {
		taskID = *req.TaskID
	}

	date, err := h.svc.UpdateToday(taskID, req.Status)
	if err != nil {
		var ve *chore.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		h.logger.Error("update status", "task_id", taskID, "status", req.Status, "error", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	h.logger.Debug("status updated", "task_id", taskID, "status", req.Status, "date", date)
	if h.metrics != nil {
		h.metrics.StatusUpdatesTotal.WithLabelValues(req.Status).Inc()
	}
	if h.hub != nil {
		h.hub.Broadcast(websocket.StatusUpdated(taskID, req.Status, date))
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type taskListResponse struct {
	Date  string   `json:"date"`
	Kids  []string `json:"kids"`
	Tasks any      `json:"tasks"`
}

// ListTasks returns tasks and statuses for ?date= (default today),
// optionally filtered by ?kid=.
func (h *StatusHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.svc.Today()
	}
	kid := r.URL.Query().Get("kid")

	tasks, err := h.svc.ListForDate(date, kid)
	if err != nil {
		var ve *chore.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		h.logger.Error("list tasks", "date", date, "kid", kid, "error", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, taskListResponse{
		Date:  date,
		Kids:  chore.Kids(tasks),
		Tasks: tasks,
	})
}
