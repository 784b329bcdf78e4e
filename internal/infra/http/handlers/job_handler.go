package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/http/middleware"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/usecase"
)

// JobHandler is the manual trigger surface: an external cron (or an operator)
// posts here and gets the action count back. No payload required.
type JobHandler struct {
	Monitor   *usecase.InactivityMonitor
	Followups *usecase.FollowupScheduler
}

func NewJobHandler(monitor *usecase.InactivityMonitor, followups *usecase.FollowupScheduler) *JobHandler {
	return &JobHandler{
		Monitor:   monitor,
		Followups: followups,
	}
}

func (h *JobHandler) HandleRunInactivity(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	res, err := h.Monitor.Run(r.Context(), started)
	middleware.RecordJobRun("inactivity_monitor", err, time.Since(started).Seconds())
	if err != nil {
		logrus.WithError(err).Error("http: inactivity monitor pass failed")
		http.Error(w, "inactivity monitor pass failed", http.StatusInternalServerError)
		return
	}

	middleware.RecordAlertsCreated(res.AlertsCreated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *JobHandler) HandleRunFollowups(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	res, err := h.Followups.Run(r.Context(), started)
	middleware.RecordJobRun("followup_scheduler", err, time.Since(started).Seconds())
	if err != nil {
		logrus.WithError(err).Error("http: followup pass failed")
		http.Error(w, "followup pass failed", http.StatusInternalServerError)
		return
	}

	middleware.RecordFollowupsProcessed(res.Processed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
