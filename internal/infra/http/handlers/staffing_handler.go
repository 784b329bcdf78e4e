package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/usecase"
)

type StaffingHandler struct {
	Directory entity.StaffDirectory
}

func NewStaffingHandler(directory entity.StaffDirectory) *StaffingHandler {
	return &StaffingHandler{Directory: directory}
}

type replacementRequest struct {
	Role        string   `json:"role"`
	AssignedIDs []string `json:"assigned_ids"`
}

type replacementResponse struct {
	Candidates []entity.ReplacementCandidate `json:"candidates"`
}

// HandleReplacements ranks replacement candidates for a vacancy the caller
// presents. An empty candidate list is a valid answer.
func (h *StaffingHandler) HandleReplacements(w http.ResponseWriter, r *http.Request) {
	var req replacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Role) == "" {
		http.Error(w, "role is required", http.StatusBadRequest)
		return
	}

	pool, err := h.Directory.ListMembers(r.Context())
	if err != nil {
		http.Error(w, "staff directory unavailable", http.StatusInternalServerError)
		return
	}
	stats, err := h.Directory.StatsByMember(r.Context())
	if err != nil {
		http.Error(w, "staff stats unavailable", http.StatusInternalServerError)
		return
	}

	candidates := usecase.RankReplacements(req.Role, pool, req.AssignedIDs, stats)
	if candidates == nil {
		candidates = []entity.ReplacementCandidate{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(replacementResponse{Candidates: candidates})
}
