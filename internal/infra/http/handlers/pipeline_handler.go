package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/usecase"
)

// PipelineHandler exposes the read side the board UI consumes: dwell/urgency
// per card and the stage history of a card.
type PipelineHandler struct {
	Cards   entity.CardRepository
	Stages  entity.StageRepository
	History entity.StageHistoryRepository
}

func NewPipelineHandler(cards entity.CardRepository, stages entity.StageRepository, history entity.StageHistoryRepository) *PipelineHandler {
	return &PipelineHandler{
		Cards:   cards,
		Stages:  stages,
		History: history,
	}
}

func (h *PipelineHandler) HandleStages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.Stages.List(r.Context())
	if err != nil {
		http.Error(w, "stages unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stages)
}

type urgencyItem struct {
	entity.PipelineCard
	DwellDays int             `json:"dwell_days"`
	Urgency   usecase.Urgency `json:"urgency"`
}

func (h *PipelineHandler) HandleUrgency(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Cards.ListPipeline(r.Context())
	if err != nil {
		http.Error(w, "pipeline unavailable", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	items := make([]urgencyItem, 0, len(cards))
	for _, c := range cards {
		dwell := usecase.DwellDays(c.Card, now)
		items = append(items, urgencyItem{
			PipelineCard: c,
			DwellDays:    dwell,
			Urgency:      usecase.UrgencyFor(dwell),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (h *PipelineHandler) HandleCardHistory(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardId")

	entries, err := h.History.ListByCard(r.Context(), cardID)
	if err != nil {
		http.Error(w, "stage history unavailable", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []entity.StageHistoryEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
