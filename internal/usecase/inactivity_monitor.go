package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/queue"
)

// PipelineActionURL is the fixed target every stage alert points at. It is
// also half of the dedup key, so it must stay stable.
const PipelineActionURL = "/pipeline"

// DedupWindow is the span during which a duplicate alert for the same card
// is suppressed.
const DedupWindow = 24 * time.Hour

type InactivityResult struct {
	AlertsCreated int `json:"alerts_created"`
	Skipped       int `json:"skipped"`
}

type InactivityMonitor struct {
	Cards         entity.CardRepository
	Notifications entity.NotificationRepository
	Events        RunPublisher
}

func NewInactivityMonitor(
	cards entity.CardRepository,
	notifications entity.NotificationRepository,
	events RunPublisher,
) *InactivityMonitor {
	return &InactivityMonitor{
		Cards:         cards,
		Notifications: notifications,
		Events:        events,
	}
}

// stageAlert is one planned notification. Planning is pure; effects are
// applied afterwards so the selection logic stays testable without a store.
type stageAlert struct {
	card   entity.PipelineCard
	dwell  int
	urgent bool
}

// Run scans every pipeline card and raises one deduplicated alert per card
// whose dwell time exceeds its stage threshold. A failed insert skips the
// card and the pass continues; only a failed load aborts.
func (m *InactivityMonitor) Run(ctx context.Context, now time.Time) (InactivityResult, error) {
	var res InactivityResult

	cards, err := m.Cards.ListPipeline(ctx)
	if err != nil {
		return res, &ReadFailure{Op: "list pipeline cards", Err: err}
	}

	for _, alert := range planStageAlerts(cards, now) {
		exists, err := m.Notifications.ExistsRecent(
			ctx,
			alert.card.OwnerID,
			PipelineActionURL,
			alert.card.Title,
			now.Add(-DedupWindow),
		)
		if err != nil {
			return res, &ReadFailure{Op: "alert dedup lookup", Err: err}
		}
		if exists {
			continue
		}

		n := entity.NewNotification(
			alert.card.OwnerID,
			entity.NotificationStageAlert,
			alertMessage(alert),
			PipelineActionURL,
		)

		if err := m.Notifications.Create(ctx, n); err != nil {
			logrus.WithError(err).Warnf("monitor: alert insert failed for card %s, skipping", alert.card.ID)
			res.Skipped++
			continue
		}
		res.AlertsCreated++
	}

	m.publish(ctx, now, res)
	return res, nil
}

// planStageAlerts is the pure selection + classification phase.
func planStageAlerts(cards []entity.PipelineCard, now time.Time) []stageAlert {
	var alerts []stageAlert
	for _, c := range cards {
		dwell := DwellDays(c.Card, now)
		if dwell <= c.AlertThresholdDays {
			continue
		}
		alerts = append(alerts, stageAlert{
			card:   c,
			dwell:  dwell,
			urgent: c.StageRole == entity.RoleQuoteSent && dwell > 15,
		})
	}
	return alerts
}

func alertMessage(a stageAlert) string {
	if a.urgent {
		return fmt.Sprintf("🔥 Devis sans réponse : « %s » attend depuis %d jours", a.card.Title, a.dwell)
	}
	return fmt.Sprintf("Le dossier « %s » est inactif depuis %d jours (étape %s)", a.card.Title, a.dwell, a.card.StageName)
}

func (m *InactivityMonitor) publish(ctx context.Context, now time.Time, res InactivityResult) {
	if m.Events == nil {
		return
	}
	summary := queue.RunSummary{
		Job:     "inactivity_monitor",
		RanAt:   now,
		Actions: res.AlertsCreated,
		Skipped: res.Skipped,
	}
	if err := m.Events.PublishRunSummary(ctx, summary); err != nil {
		logrus.WithError(err).Warn("monitor: run summary publish failed")
	}
}
