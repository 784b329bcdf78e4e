package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

func pipelineCard(id, title string, dwellDays, threshold int, role entity.StageRole, now time.Time) entity.PipelineCard {
	return entity.PipelineCard{
		Card: entity.Card{
			ID:             id,
			OwnerID:        "owner-1",
			StageID:        "stage-1",
			Title:          title,
			EnteredStageAt: now.Add(-time.Duration(dwellDays) * 24 * time.Hour),
			CreatedAt:      now.Add(-30 * 24 * time.Hour),
		},
		StageName:          "Devis envoyé",
		StageRole:          role,
		AlertThresholdDays: threshold,
	}
}

func TestMonitorBelowThresholdEmitsNothing(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	cards := new(MockCardRepository)
	notifs := new(MockNotificationRepository)
	events := new(MockRunPublisher)

	cards.On("ListPipeline", ctx).Return([]entity.PipelineCard{
		pipelineCard("card-1", "Mariage Dupont", 5, 10, entity.RoleQuoteSent, now),
	}, nil)
	events.On("PublishRunSummary", ctx, mock.Anything).Return(nil)

	res, err := NewInactivityMonitor(cards, notifs, events).Run(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 0, res.AlertsCreated)
	notifs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMonitorStandardAlertOverThreshold(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	cards := new(MockCardRepository)
	notifs := new(MockNotificationRepository)
	events := new(MockRunPublisher)

	// Threshold 10, dwell 11, "Devis envoyé": over threshold but not yet in
	// the urgent band.
	cards.On("ListPipeline", ctx).Return([]entity.PipelineCard{
		pipelineCard("card-1", "Mariage Dupont", 11, 10, entity.RoleQuoteSent, now),
	}, nil)
	notifs.On("ExistsRecent", ctx, "owner-1", PipelineActionURL, "Mariage Dupont", now.Add(-DedupWindow)).Return(false, nil)
	notifs.On("Create", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.OwnerID == "owner-1" &&
			n.Type == entity.NotificationStageAlert &&
			n.ActionURL == PipelineActionURL &&
			strings.Contains(n.Message, "Mariage Dupont") &&
			strings.Contains(n.Message, "11") &&
			!strings.Contains(n.Message, "Devis sans réponse")
	})).Return(nil)
	events.On("PublishRunSummary", ctx, mock.Anything).Return(nil)

	res, err := NewInactivityMonitor(cards, notifs, events).Run(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.AlertsCreated)
	notifs.AssertNumberOfCalls(t, "Create", 1)
}

func TestMonitorUrgentAlertPastFifteenDays(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	cards := new(MockCardRepository)
	notifs := new(MockNotificationRepository)
	events := new(MockRunPublisher)

	cards.On("ListPipeline", ctx).Return([]entity.PipelineCard{
		pipelineCard("card-1", "Mariage Dupont", 16, 10, entity.RoleQuoteSent, now),
	}, nil)
	notifs.On("ExistsRecent", ctx, "owner-1", PipelineActionURL, "Mariage Dupont", mock.Anything).Return(false, nil)
	notifs.On("Create", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return strings.Contains(n.Message, "Devis sans réponse") &&
			strings.Contains(n.Message, "Mariage Dupont") &&
			strings.Contains(n.Message, "16")
	})).Return(nil)
	events.On("PublishRunSummary", ctx, mock.Anything).Return(nil)

	res, err := NewInactivityMonitor(cards, notifs, events).Run(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.AlertsCreated)
}

func TestMonitorNonQuoteStageNeverUrgent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	cards := new(MockCardRepository)
	notifs := new(MockNotificationRepository)
	events := new(MockRunPublisher)

	c := pipelineCard("card-1", "Séminaire Leroy", 20, 10, entity.RoleNegotiation, now)
	c.StageName = "Négociation"

	cards.On("ListPipeline", ctx).Return([]entity.PipelineCard{c}, nil)
	notifs.On("ExistsRecent", ctx, "owner-1", PipelineActionURL, "Séminaire Leroy", mock.Anything).Return(false, nil)
	notifs.On("Create", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return !strings.Contains(n.Message, "Devis sans réponse")
	})).Return(nil)
	events.On("PublishRunSummary", ctx, mock.Anything).Return(nil)

	res, err := NewInactivityMonitor(cards, notifs, events).Run(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.AlertsCreated)
}

func TestMonitorDedupWithinWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	cards := new(MockCardRepository)
	notifs := new(MockNotificationRepository)
	events := new(MockRunPublisher)

	cards.On("ListPipeline", ctx).Return([]entity.PipelineCard{
		pipelineCard("card-1", "Mariage Dupont", 11, 10, entity.RoleQuoteSent, now),
	}, nil)
	notifs.On("ExistsRecent", ctx, "owner-1", PipelineActionURL, "Mariage Dupont", mock.Anything).Return(true, nil)
	events.On("PublishRunSummary", ctx, mock.Anything).Return(nil)

	res, err := NewInactivityMonitor(cards, notifs, events).Run(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 0, res.AlertsCreated)
	notifs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMonitorSecondRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	cards := new(MockCardRepository)
	notifs := new(MockNotificationRepository)
	events := new(MockRunPublisher)

	cards.On("ListPipeline", ctx).Return([]entity.PipelineCard{
		pipelineCard("card-1", "Mariage Dupont", 11, 10, entity.RoleQuoteSent, now),
	}, nil)
	// First pass: nothing recent. Second pass sees the alert just written.
	notifs.On("ExistsRecent", ctx, "owner-1", PipelineActionURL, "Mariage Dupont", mock.Anything).Return(false, nil).Once()
	notifs.On("ExistsRecent", ctx, "owner-1", PipelineActionURL, "Mariage Dupont", mock.Anything).Return(true, nil).Once()
	notifs.On("Create", ctx, mock.Anything).Return(nil).Once()
	events.On("PublishRunSummary", ctx, mock.Anything).Return(nil)

	monitor := NewInactivityMonitor(cards, notifs, events)

	first, err := monitor.Run(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, 1, first.AlertsCreated)

	second, err := monitor.Run(ctx, now.Add(10*time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, 0, second.AlertsCreated)
	notifs.AssertNumberOfCalls(t, "Create", 1)
}

func TestMonitorInsertFailureSkipsAndContinues(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	cards := new(MockCardRepository)
	notifs := new(MockNotificationRepository)
	events := new(MockRunPublisher)

	cards.On("ListPipeline", ctx).Return([]entity.PipelineCard{
		pipelineCard("card-1", "Mariage Dupont", 11, 10, entity.RoleQuoteSent, now),
		pipelineCard("card-2", "Gala Mercier", 12, 10, entity.RoleQuoteSent, now),
	}, nil)
	notifs.On("ExistsRecent", ctx, "owner-1", PipelineActionURL, mock.Anything, mock.Anything).Return(false, nil)
	notifs.On("Create", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return strings.Contains(n.Message, "Mariage Dupont")
	})).Return(errors.New("insert failed"))
	notifs.On("Create", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
		return strings.Contains(n.Message, "Gala Mercier")
	})).Return(nil)
	events.On("PublishRunSummary", ctx, mock.Anything).Return(nil)

	res, err := NewInactivityMonitor(cards, notifs, events).Run(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.AlertsCreated)
	assert.Equal(t, 1, res.Skipped)
}

func TestMonitorReadFailureAborts(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	cards := new(MockCardRepository)
	notifs := new(MockNotificationRepository)
	events := new(MockRunPublisher)

	cards.On("ListPipeline", ctx).Return(nil, errors.New("connection refused"))

	_, err := NewInactivityMonitor(cards, notifs, events).Run(ctx, now)

	assert.Error(t, err)
	assert.True(t, IsReadFailure(err))
	events.AssertNotCalled(t, "PublishRunSummary", mock.Anything, mock.Anything)
}
