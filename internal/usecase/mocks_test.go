package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/queue"
)

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) FindByID(ctx context.Context, id string) (*entity.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Card), args.Error(1)
}

func (m *MockCardRepository) ListPipeline(ctx context.Context) ([]entity.PipelineCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PipelineCard), args.Error(1)
}

func (m *MockCardRepository) UpdateLastContactedAt(ctx context.Context, cardID string, at time.Time) error {
	args := m.Called(ctx, cardID, at)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ExistsRecent(ctx context.Context, ownerID, actionURL, messageContains string, since time.Time) (bool, error) {
	args := m.Called(ctx, ownerID, actionURL, messageContains, since)
	return args.Bool(0), args.Error(1)
}

type MockFollowupRepository struct {
	mock.Mock
}

func (m *MockFollowupRepository) Create(ctx context.Context, f *entity.ScheduledFollowup) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFollowupRepository) ClaimDue(ctx context.Context, now time.Time) ([]entity.ScheduledFollowup, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ScheduledFollowup), args.Error(1)
}

func (m *MockFollowupRepository) ReleaseStale(ctx context.Context, olderThan time.Time) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

func (m *MockFollowupRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockFollowupRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockFollowupRepository) Release(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMailDispatcher struct {
	mock.Mock
}

func (m *MockMailDispatcher) Send(ctx context.Context, ownerID, to, subject, body string) error {
	args := m.Called(ctx, ownerID, to, subject, body)
	return args.Error(0)
}

type MockRunPublisher struct {
	mock.Mock
}

func (m *MockRunPublisher) PublishRunSummary(ctx context.Context, summary queue.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}
