package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/usecase"
)

type MockMailCredentialRepository struct {
	mock.Mock
}

func (m *MockMailCredentialRepository) FindByOwnerID(ctx context.Context, ownerID string) (*entity.MailCredential, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MailCredential), args.Error(1)
}

func TestSendCredentialLookupFailureIsDispatchFailure(t *testing.T) {
	ctx := context.Background()

	credentials := new(MockMailCredentialRepository)
	credentials.On("FindByOwnerID", ctx, "owner-1").Return(nil, errors.New("connection refused"))

	err := NewSender(credentials).Send(ctx, "owner-1", "client@example.fr", "Des nouvelles", "<p>Bonjour</p>")

	assert.Error(t, err)
	assert.True(t, usecase.IsDispatchFailure(err))

	var dispatch *usecase.DispatchFailure
	assert.True(t, errors.As(err, &dispatch))
	assert.Equal(t, "client@example.fr", dispatch.To)
}

func TestSendUnreachableHostIsDispatchFailure(t *testing.T) {
	ctx := context.Background()

	// 192.0.2.1 is reserved for documentation and never answers. Whether the
	// dial errors out or the deadline fires first, the caller must see a
	// retryable dispatch failure.
	credentials := new(MockMailCredentialRepository)
	credentials.On("FindByOwnerID", ctx, "owner-1").Return(&entity.MailCredential{
		OwnerID:  "owner-1",
		Host:     "192.0.2.1",
		Port:     25,
		Username: "traiteur@example.fr",
		Password: "secret",
	}, nil)

	sender := NewSender(credentials)
	sender.Timeout = 50 * time.Millisecond

	err := sender.Send(ctx, "owner-1", "client@example.fr", "Des nouvelles", "<p>Bonjour</p>")

	assert.Error(t, err)
	assert.True(t, usecase.IsDispatchFailure(err))
}
