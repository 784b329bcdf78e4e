package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/queue"
)

// StaleClaimWindow: a row claimed IN_FLIGHT longer than this was abandoned by
// a crashed pass and goes back to PENDING at the start of the next one.
const StaleClaimWindow = 15 * time.Minute

type FollowupResult struct {
	Processed int `json:"processed"`
}

type FollowupScheduler struct {
	Followups     entity.FollowupRepository
	Cards         entity.CardRepository
	Notifications entity.NotificationRepository
	Mail          MailDispatcher
	Events        RunPublisher
}

func NewFollowupScheduler(
	followups entity.FollowupRepository,
	cards entity.CardRepository,
	notifications entity.NotificationRepository,
	mail MailDispatcher,
	events RunPublisher,
) *FollowupScheduler {
	return &FollowupScheduler{
		Followups:     followups,
		Cards:         cards,
		Notifications: notifications,
		Mail:          mail,
		Events:        events,
	}
}

// Run claims every due followup and drives each one to SENT or CANCELLED.
// A followup whose card was contacted after it was queued is cancelled
// instead of sent, so an automated message never overrides a more recent
// human interaction. Dispatch failures release the row back to PENDING for
// the next scan.
func (s *FollowupScheduler) Run(ctx context.Context, now time.Time) (FollowupResult, error) {
	var res FollowupResult

	// A row left IN_FLIGHT by a crash between Send and MarkSent is re-sent
	// once it comes back here. Accepted: a rare duplicate reminder beats a
	// followup silently stuck forever.
	if released, err := s.Followups.ReleaseStale(ctx, now.Add(-StaleClaimWindow)); err != nil {
		logrus.WithError(err).Warn("scheduler: stale claim sweep failed")
	} else if released > 0 {
		logrus.Warnf("scheduler: released %d stale in-flight followup(s)", released)
	}

	due, err := s.Followups.ClaimDue(ctx, now)
	if err != nil {
		return res, &ReadFailure{Op: "claim due followups", Err: err}
	}

	for _, f := range due {
		card, err := s.Cards.FindByID(ctx, f.CardID)
		if err != nil && !errors.Is(err, entity.ErrCardNotFound) {
			return res, &ReadFailure{Op: "reload card " + f.CardID, Err: err}
		}

		if card == nil || contactedSince(card, f.CreatedAt) {
			if err := s.Followups.MarkCancelled(ctx, f.ID, now); err != nil {
				return res, &WriteFailure{Op: "cancel followup " + f.ID, Err: err}
			}
			logrus.Infof("scheduler: followup %s cancelled (recent contact or missing card)", f.ID)
			res.Processed++
			continue
		}

		if err := s.Mail.Send(ctx, f.OwnerID, f.EmailTo, f.EmailSubject, f.EmailBody); err != nil {
			if !IsDispatchFailure(err) {
				err = &DispatchFailure{To: f.EmailTo, Err: err}
			}
			logrus.WithError(err).Warnf("scheduler: dispatch failed for followup %s, will retry on next scan", f.ID)
			if relErr := s.Followups.Release(ctx, f.ID); relErr != nil {
				// Row stays IN_FLIGHT; the stale sweep picks it up later.
				logrus.WithError(relErr).Errorf("scheduler: could not release followup %s", f.ID)
			}
			continue
		}

		if err := s.Followups.MarkSent(ctx, f.ID, now); err != nil {
			return res, &WriteFailure{Op: "mark followup sent " + f.ID, Err: err}
		}

		// The mail already left; these two writes must not abort the batch.
		if err := s.Cards.UpdateLastContactedAt(ctx, card.ID, now); err != nil {
			logrus.WithError(err).Errorf("scheduler: last_contacted_at update failed for card %s", card.ID)
		}
		confirmation := entity.NewNotification(
			f.OwnerID,
			entity.NotificationFollowupSent,
			fmt.Sprintf("Relance envoyée à %s pour « %s »", f.EmailTo, card.Title),
			PipelineActionURL,
		)
		if err := s.Notifications.Create(ctx, confirmation); err != nil {
			logrus.WithError(err).Errorf("scheduler: confirmation notification failed for followup %s", f.ID)
		}

		res.Processed++
	}

	s.publish(ctx, now, res)
	return res, nil
}

func contactedSince(card *entity.Card, since time.Time) bool {
	return card.LastContactedAt != nil && card.LastContactedAt.After(since)
}

func (s *FollowupScheduler) publish(ctx context.Context, now time.Time, res FollowupResult) {
	if s.Events == nil {
		return
	}
	summary := queue.RunSummary{
		Job:     "followup_scheduler",
		RanAt:   now,
		Actions: res.Processed,
	}
	if err := s.Events.PublishRunSummary(ctx, summary); err != nil {
		logrus.WithError(err).Warn("scheduler: run summary publish failed")
	}
}
