package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/http/middleware"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/usecase"
)

// EngineScheduler drives the two batch jobs on cron specs. Each job is a
// single full scan-and-act pass; SkipIfStillRunning guarantees a slow pass
// never overlaps itself.
type EngineScheduler struct {
	cronEngine     *cron.Cron
	monitor        *usecase.InactivityMonitor
	followups      *usecase.FollowupScheduler
	specInactivity string
	specFollowups  string
}

func NewEngineScheduler(
	monitor *usecase.InactivityMonitor,
	followups *usecase.FollowupScheduler,
	specInactivity string, // e.g. "0 8 * * *" (daily 08:00)
	specFollowups string, // e.g. "*/5 * * * *" (every 5 minutes)
) *EngineScheduler {
	return &EngineScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		monitor:        monitor,
		followups:      followups,
		specInactivity: specInactivity,
		specFollowups:  specFollowups,
	}
}

func (s *EngineScheduler) Start() {
	_, err := s.cronEngine.AddFunc(s.specInactivity, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		started := time.Now()
		res, err := s.monitor.Run(ctx, started)
		middleware.RecordJobRun("inactivity_monitor", err, time.Since(started).Seconds())
		if err != nil {
			logrus.WithError(err).Error("cron: inactivity monitor pass failed")
			return
		}
		middleware.RecordAlertsCreated(res.AlertsCreated)
		logrus.Infof("cron: inactivity monitor pass done, %d alert(s), %d skipped", res.AlertsCreated, res.Skipped)
	})
	if err != nil {
		logrus.Fatalf("cron: bad inactivity spec %q: %v", s.specInactivity, err)
	}

	_, err = s.cronEngine.AddFunc(s.specFollowups, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		started := time.Now()
		res, err := s.followups.Run(ctx, started)
		middleware.RecordJobRun("followup_scheduler", err, time.Since(started).Seconds())
		if err != nil {
			logrus.WithError(err).Error("cron: followup pass failed")
			return
		}
		middleware.RecordFollowupsProcessed(res.Processed)
		logrus.Infof("cron: followup pass done, %d processed", res.Processed)
	})
	if err != nil {
		logrus.Fatalf("cron: bad followup spec %q: %v", s.specFollowups, err)
	}

	s.cronEngine.Start()
	logrus.Info("cron: engine scheduler started")
}

func (s *EngineScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	logrus.Info("cron: engine scheduler stopped")
}
