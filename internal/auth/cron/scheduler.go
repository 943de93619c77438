// Package cronjob runs the periodic session-store maintenance.
package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/akshar-paaul/akshar-backend/internal/auth/repository"
)

const pruneTimeout = time.Minute

type Scheduler struct {
	sessions *repository.SessionRepository
	cron     *cron.Cron
	log      *zap.Logger
}

func NewScheduler(sessions *repository.SessionRepository, log *zap.Logger) *Scheduler {
	return &Scheduler{
		sessions: sessions,
		cron:     cron.New(cron.WithSeconds()),
		log:      log,
	}
}

// Start schedules the nightly sweep (12:00 AM) of the per-user session sets.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 0 0 * * *", s.runNightlyJobs)
	if err != nil {
		return err
	}

	s.log.Info("cron scheduler started (session sweep nightly at 12:00AM)")
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runNightlyJobs() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	removed, err := s.sessions.PruneUserSets(ctx)
	if err != nil {
		s.log.Warn("session set sweep failed", zap.Int("removed", removed), zap.Error(err))
		return
	}
	s.log.Info("session set sweep completed", zap.Int("removed", removed))
}
