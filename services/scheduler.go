// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// SweepExpiredMissions deactivates every mission whose deadline has passed.
func (s *MissionService) SweepExpiredMissions(ctx context.Context) (int64, error) {
	n, err := s.Missions.DeactivateExpired(ctx, s.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("✅ [Scheduler] Deactivated %d expired mission(s)", n)
	}
	return n, nil
}

// StartExpiryScheduler runs SweepExpiredMissions every interval until the scheduler is shut down.
func (s *MissionService) StartExpiryScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := s.SweepExpiredMissions(ctx); err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
