// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartScheduler wires the periodic jobs: rug-score refresh, 24h analytics
// rollup and auto-distribution of tournaments past their end time.
func StartScheduler(rugScores *RugScoreService, analytics *AnalyticsService, tournaments *TournamentService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			updated, err := rugScores.RefreshActivePools()
			if err != nil {
				log.Printf("[Scheduler] rug score refresh error: %v", err)
				return
			}
			if updated > 0 {
				log.Printf("✅ Rug scores refreshed for %d pools", updated)
			}
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			pools, err := analytics.RefreshAll()
			if err != nil {
				log.Printf("[Scheduler] analytics rollup error: %v", err)
				return
			}
			if pools > 0 {
				log.Printf("✅ Analytics refreshed for %d pools", pools)
			}
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			distributed, err := tournaments.DistributeEnded()
			if err != nil {
				log.Printf("[Scheduler] prize distribution error: %v", err)
			}
			if distributed > 0 {
				log.Printf("✅ Auto-distributed prizes for %d tournaments", distributed)
			}
		}),
	)
}
