package services

import (
	"errors"

	"rugfork-backend/ledger"
	"rugfork-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnalyticsService struct {
	DB    *gorm.DB
	Clock ledger.Clock
}

func NewAnalyticsService(db *gorm.DB, clock ledger.Clock) *AnalyticsService {
	return &AnalyticsService{DB: db, Clock: clock}
}

// RefreshPool recomputes the rolling 24h stats for one pool from its bets.
func (s *AnalyticsService) RefreshPool(poolID string) (*models.Analytics, error) {
	now := s.Clock.Now().Unix()
	since := now - 24*3600

	var bets []models.Bet
	if err := s.DB.Where("pool_id = ? AND placed_at_unix >= ?", poolID, since).
		Find(&bets).Error; err != nil {
		return nil, err
	}

	var volume, multiplierSum uint64
	users := map[string]struct{}{}
	var settled, won uint64
	for _, b := range bets {
		volume += b.Amount
		multiplierSum += b.Multiplier
		users[b.UserID] = struct{}{}
		if b.IsSettled {
			settled++
			if b.Winnings > 0 {
				won++
			}
		}
	}

	stats := models.Analytics{
		PoolID:          poolID,
		TotalVolume24h:  volume,
		TotalBets24h:    uint64(len(bets)),
		UniqueUsers24h:  uint32(len(users)),
		LastUpdatedUnix: now,
	}
	if len(bets) > 0 {
		stats.AverageMultiplier = multiplierSum / uint64(len(bets))
	}
	if settled > 0 {
		stats.WinRate = won * 100 / settled
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Analytics
		err := tx.First(&existing, "pool_id = ?", poolID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stats.ID = uuid.NewString()
			return tx.Create(&stats).Error
		}
		if err != nil {
			return err
		}
		stats.ID = existing.ID
		return tx.Save(&stats).Error
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// RefreshAll recomputes stats for every pool with recent activity.
func (s *AnalyticsService) RefreshAll() (int, error) {
	since := s.Clock.Now().Unix() - 24*3600
	var poolIDs []string
	if err := s.DB.Model(&models.Bet{}).
		Where("placed_at_unix >= ?", since).
		Distinct("pool_id").
		Pluck("pool_id", &poolIDs).Error; err != nil {
		return 0, err
	}
	for _, id := range poolIDs {
		if _, err := s.RefreshPool(id); err != nil {
			return 0, err
		}
	}
	return len(poolIDs), nil
}

// GetPoolStats returns the stored stats row for a pool, or ErrNotFound.
func (s *AnalyticsService) GetPoolStats(poolID string) (*models.Analytics, error) {
	var stats models.Analytics
	if err := s.DB.First(&stats, "pool_id = ?", poolID).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &stats, nil
}
