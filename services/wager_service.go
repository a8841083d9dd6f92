package services

import (
	"errors"

	"rugfork-backend/ledger"
	"rugfork-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WagerService struct {
	DB     *gorm.DB
	Ledger ledger.Ledger
	Clock  ledger.Clock
	Events ledger.Sink
}

func NewWagerService(db *gorm.DB, l ledger.Ledger, clock ledger.Clock, events ledger.Sink) *WagerService {
	return &WagerService{DB: db, Ledger: l, Clock: clock, Events: events}
}

// PlaceSidebet wagers amount that the pool's crash point will reach the
// multiplier. One bet per (pool, user), enforced for the lifetime of the
// pair — the bet record outlives settlement.
func (s *WagerService) PlaceSidebet(poolID, userID string, amount, multiplier uint64) (*models.Bet, error) {
	var bet *models.Bet
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cfg, err := loadSystemConfig(tx)
		if err != nil {
			return err
		}
		if cfg.IsPaused {
			return models.ErrSystemPaused
		}

		var pool models.Pool
		if err := tx.First(&pool, "id = ?", poolID).Error; err != nil {
			return notFoundOr(err)
		}
		if !pool.IsActive {
			return models.ErrPoolInactive
		}
		if pool.Crashed() {
			return models.ErrPoolAlreadyCrashed
		}
		if amount == 0 {
			return models.ErrInvalidAmount
		}
		if multiplier < 2 || multiplier > 100 {
			return models.ErrInvalidMultiplier
		}

		var existing int64
		if err := tx.Model(&models.Bet{}).
			Where("pool_id = ? AND user_id = ?", pool.ID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.ErrBetAlreadyPlaced
		}

		if err := s.Ledger.Transfer(tx, userID, pool.EscrowAccount(), amount); err != nil {
			return err
		}

		bet = &models.Bet{
			ID:           uuid.NewString(),
			UserID:       userID,
			PoolID:       pool.ID,
			Amount:       amount,
			Multiplier:   multiplier,
			PlacedAtUnix: s.Clock.Now().Unix(),
		}
		if err := tx.Create(bet).Error; err != nil {
			return err
		}

		pool.TotalBets++
		pool.TotalVolume += amount
		if err := tx.Save(&pool).Error; err != nil {
			return err
		}

		profile, err := ensureProfile(tx, userID, s.Clock)
		if err != nil {
			return err
		}
		profile.TotalBets++
		profile.LastActivityUnix = s.Clock.Now().Unix()
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("sidebet_placed", map[string]interface{}{
		"bet":        bet.ID,
		"user":       bet.UserID,
		"pool":       bet.PoolID,
		"amount":     bet.Amount,
		"multiplier": bet.Multiplier,
	})
	return bet, nil
}

// SettleSidebet resolves a bet against the revealed crash point. Terminal:
// a settled bet can never be settled again. The win condition is
// crash_point >= multiplier; a win pays amount * multiplier / 100 from the
// pool escrow (truncating integer division).
func (s *WagerService) SettleSidebet(betID string, crashPoint uint64) (*models.Bet, error) {
	var bet models.Bet
	var won bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bet, "id = ?", betID).Error; err != nil {
			return notFoundOr(err)
		}
		if bet.IsSettled {
			return models.ErrBetAlreadySettled
		}
		if crashPoint == 0 {
			return models.ErrInvalidCrashPoint
		}

		var pool models.Pool
		if err := tx.First(&pool, "id = ?", bet.PoolID).Error; err != nil {
			return notFoundOr(err)
		}

		now := s.Clock.Now().Unix()
		won = crashPoint >= bet.Multiplier
		if won {
			bet.Winnings = bet.Amount * bet.Multiplier / 100
			if err := s.Ledger.Transfer(tx, pool.EscrowAccount(), bet.UserID, bet.Winnings); err != nil {
				return err
			}
		} else {
			bet.Winnings = 0
		}
		bet.IsSettled = true
		bet.CrashPoint = &crashPoint
		bet.SettledAtUnix = &now
		if err := tx.Save(&bet).Error; err != nil {
			return err
		}

		profile, err := ensureProfile(tx, bet.UserID, s.Clock)
		if err != nil {
			return err
		}
		if won {
			profile.TotalWinnings += bet.Winnings
		} else {
			profile.TotalLosses += bet.Amount
		}
		profile.LastActivityUnix = now
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		return autoUnlockAchievements(tx, profile, s.Events)
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("sidebet_settled", map[string]interface{}{
		"bet":         bet.ID,
		"user":        bet.UserID,
		"winnings":    bet.Winnings,
		"crash_point": crashPoint,
		"won":         won,
	})
	return &bet, nil
}

// SettlePoolBets settles every open bet of a crashed pool against its crash
// point. Used by the crash feed worker after CrashPool. Individual failures
// are collected, not fatal: each bet settles in its own transaction.
func (s *WagerService) SettlePoolBets(poolID string) (settled int, firstErr error) {
	var pool models.Pool
	if err := s.DB.First(&pool, "id = ?", poolID).Error; err != nil {
		return 0, notFoundOr(err)
	}
	if !pool.Crashed() {
		return 0, models.ErrInvalidCrashPoint
	}

	var open []models.Bet
	if err := s.DB.Where("pool_id = ? AND is_settled = ?", poolID, false).Find(&open).Error; err != nil {
		return 0, err
	}
	for _, b := range open {
		if _, err := s.SettleSidebet(b.ID, *pool.CrashPoint); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		settled++
	}
	return settled, firstErr
}

// ListUserBets returns a user's bets, optionally filtered by pool and by
// settled/active status, newest first.
func (s *WagerService) ListUserBets(userID, poolID, status string, page, limit int) ([]models.Bet, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := s.DB.Model(&models.Bet{}).Where("user_id = ?", userID)
	if poolID != "" {
		q = q.Where("pool_id = ?", poolID)
	}
	switch status {
	case "settled":
		q = q.Where("is_settled = ?", true)
	case "active":
		q = q.Where("is_settled = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bets []models.Bet
	err := q.Order("placed_at_unix DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&bets).Error
	if err != nil {
		return nil, 0, err
	}
	return bets, total, nil
}

func ensureProfile(tx *gorm.DB, userID string, clock ledger.Clock) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := tx.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{
			ID:               uuid.NewString(),
			UserID:           userID,
			Level:            1,
			LastActivityUnix: clock.Now().Unix(),
		}
		if err := tx.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
