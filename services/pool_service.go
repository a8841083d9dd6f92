package services

import (
	"errors"

	"rugfork-backend/ledger"
	"rugfork-backend/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type PoolService struct {
	DB     *gorm.DB
	Ledger ledger.Ledger
	Clock  ledger.Clock
	Events ledger.Sink
}

func NewPoolService(db *gorm.DB, l ledger.Ledger, clock ledger.Clock, events ledger.Sink) *PoolService {
	return &PoolService{DB: db, Ledger: l, Clock: clock, Events: events}
}

// InitializePool creates a pool with the default fee, mints the token supply
// to the pool's token account and seeds initial liquidity from the creator.
func (s *PoolService) InitializePool(tokenMint, tokenName string, tokenSupply, initialLiquidity uint64, creator string) (*models.Pool, error) {
	if tokenMint == "" || creator == "" {
		return nil, models.ErrInvalidAmount
	}

	var pool *models.Pool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cfg, err := loadSystemConfig(tx)
		if err != nil {
			return err
		}
		if cfg.IsPaused {
			return models.ErrSystemPaused
		}

		fee := cfg.DefaultFeePercentage
		if fee == 0 {
			fee = 1
		}

		pool, err = s.createPool(tx, tokenMint, tokenName, tokenSupply, initialLiquidity, fee, creator, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("pool_initialized", map[string]interface{}{
		"pool":       pool.ID,
		"token_mint": pool.TokenMint,
		"creator":    pool.Creator,
		"liquidity":  pool.Liquidity,
	})
	return pool, nil
}

// LaunchToken is the validated pool-creation variant: supply must be
// positive and the fee explicit and in range. An optional logo URL is
// attached to the pool record.
func (s *PoolService) LaunchToken(tokenMint, tokenName string, supply, liquidity uint64, feePercentage uint8, creator, logoURL string) (*models.Pool, error) {
	if tokenMint == "" || creator == "" || supply == 0 {
		return nil, models.ErrInvalidAmount
	}
	if feePercentage < 1 || feePercentage > 10 {
		return nil, models.ErrInvalidFee
	}

	var pool *models.Pool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cfg, err := loadSystemConfig(tx)
		if err != nil {
			return err
		}
		if cfg.IsPaused {
			return models.ErrSystemPaused
		}

		pool, err = s.createPool(tx, tokenMint, tokenName, supply, liquidity, feePercentage, creator, logoURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("token_launched", map[string]interface{}{
		"pool":           pool.ID,
		"token_mint":     pool.TokenMint,
		"creator":        pool.Creator,
		"supply":         supply,
		"liquidity":      liquidity,
		"fee_percentage": feePercentage,
	})
	return pool, nil
}

func (s *PoolService) createPool(tx *gorm.DB, tokenMint, tokenName string, supply, liquidity uint64, fee uint8, creator, logoURL string) (*models.Pool, error) {
	pool := &models.Pool{
		ID:            uuid.NewString(),
		TokenMint:     tokenMint,
		TokenName:     tokenName,
		LogoURL:       logoURL,
		Liquidity:     liquidity,
		Creator:       creator,
		CreatedAtUnix: s.Clock.Now().Unix(),
		IsActive:      true,
		FeePercentage: fee,
	}
	if tokenName != "" {
		pool.Slug = slug.Make(tokenName)
	}

	if err := tx.Create(pool).Error; err != nil {
		return nil, err
	}
	if err := s.Ledger.EnsureAccount(tx, pool.EscrowAccount()); err != nil {
		return nil, err
	}
	if err := s.Ledger.Mint(tx, tokenMint, pool.TokenAccount(), supply); err != nil {
		return nil, err
	}
	if liquidity > 0 {
		if err := s.Ledger.Transfer(tx, creator, pool.EscrowAccount(), liquidity); err != nil {
			return nil, err
		}
	}
	return pool, nil
}

// CrashPool reveals the crash point and deactivates the pool. One-shot: a
// second call fails with ErrPoolAlreadyCrashed. The crash point itself comes
// from the trusted feed; this service never generates one.
func (s *PoolService) CrashPool(poolID string, crashPoint uint64) (*models.Pool, error) {
	if crashPoint == 0 {
		return nil, models.ErrInvalidCrashPoint
	}

	var pool models.Pool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&pool, "id = ?", poolID).Error; err != nil {
			return notFoundOr(err)
		}
		if !pool.IsActive {
			return models.ErrPoolInactive
		}
		if pool.Crashed() {
			return models.ErrPoolAlreadyCrashed
		}

		now := s.Clock.Now().Unix()
		pool.CrashPoint = &crashPoint
		pool.CrashedAtUnix = &now
		pool.IsActive = false
		return tx.Save(&pool).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("pool_crashed", map[string]interface{}{
		"pool":        pool.ID,
		"crash_point": crashPoint,
		"crashed_at":  *pool.CrashedAtUnix,
	})
	return &pool, nil
}

// UpdatePoolParams lets the pool creator or the system admin adjust the fee
// and the active flag. Either field may be omitted. Note: this intentionally
// mirrors the reference behavior and does not check crash state, so a crashed
// pool can be toggled back to active here.
func (s *PoolService) UpdatePoolParams(poolID string, newFee *uint8, newIsActive *bool, caller string) (*models.Pool, error) {
	var pool models.Pool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cfg, err := loadSystemConfig(tx)
		if err != nil {
			return err
		}
		if err := tx.First(&pool, "id = ?", poolID).Error; err != nil {
			return notFoundOr(err)
		}
		if pool.Creator != caller && !cfg.IsAdmin(caller) {
			return models.ErrUnauthorized
		}
		if newFee != nil {
			if *newFee < 1 || *newFee > 10 {
				return models.ErrInvalidFee
			}
			pool.FeePercentage = *newFee
		}
		if newIsActive != nil {
			pool.IsActive = *newIsActive
		}
		return tx.Save(&pool).Error
	})
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"pool": pool.ID, "updater": caller}
	if newFee != nil {
		fields["new_fee_percentage"] = *newFee
	}
	if newIsActive != nil {
		fields["new_is_active"] = *newIsActive
	}
	s.Events.Emit("pool_params_updated", fields)
	return &pool, nil
}

// GetPool looks a pool up by id or slug.
func (s *PoolService) GetPool(idOrSlug string) (*models.Pool, error) {
	var pool models.Pool
	err := s.DB.Where("id = ? OR slug = ?", idOrSlug, idOrSlug).First(&pool).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &pool, nil
}

// ListPools returns pools, optionally only active ones, newest first.
func (s *PoolService) ListPools(activeOnly bool, limit int) ([]models.Pool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := s.DB.Order("created_at_unix DESC").Limit(limit)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var pools []models.Pool
	if err := q.Find(&pools).Error; err != nil {
		return nil, err
	}
	return pools, nil
}

// loadSystemConfig fetches the singleton config row. A missing row behaves
// like an empty config: no admin, not paused, default fee 1.
func loadSystemConfig(tx *gorm.DB) (*models.SystemConfig, error) {
	var cfg models.SystemConfig
	err := tx.First(&cfg, "id = ?", models.SystemConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SystemConfig{ID: models.SystemConfigID, DefaultFeePercentage: 1}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
