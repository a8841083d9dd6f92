package services

import (
	"errors"

	"rugfork-backend/ledger"
	"rugfork-backend/models"

	"gorm.io/gorm"
)

// SystemService owns the singleton config row: emergency pause, default fee
// and the admin account used by the pool authorization checks.
type SystemService struct {
	DB     *gorm.DB
	Events ledger.Sink
}

func NewSystemService(db *gorm.DB, events ledger.Sink) *SystemService {
	return &SystemService{DB: db, Events: events}
}

// GetConfig returns the singleton config, defaulting it when unset.
func (s *SystemService) GetConfig() (*models.SystemConfig, error) {
	var cfg *models.SystemConfig
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		cfg, err = loadSystemConfig(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SystemConfigUpdate carries the optional fields of a config change; nil
// fields are left untouched.
type SystemConfigUpdate struct {
	Admin                *string `json:"admin"`
	DefaultFeePercentage *uint8  `json:"default_fee_percentage"`
	MinLiquidity         *uint64 `json:"min_liquidity"`
	MaxMultiplier        *uint64 `json:"max_multiplier"`
	RugScoreThreshold    *uint8  `json:"rug_score_threshold"`
	IsPaused             *bool   `json:"is_paused"`
}

// UpdateConfig upserts the singleton row. The default fee obeys the same 1-10
// range as pool fees.
func (s *SystemService) UpdateConfig(update SystemConfigUpdate) (*models.SystemConfig, error) {
	var cfg models.SystemConfig
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&cfg, "id = ?", models.SystemConfigID).Error
		created := errors.Is(err, gorm.ErrRecordNotFound)
		if created {
			cfg = models.SystemConfig{ID: models.SystemConfigID, DefaultFeePercentage: 1}
		} else if err != nil {
			return err
		}

		if update.Admin != nil {
			cfg.Admin = *update.Admin
		}
		if update.DefaultFeePercentage != nil {
			if *update.DefaultFeePercentage < 1 || *update.DefaultFeePercentage > 10 {
				return models.ErrInvalidFee
			}
			cfg.DefaultFeePercentage = *update.DefaultFeePercentage
		}
		if update.MinLiquidity != nil {
			cfg.MinLiquidity = *update.MinLiquidity
		}
		if update.MaxMultiplier != nil {
			cfg.MaxMultiplier = *update.MaxMultiplier
		}
		if update.RugScoreThreshold != nil {
			cfg.RugScoreThreshold = *update.RugScoreThreshold
		}
		if update.IsPaused != nil {
			cfg.IsPaused = *update.IsPaused
		}

		if created {
			return tx.Create(&cfg).Error
		}
		return tx.Save(&cfg).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("system_config_updated", map[string]interface{}{
		"is_paused":   cfg.IsPaused,
		"default_fee": cfg.DefaultFeePercentage,
	})
	return &cfg, nil
}
