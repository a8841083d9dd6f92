package models

// SystemConfig is the singleton admin configuration. It is loaded once per
// operation and passed in, so authorization checks stay pure functions of
// (caller, creator, config).
type SystemConfig struct {
	ID                   string `json:"id" gorm:"primaryKey"`
	Admin                string `json:"admin" gorm:"not null"`
	DefaultFeePercentage uint8  `json:"default_fee_percentage" gorm:"default:1"`
	MinLiquidity         uint64 `json:"min_liquidity"`
	MaxMultiplier        uint64 `json:"max_multiplier" gorm:"default:100"`
	RugScoreThreshold    uint8  `json:"rug_score_threshold" gorm:"default:80"`
	IsPaused             bool   `json:"is_paused" gorm:"default:false"`

	Timestamps
}

// SystemConfigID keys the singleton row.
const SystemConfigID = "system"

// IsAdmin reports whether the caller is the configured system admin.
func (c *SystemConfig) IsAdmin(caller string) bool {
	return c != nil && caller != "" && caller == c.Admin
}
