package models

// Pool is the wagering venue for one token. Domain timestamps are unix
// seconds (int64) because the crash/score arithmetic works in seconds.
type Pool struct {
	ID        string `json:"id" gorm:"primaryKey"`
	TokenMint string `json:"token_mint" gorm:"uniqueIndex;not null"`
	TokenName string `json:"token_name"`
	Slug      string `json:"slug" gorm:"index"`
	LogoURL   string `json:"logo_url"`

	Liquidity     uint64 `json:"liquidity"`
	Creator       string `json:"creator" gorm:"index;not null"`
	CreatedAtUnix int64  `json:"created_at_unix"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`
	TotalBets     uint64 `json:"total_bets" gorm:"default:0"`
	TotalVolume   uint64 `json:"total_volume" gorm:"default:0"`
	FeePercentage uint8  `json:"fee_percentage" gorm:"default:1"` // 1-10

	// Set exactly once when the pool crashes; nil until then.
	CrashPoint    *uint64 `json:"crash_point,omitempty"`
	CrashedAtUnix *int64  `json:"crashed_at_unix,omitempty"`

	RugScore uint8 `json:"rug_score" gorm:"default:0"` // 0-100

	Timestamps
}

// EscrowAccount is the ledger account holding this pool's wagered funds.
func (p *Pool) EscrowAccount() string {
	return "pool:" + p.ID
}

// TokenAccount is the ledger account holding the pool's minted token supply.
func (p *Pool) TokenAccount() string {
	return "pool_tokens:" + p.ID
}

// Crashed reports whether the crash point has been revealed.
func (p *Pool) Crashed() bool {
	return p.CrashPoint != nil
}

// AgeHours returns the pool age in whole hours at the given instant.
func (p *Pool) AgeHours(nowUnix int64) int64 {
	return (nowUnix - p.CreatedAtUnix) / 3600
}
