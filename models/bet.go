package models

// Bet is a user's side-bet that a pool's crash point will reach or exceed
// the chosen multiplier. Multiplier and crash point share percent-of-stake
// units (100 = 1.00x), so a winning payout is amount * multiplier / 100.
//
// One bet per (pool, user): the row outlives settlement and the composite
// unique index makes a second placement for the same pair fail.
type Bet struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex:idx_bets_pool_user;not null"`
	PoolID string `json:"pool_id" gorm:"uniqueIndex:idx_bets_pool_user;not null"`

	Amount        uint64 `json:"amount"`
	Multiplier    uint64 `json:"multiplier"` // 2-100
	PlacedAtUnix  int64  `json:"placed_at_unix"`
	IsSettled     bool   `json:"is_settled" gorm:"default:false;index"`
	Winnings      uint64 `json:"winnings" gorm:"default:0"`
	CrashPoint    *uint64 `json:"crash_point,omitempty"`
	SettledAtUnix *int64  `json:"settled_at_unix,omitempty"`

	Pool Pool `json:"pool,omitempty" gorm:"foreignKey:PoolID"`

	Timestamps
}

// Won reports whether a settled bet paid out.
func (b *Bet) Won() bool {
	return b.IsSettled && b.Winnings > 0
}
