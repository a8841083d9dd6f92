package models

// Analytics holds rolling 24h stats for one pool, recomputed by the
// scheduler from the bets table. Read-mostly; never touched by settlement.
type Analytics struct {
	ID     string `json:"id" gorm:"primaryKey"`
	PoolID string `json:"pool_id" gorm:"uniqueIndex;not null"`

	TotalVolume24h    uint64 `json:"total_volume_24h"`
	TotalBets24h      uint64 `json:"total_bets_24h"`
	UniqueUsers24h    uint32 `json:"unique_users_24h"`
	AverageMultiplier uint64 `json:"average_multiplier"`
	WinRate           uint64 `json:"win_rate"` // percentage 0-100 of settled bets
	LastUpdatedUnix   int64  `json:"last_updated_unix"`

	Timestamps
}
