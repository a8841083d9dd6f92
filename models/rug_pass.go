package models

// RugPass is a per-user pass granting fee and XP benefits. Level 1-5.
type RugPass struct {
	ID           string `json:"id" gorm:"primaryKey"`
	Owner        string `json:"owner" gorm:"uniqueIndex;not null"`
	Level        uint8  `json:"level"`
	MintedAtUnix int64  `json:"minted_at_unix"`

	FeeDiscount          uint8 `json:"fee_discount"`          // percentage points off the pool fee
	XPMultiplier         uint8 `json:"xp_multiplier"`         // 100 = 1x, 150 = 1.5x
	PrioritySupport      bool  `json:"priority_support"`
	ExclusiveTournaments bool  `json:"exclusive_tournaments"`

	Timestamps
}

// BenefitsForLevel returns the fixed benefit tier for a pass level.
func BenefitsForLevel(level uint8) (feeDiscount, xpMultiplier uint8, prioritySupport, exclusiveTournaments bool) {
	switch level {
	case 1:
		return 0, 100, false, false
	case 2:
		return 1, 110, false, false
	case 3:
		return 2, 125, true, false
	case 4:
		return 3, 150, true, true
	default: // 5
		return 5, 200, true, true
	}
}
