package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProfile tracks XP, level and wagering stats per user (denormalized
// for leaderboards). Level is always total_xp/1000 + 1.
type UserProfile struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null"`

	// Denormalized from the profile service by the sync worker.
	Username string `json:"username"`

	TotalXP          uint64 `json:"total_xp" gorm:"default:0"`
	Level            uint8  `json:"level" gorm:"default:1"`
	LastActivityUnix int64  `json:"last_activity_unix"`

	TotalBets     uint64 `json:"total_bets" gorm:"default:0"`
	TotalWinnings uint64 `json:"total_winnings" gorm:"default:0"`
	TotalLosses   uint64 `json:"total_losses" gorm:"default:0"`

	RugPassLevel uint8 `json:"rug_pass_level" gorm:"default:0"`

	// Unique achievement ids, stored as a JSON array of uint8.
	Achievements datatypes.JSON `json:"achievements"`

	Timestamps
}

// AchievementIDs decodes the stored achievement set. A nil or empty column
// decodes to an empty slice.
func (p *UserProfile) AchievementIDs() []uint8 {
	if len(p.Achievements) == 0 {
		return nil
	}
	var ids []uint8
	if err := json.Unmarshal(p.Achievements, &ids); err != nil {
		return nil
	}
	return ids
}

// HasAchievement reports whether the id is already in the set.
func (p *UserProfile) HasAchievement(id uint8) bool {
	for _, existing := range p.AchievementIDs() {
		if existing == id {
			return true
		}
	}
	return false
}

// SetAchievements re-encodes the id set onto the JSON column.
func (p *UserProfile) SetAchievements(ids []uint8) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.Achievements = datatypes.JSON(raw)
	return nil
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
