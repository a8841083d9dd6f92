package services

import (
	"errors"

	"rugfork-backend/ledger"
	"rugfork-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Achievement ids. The profile stores the unlocked set; each id unlocks at
// most once.
const (
	AchFirstBet      uint8 = 1
	AchTenBets       uint8 = 2
	AchHundredBets   uint8 = 3
	AchFirstWin      uint8 = 4
	AchLevelFive     uint8 = 5
	AchLevelTen      uint8 = 6
	AchRugPassHolder uint8 = 7
)

// achievementTriggers maps ids to profile thresholds checked after XP grants
// and settlements.
var achievementTriggers = []struct {
	ID   uint8
	Met  func(p *models.UserProfile) bool
}{
	{AchFirstBet, func(p *models.UserProfile) bool { return p.TotalBets >= 1 }},
	{AchTenBets, func(p *models.UserProfile) bool { return p.TotalBets >= 10 }},
	{AchHundredBets, func(p *models.UserProfile) bool { return p.TotalBets >= 100 }},
	{AchFirstWin, func(p *models.UserProfile) bool { return p.TotalWinnings > 0 }},
	{AchLevelFive, func(p *models.UserProfile) bool { return p.Level >= 5 }},
	{AchLevelTen, func(p *models.UserProfile) bool { return p.Level >= 10 }},
	{AchRugPassHolder, func(p *models.UserProfile) bool { return p.RugPassLevel > 0 }},
}

type ProgressionService struct {
	DB     *gorm.DB
	Clock  ledger.Clock
	Events ledger.Sink
}

func NewProgressionService(db *gorm.DB, clock ledger.Clock, events ledger.Sink) *ProgressionService {
	return &ProgressionService{DB: db, Clock: clock, Events: events}
}

// EnsureProfile returns the user's profile, creating it lazily.
func (s *ProgressionService) EnsureProfile(userID string) (*models.UserProfile, error) {
	var profile *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = ensureProfile(tx, userID, s.Clock)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GrantXP adds XP to a profile, creating it on first grant. Level is always
// total_xp/1000 + 1. A rug pass scales the grant by its XP multiplier
// (100 = 1x).
func (s *ProgressionService) GrantXP(userID string, xpGained uint64) (*models.UserProfile, error) {
	if xpGained == 0 {
		return nil, models.ErrInvalidXpAmount
	}

	var profile *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = ensureProfile(tx, userID, s.Clock)
		if err != nil {
			return err
		}

		gained := xpGained
		if profile.RugPassLevel > 0 {
			var pass models.RugPass
			if err := tx.First(&pass, "owner = ?", userID).Error; err == nil && pass.XPMultiplier > 0 {
				gained = xpGained * uint64(pass.XPMultiplier) / 100
			}
		}

		profile.TotalXP += gained
		profile.Level = uint8(profile.TotalXP/1000) + 1
		profile.LastActivityUnix = s.Clock.Now().Unix()
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		return autoUnlockAchievements(tx, profile, s.Events)
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("user_xp_updated", map[string]interface{}{
		"user":      profile.UserID,
		"total_xp":  profile.TotalXP,
		"level":     profile.Level,
		"xp_gained": xpGained,
	})
	return profile, nil
}

// UnlockAchievement adds an achievement id to the profile's set. Repeats
// fail with ErrAchievementUnlocked.
func (s *ProgressionService) UnlockAchievement(userID string, achievementID uint8) (*models.UserProfile, error) {
	var profile *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = ensureProfile(tx, userID, s.Clock)
		if err != nil {
			return err
		}
		if profile.HasAchievement(achievementID) {
			return models.ErrAchievementUnlocked
		}
		if err := profile.SetAchievements(append(profile.AchievementIDs(), achievementID)); err != nil {
			return err
		}
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("achievement_unlocked", map[string]interface{}{
		"user":        userID,
		"achievement": achievementID,
	})
	return profile, nil
}

// MintRugPass issues or upgrades a user's pass. Level must be 1-5; benefits
// are the fixed tier for the level.
func (s *ProgressionService) MintRugPass(userID string, level uint8) (*models.RugPass, error) {
	if level < 1 || level > 5 {
		return nil, models.ErrInvalidRugPassLevel
	}

	var pass models.RugPass
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		feeDiscount, xpMult, priority, exclusive := models.BenefitsForLevel(level)

		err := tx.First(&pass, "owner = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pass = models.RugPass{
				ID:           uuid.NewString(),
				Owner:        userID,
				MintedAtUnix: s.Clock.Now().Unix(),
			}
		} else if err != nil {
			return err
		}

		pass.Level = level
		pass.FeeDiscount = feeDiscount
		pass.XPMultiplier = xpMult
		pass.PrioritySupport = priority
		pass.ExclusiveTournaments = exclusive
		if err := tx.Save(&pass).Error; err != nil {
			return err
		}

		profile, err := ensureProfile(tx, userID, s.Clock)
		if err != nil {
			return err
		}
		profile.RugPassLevel = level
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		return autoUnlockAchievements(tx, profile, s.Events)
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("rug_pass_minted", map[string]interface{}{
		"user":  userID,
		"level": level,
	})
	return &pass, nil
}

// GetRugPass returns a user's pass or ErrRugPassNotFound.
func (s *ProgressionService) GetRugPass(userID string) (*models.RugPass, error) {
	var pass models.RugPass
	err := s.DB.First(&pass, "owner = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrRugPassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

// Leaderboard returns top profiles ordered by XP or by total winnings.
func (s *ProgressionService) Leaderboard(by string, limit int) ([]models.UserProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	order := "total_xp DESC"
	if by == "winnings" {
		order = "total_winnings DESC"
	}
	var profiles []models.UserProfile
	if err := s.DB.Order(order).Limit(limit).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// autoUnlockAchievements checks every trigger against the profile and adds
// the ids not yet unlocked. Shared by XP grants and bet settlement.
func autoUnlockAchievements(tx *gorm.DB, profile *models.UserProfile, events ledger.Sink) error {
	changed := false
	ids := profile.AchievementIDs()
	for _, trigger := range achievementTriggers {
		if !trigger.Met(profile) || profile.HasAchievement(trigger.ID) {
			continue
		}
		ids = append(ids, trigger.ID)
		if err := profile.SetAchievements(ids); err != nil {
			return err
		}
		changed = true
		events.Emit("achievement_unlocked", map[string]interface{}{
			"user":        profile.UserID,
			"achievement": trigger.ID,
		})
	}
	if !changed {
		return nil
	}
	return tx.Save(profile).Error
}
