package services

import (
	"rugfork-backend/ledger"
	"rugfork-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prize split across the first three participants in join order. Integer
// truncation can leave a remainder; it stays in the tournament escrow.
var prizeDistribution = [3]uint64{50, 30, 20}

type TournamentService struct {
	DB     *gorm.DB
	Ledger ledger.Ledger
	Clock  ledger.Clock
	Events ledger.Sink
}

func NewTournamentService(db *gorm.DB, l ledger.Ledger, clock ledger.Clock, events ledger.Sink) *TournamentService {
	return &TournamentService{DB: db, Ledger: l, Clock: clock, Events: events}
}

// CreateTournament opens a RugRoyale. The creator funds the prize pool up
// front; the entry fee is fixed at 1% of it for the tournament's lifetime.
func (s *TournamentService) CreateTournament(creator string, prizePool uint64, durationSecs int64) (*models.RugRoyale, error) {
	if prizePool == 0 || durationSecs <= 0 {
		return nil, models.ErrInvalidAmount
	}

	var tournament *models.RugRoyale
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cfg, err := loadSystemConfig(tx)
		if err != nil {
			return err
		}
		if cfg.IsPaused {
			return models.ErrSystemPaused
		}

		now := s.Clock.Now().Unix()
		tournament = &models.RugRoyale{
			ID:            uuid.NewString(),
			Creator:       creator,
			PrizePool:     prizePool,
			StartTimeUnix: now,
			EndTimeUnix:   now + durationSecs,
			IsActive:      true,
			EntryFee:      prizePool / 100,
		}
		if err := tx.Create(tournament).Error; err != nil {
			return err
		}
		if err := s.Ledger.EnsureAccount(tx, tournament.EscrowAccount()); err != nil {
			return err
		}
		return s.Ledger.Transfer(tx, creator, tournament.EscrowAccount(), prizePool)
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("rug_royale_created", map[string]interface{}{
		"tournament": tournament.ID,
		"creator":    tournament.Creator,
		"prize_pool": tournament.PrizePool,
		"duration":   durationSecs,
	})
	return tournament, nil
}

// JoinTournament enters a user before the end time. The entry fee moves to
// escrow and the user is appended in join order; a user can join once.
func (s *TournamentService) JoinTournament(tournamentID, userID string) (*models.RugRoyale, error) {
	var tournament models.RugRoyale
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cfg, err := loadSystemConfig(tx)
		if err != nil {
			return err
		}
		if cfg.IsPaused {
			return models.ErrSystemPaused
		}

		if err := tx.First(&tournament, "id = ?", tournamentID).Error; err != nil {
			return notFoundOr(err)
		}
		if !tournament.IsActive {
			return models.ErrTournamentNotActive
		}
		now := s.Clock.Now().Unix()
		if now >= tournament.EndTimeUnix {
			return models.ErrTournamentEnded
		}

		var joined int64
		if err := tx.Model(&models.TournamentParticipant{}).
			Where("tournament_id = ? AND user_id = ?", tournament.ID, userID).
			Count(&joined).Error; err != nil {
			return err
		}
		if joined > 0 {
			return models.ErrAlreadyInTournament
		}

		if err := s.Ledger.Transfer(tx, userID, tournament.EscrowAccount(), tournament.EntryFee); err != nil {
			return err
		}

		tournament.TotalParticipants++
		participant := &models.TournamentParticipant{
			ID:           uuid.NewString(),
			TournamentID: tournament.ID,
			UserID:       userID,
			JoinOrder:    tournament.TotalParticipants,
			JoinedAtUnix: now,
		}
		if err := tx.Create(participant).Error; err != nil {
			return err
		}
		return tx.Save(&tournament).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("rug_royale_joined", map[string]interface{}{
		"tournament":         tournament.ID,
		"user":               userID,
		"total_participants": tournament.TotalParticipants,
	})
	return &tournament, nil
}

// DistributePrizes closes a tournament after its end time, paying the first
// three participants by join order 50/30/20 of prize pool plus collected
// entry fees. One-shot: once winners exist the tournament reads as ended.
// Ranking by join order is a deliberate simplification of the reference
// system; performance input would slot in here.
func (s *TournamentService) DistributePrizes(tournamentID string) ([]models.Winner, error) {
	var tournament models.RugRoyale
	var winners []models.Winner
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tournament, "id = ?", tournamentID).Error; err != nil {
			return notFoundOr(err)
		}
		if !tournament.IsActive {
			return models.ErrTournamentNotActive
		}
		if s.Clock.Now().Unix() < tournament.EndTimeUnix {
			return models.ErrTournamentNotActive
		}

		var existing int64
		if err := tx.Model(&models.Winner{}).
			Where("tournament_id = ?", tournament.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.ErrTournamentEnded
		}

		var participants []models.TournamentParticipant
		if err := tx.Where("tournament_id = ?", tournament.ID).
			Order("join_order ASC").
			Limit(len(prizeDistribution)).
			Find(&participants).Error; err != nil {
			return err
		}

		totalPrize := tournament.PrizePool + tournament.EntryFee*uint64(tournament.TotalParticipants)
		for i, p := range participants {
			prize := totalPrize * prizeDistribution[i] / 100
			if err := s.Ledger.Transfer(tx, tournament.EscrowAccount(), p.UserID, prize); err != nil {
				return err
			}
			winner := models.Winner{
				ID:           uuid.NewString(),
				TournamentID: tournament.ID,
				UserID:       p.UserID,
				Rank:         uint8(i + 1),
				PrizeAmount:  prize,
			}
			if err := tx.Create(&winner).Error; err != nil {
				return err
			}
			winners = append(winners, winner)
		}

		tournament.IsActive = false
		return tx.Save(&tournament).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit("rug_royale_completed", map[string]interface{}{
		"tournament": tournament.ID,
		"winners":    len(winners),
	})
	return winners, nil
}

// GetTournament loads a tournament with its participants and winners.
func (s *TournamentService) GetTournament(id string) (*models.RugRoyale, error) {
	var tournament models.RugRoyale
	err := s.DB.
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("join_order ASC") }).
		Preload("Winners", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		First(&tournament, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &tournament, nil
}

// ListTournaments returns tournaments, optionally only active ones.
func (s *TournamentService) ListTournaments(activeOnly bool, limit int) ([]models.RugRoyale, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := s.DB.Order("start_time_unix DESC").Limit(limit)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var tournaments []models.RugRoyale
	if err := q.Find(&tournaments).Error; err != nil {
		return nil, err
	}
	return tournaments, nil
}

// DistributeEnded closes every active tournament past its end time. Called
// by the scheduler; per-tournament failures are logged by the caller.
func (s *TournamentService) DistributeEnded() (distributed int, firstErr error) {
	var ended []models.RugRoyale
	err := s.DB.Where("is_active = ? AND end_time_unix <= ?", true, s.Clock.Now().Unix()).
		Find(&ended).Error
	if err != nil {
		return 0, err
	}
	for _, t := range ended {
		if _, err := s.DistributePrizes(t.ID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		distributed++
	}
	return distributed, firstErr
}
