package models

// RugRoyale is a fixed-duration tournament with a shared prize pool.
// Entry fee is fixed at creation as prize_pool/100. Winners are set exactly
// once at distribution and the record stays around for audit.
type RugRoyale struct {
	ID            string `json:"id" gorm:"primaryKey"`
	Creator       string `json:"creator" gorm:"index;not null"`
	PrizePool     uint64 `json:"prize_pool"`
	StartTimeUnix int64  `json:"start_time_unix"`
	EndTimeUnix   int64  `json:"end_time_unix"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`
	EntryFee      uint64 `json:"entry_fee"`

	TotalParticipants uint32 `json:"total_participants" gorm:"default:0"`

	Participants []TournamentParticipant `json:"participants,omitempty" gorm:"foreignKey:TournamentID"`
	Winners      []Winner                `json:"winners,omitempty" gorm:"foreignKey:TournamentID"`

	Timestamps
}

// EscrowAccount is the ledger account holding the prize pool and entry fees.
func (t *RugRoyale) EscrowAccount() string {
	return "tournament:" + t.ID
}

// TournamentParticipant records one user's entry. JoinOrder is the 1-based
// join sequence; prize distribution walks participants in this order.
type TournamentParticipant struct {
	ID           string `json:"id" gorm:"primaryKey"`
	TournamentID string `json:"tournament_id" gorm:"uniqueIndex:idx_participants_tournament_user;not null"`
	UserID       string `json:"user_id" gorm:"uniqueIndex:idx_participants_tournament_user;not null"`
	JoinOrder    uint32 `json:"join_order"`
	JoinedAtUnix int64  `json:"joined_at_unix"`

	Timestamps
}

// Winner is one paid rank of a distributed tournament. Rank is unique per
// tournament (1-3).
type Winner struct {
	ID           string `json:"id" gorm:"primaryKey"`
	TournamentID string `json:"tournament_id" gorm:"uniqueIndex:idx_winners_tournament_rank;not null"`
	UserID       string `json:"user_id" gorm:"index;not null"`
	Rank         uint8  `json:"rank" gorm:"uniqueIndex:idx_winners_tournament_rank"`
	PrizeAmount  uint64 `json:"prize_amount"`

	Timestamps
}
