package services

import (
	"rugfork-backend/ledger"
	"rugfork-backend/models"

	"gorm.io/gorm"
)

// Rug score heuristic weights. The score accumulates from zero, saturates at
// the low end and is clamped to 100.
const (
	lowLiquidityThreshold = 1_000_000_000 // 1 token in base units
	lowLiquidityPenalty   = 40
	highVolumePenalty     = 30
	manyBetsDiscount      = 20
	youngPoolPenalty      = 20
	highFeePenalty        = 15
	youngPoolHours        = 24
	manyBetsThreshold     = 100
)

// CalculateRugScore rates a pool snapshot 0-100 at the given instant. Pure:
// no side effects, callable on any pool at any time.
func CalculateRugScore(pool *models.Pool, nowUnix int64) uint8 {
	score := 0

	if pool.Liquidity < lowLiquidityThreshold {
		score += lowLiquidityPenalty
	}
	if pool.TotalVolume > pool.Liquidity*10 {
		score += highVolumePenalty
	}
	if pool.TotalBets > manyBetsThreshold {
		score -= manyBetsDiscount
		if score < 0 {
			score = 0
		}
	}
	if pool.AgeHours(nowUnix) < youngPoolHours {
		score += youngPoolPenalty
	}
	if pool.FeePercentage > 5 {
		score += highFeePenalty
	}
	if pool.Crashed() {
		score = 100
	}

	if score > 100 {
		score = 100
	}
	return uint8(score)
}

// RiskLevel buckets a score the way the analytics surface reports it.
func RiskLevel(score uint8) string {
	switch {
	case score <= 25:
		return "LOW"
	case score <= 50:
		return "MEDIUM"
	case score <= 75:
		return "HIGH"
	default:
		return "EXTREME"
	}
}

// RugScoreReport is the full risk read-out for one pool.
type RugScoreReport struct {
	PoolID          string   `json:"pool_id"`
	Score           uint8    `json:"score"`
	RiskLevel       string   `json:"risk_level"`
	Recommendations []string `json:"recommendations"`
}

func buildRecommendations(pool *models.Pool, score uint8) []string {
	var recs []string
	if pool.Liquidity < lowLiquidityThreshold {
		recs = append(recs, "Low liquidity detected - high slippage risk")
	}
	if pool.TotalVolume > pool.Liquidity*10 {
		recs = append(recs, "Volume far exceeds liquidity - exit risk")
	}
	if pool.FeePercentage > 5 {
		recs = append(recs, "High fee percentage - creator takes an outsized cut")
	}
	if pool.Crashed() {
		recs = append(recs, "Pool has crashed - no further bets possible")
	}

	switch RiskLevel(score) {
	case "EXTREME":
		recs = append(recs, "EXTREME RISK - consider avoiding this token")
	case "HIGH":
		recs = append(recs, "HIGH RISK - only wager what you can afford to lose")
	case "MEDIUM":
		recs = append(recs, "MEDIUM RISK - monitor closely")
	default:
		recs = append(recs, "LOW RISK - relatively safe for wagering")
	}
	return recs
}

type RugScoreService struct {
	DB    *gorm.DB
	Clock ledger.Clock
}

func NewRugScoreService(db *gorm.DB, clock ledger.Clock) *RugScoreService {
	return &RugScoreService{DB: db, Clock: clock}
}

// ScorePool computes and persists the current score for a pool and returns
// the full report.
func (s *RugScoreService) ScorePool(poolID string) (*RugScoreReport, error) {
	var pool models.Pool
	if err := s.DB.First(&pool, "id = ?", poolID).Error; err != nil {
		return nil, notFoundOr(err)
	}

	score := CalculateRugScore(&pool, s.Clock.Now().Unix())
	if err := s.DB.Model(&models.Pool{}).
		Where("id = ?", pool.ID).
		UpdateColumn("rug_score", score).Error; err != nil {
		return nil, err
	}

	return &RugScoreReport{
		PoolID:          pool.ID,
		Score:           score,
		RiskLevel:       RiskLevel(score),
		Recommendations: buildRecommendations(&pool, score),
	}, nil
}

// RefreshActivePools rescores every active pool. Called by the scheduler.
func (s *RugScoreService) RefreshActivePools() (int, error) {
	var pools []models.Pool
	if err := s.DB.Where("is_active = ?", true).Find(&pools).Error; err != nil {
		return 0, err
	}
	now := s.Clock.Now().Unix()
	updated := 0
	for _, pool := range pools {
		score := CalculateRugScore(&pool, now)
		if score == pool.RugScore {
			continue
		}
		if err := s.DB.Model(&models.Pool{}).
			Where("id = ?", pool.ID).
			UpdateColumn("rug_score", score).Error; err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
