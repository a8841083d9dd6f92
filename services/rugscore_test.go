package services

import (
	"testing"

	"rugfork-backend/models"
)

func TestCalculateRugScore(t *testing.T) {
	now := testInstant.Unix()
	crash := uint64(50)

	tests := []struct {
		name string
		pool models.Pool
		want uint8
	}{
		{
			name: "healthy mature pool",
			pool: models.Pool{
				Liquidity:     5_000_000_000,
				TotalVolume:   1_000_000,
				TotalBets:     10,
				CreatedAtUnix: now - 48*3600,
				FeePercentage: 2,
			},
			want: 0,
		},
		{
			name: "young pool with thin liquidity",
			pool: models.Pool{
				Liquidity:     500_000_000,
				TotalVolume:   0,
				TotalBets:     0,
				CreatedAtUnix: now - 3600,
				FeePercentage: 2,
			},
			want: 60, // low liquidity 40 + young 20
		},
		{
			name: "volume dwarfs liquidity",
			pool: models.Pool{
				Liquidity:     2_000_000_000,
				TotalVolume:   50_000_000_000,
				TotalBets:     10,
				CreatedAtUnix: now - 48*3600,
				FeePercentage: 2,
			},
			want: 30,
		},
		{
			name: "high fee",
			pool: models.Pool{
				Liquidity:     5_000_000_000,
				TotalBets:     10,
				CreatedAtUnix: now - 48*3600,
				FeePercentage: 6,
			},
			want: 15,
		},
		{
			name: "many bets discount",
			pool: models.Pool{
				Liquidity:     500_000_000,
				TotalBets:     150,
				CreatedAtUnix: now - 48*3600,
				FeePercentage: 2,
			},
			want: 20, // low liquidity 40 - discount 20
		},
		{
			name: "discount saturates at zero",
			pool: models.Pool{
				Liquidity:     5_000_000_000,
				TotalBets:     150,
				CreatedAtUnix: now - 48*3600,
				FeePercentage: 2,
			},
			want: 0,
		},
		{
			name: "everything wrong clamps to 100",
			pool: models.Pool{
				Liquidity:     100,
				TotalVolume:   1_000_000,
				TotalBets:     1,
				CreatedAtUnix: now - 3600,
				FeePercentage: 9,
			},
			want: 100, // 40+30+20+15 = 105, clamped
		},
		{
			name: "crash overrides everything",
			pool: models.Pool{
				Liquidity:     5_000_000_000,
				TotalBets:     10,
				CreatedAtUnix: now - 48*3600,
				FeePercentage: 2,
				CrashPoint:    &crash,
			},
			want: 100,
		},
		{
			name: "age boundary is exclusive",
			pool: models.Pool{
				Liquidity:     5_000_000_000,
				TotalBets:     10,
				CreatedAtUnix: now - 24*3600,
				FeePercentage: 2,
			},
			want: 0, // exactly 24h old is no longer young
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateRugScore(&tt.pool, now); got != tt.want {
				t.Errorf("CalculateRugScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		score uint8
		want  string
	}{
		{0, "LOW"},
		{25, "LOW"},
		{26, "MEDIUM"},
		{50, "MEDIUM"},
		{51, "HIGH"},
		{75, "HIGH"},
		{76, "EXTREME"},
		{100, "EXTREME"},
	}
	for _, tt := range tests {
		if got := RiskLevel(tt.score); got != tt.want {
			t.Errorf("RiskLevel(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScorePoolPersists(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 500_000_000, 2)

	report, err := env.rugScores.ScorePool(pool.ID)
	if err != nil {
		t.Fatalf("ScorePool() error = %v", err)
	}
	// Freshly launched: low liquidity + young.
	if report.Score != 60 {
		t.Errorf("score = %d, want 60", report.Score)
	}
	if report.RiskLevel != "HIGH" {
		t.Errorf("risk level = %q, want HIGH", report.RiskLevel)
	}
	if len(report.Recommendations) == 0 {
		t.Error("expected recommendations for a risky pool")
	}

	stored, err := env.pools.GetPool(pool.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.RugScore != 60 {
		t.Errorf("persisted rug score = %d, want 60", stored.RugScore)
	}
}

func TestRefreshActivePoolsSkipsUnchanged(t *testing.T) {
	env := newTestEnv(t)
	env.launchPool(t, "mint-a", "alice", 500_000_000, 2)

	updated, err := env.rugScores.RefreshActivePools()
	if err != nil {
		t.Fatalf("RefreshActivePools() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	// Second pass finds every score already current.
	updated, err = env.rugScores.RefreshActivePools()
	if err != nil {
		t.Fatal(err)
	}
	if updated != 0 {
		t.Errorf("second refresh updated = %d, want 0", updated)
	}
}
