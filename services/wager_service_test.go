package services

import (
	"errors"
	"testing"

	"rugfork-backend/models"
)

func TestPlaceSidebet(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 0, 2)
	env.fund(t, "bob", 1000)

	bet, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50)
	if err != nil {
		t.Fatalf("PlaceSidebet() error = %v", err)
	}
	if bet.Amount != 100 || bet.Multiplier != 50 {
		t.Errorf("bet = %+v, want amount 100 multiplier 50", bet)
	}
	if bet.PlacedAtUnix != testInstant.Unix() {
		t.Errorf("placed at = %d, want %d", bet.PlacedAtUnix, testInstant.Unix())
	}

	// The stake moved to escrow atomically with the bet row.
	if got := env.balance(t, "bob"); got != 900 {
		t.Errorf("bob balance = %d, want 900", got)
	}
	if got := env.balance(t, pool.EscrowAccount()); got != 100 {
		t.Errorf("escrow balance = %d, want 100", got)
	}

	updated, _ := env.pools.GetPool(pool.ID)
	if updated.TotalBets != 1 || updated.TotalVolume != 100 {
		t.Errorf("pool counters = %d/%d, want 1/100", updated.TotalBets, updated.TotalVolume)
	}

	profile, err := env.progression.EnsureProfile("bob")
	if err != nil {
		t.Fatal(err)
	}
	if profile.TotalBets != 1 {
		t.Errorf("profile total bets = %d, want 1", profile.TotalBets)
	}
}

func TestPlaceSidebetValidation(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 0, 2)
	env.fund(t, "bob", 1000)

	tests := []struct {
		name       string
		amount     uint64
		multiplier uint64
		wantErr    error
	}{
		{"zero amount", 0, 50, models.ErrInvalidAmount},
		{"multiplier below minimum", 100, 1, models.ErrInvalidMultiplier},
		{"multiplier above maximum", 100, 101, models.ErrInvalidMultiplier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.wagers.PlaceSidebet(pool.ID, "bob", tt.amount, tt.multiplier)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PlaceSidebet() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Boundary multipliers are accepted.
	if _, err := env.wagers.PlaceSidebet(pool.ID, "bob", 10, 2); err != nil {
		t.Errorf("PlaceSidebet(multiplier=2) error = %v", err)
	}
}

func TestPlaceSidebetOncePerPoolAndUser(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 0, 2)
	env.fund(t, "bob", 1000)

	if _, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50); err != nil {
		t.Fatal(err)
	}
	_, err := env.wagers.PlaceSidebet(pool.ID, "bob", 50, 10)
	if !errors.Is(err, models.ErrBetAlreadyPlaced) {
		t.Fatalf("second PlaceSidebet() error = %v, want ErrBetAlreadyPlaced", err)
	}
	// Only the first stake left bob's account.
	if got := env.balance(t, "bob"); got != 900 {
		t.Errorf("bob balance = %d, want 900", got)
	}
}

func TestPlaceSidebetInsufficientFundsRollsBack(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 0, 2)
	env.fund(t, "bob", 50)

	_, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50)
	if !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("PlaceSidebet() error = %v, want ErrInsufficientFunds", err)
	}

	var bets int64
	env.db.Model(&models.Bet{}).Count(&bets)
	if bets != 0 {
		t.Errorf("bet count = %d, want 0 after rollback", bets)
	}
	updated, _ := env.pools.GetPool(pool.ID)
	if updated.TotalBets != 0 || updated.TotalVolume != 0 {
		t.Errorf("pool counters = %d/%d, want 0/0 after rollback", updated.TotalBets, updated.TotalVolume)
	}
}

func TestPlaceSidebetOnCrashedOrInactivePool(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 0, 2)
	env.fund(t, "bob", 1000)

	if _, err := env.pools.CrashPool(pool.ID, 50); err != nil {
		t.Fatal(err)
	}
	// Crashing deactivates, so the inactive check fires first.
	if _, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50); !errors.Is(err, models.ErrPoolInactive) {
		t.Errorf("PlaceSidebet() error = %v, want ErrPoolInactive", err)
	}

	// A crashed pool toggled back to active still refuses bets.
	active := true
	if _, err := env.pools.UpdatePoolParams(pool.ID, nil, &active, "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50); !errors.Is(err, models.ErrPoolAlreadyCrashed) {
		t.Errorf("PlaceSidebet() error = %v, want ErrPoolAlreadyCrashed", err)
	}
}

func TestSettleSidebetWin(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 500, 2)
	env.fund(t, "bob", 1000)

	bet, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50)
	if err != nil {
		t.Fatal(err)
	}

	settled, err := env.wagers.SettleSidebet(bet.ID, 60)
	if err != nil {
		t.Fatalf("SettleSidebet() error = %v", err)
	}
	if !settled.IsSettled || !settled.Won() {
		t.Fatal("bet should be settled and won")
	}
	// Payout is amount * multiplier / 100.
	if settled.Winnings != 50 {
		t.Errorf("winnings = %d, want 50", settled.Winnings)
	}
	if settled.CrashPoint == nil || *settled.CrashPoint != 60 {
		t.Errorf("crash point = %v, want 60", settled.CrashPoint)
	}
	if got := env.balance(t, "bob"); got != 950 {
		t.Errorf("bob balance = %d, want 950", got)
	}
	// Escrow started with 500 liquidity, gained the 100 stake, paid 50.
	if got := env.balance(t, pool.EscrowAccount()); got != 550 {
		t.Errorf("escrow balance = %d, want 550", got)
	}

	profile, _ := env.progression.EnsureProfile("bob")
	if profile.TotalWinnings != 50 {
		t.Errorf("profile winnings = %d, want 50", profile.TotalWinnings)
	}
	if !profile.HasAchievement(AchFirstBet) || !profile.HasAchievement(AchFirstWin) {
		t.Errorf("achievements = %v, want first-bet and first-win unlocked", profile.AchievementIDs())
	}
}

func TestSettleSidebetLoss(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 0, 2)
	env.fund(t, "bob", 1000)

	bet, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50)
	if err != nil {
		t.Fatal(err)
	}

	settled, err := env.wagers.SettleSidebet(bet.ID, 40)
	if err != nil {
		t.Fatalf("SettleSidebet() error = %v", err)
	}
	if settled.Winnings != 0 || settled.Won() {
		t.Errorf("winnings = %d, want 0", settled.Winnings)
	}
	// The stake stays in escrow.
	if got := env.balance(t, "bob"); got != 900 {
		t.Errorf("bob balance = %d, want 900", got)
	}
	if got := env.balance(t, pool.EscrowAccount()); got != 100 {
		t.Errorf("escrow balance = %d, want 100", got)
	}

	profile, _ := env.progression.EnsureProfile("bob")
	if profile.TotalLosses != 100 {
		t.Errorf("profile losses = %d, want 100", profile.TotalLosses)
	}
}

func TestSettleSidebetExactMultiplierWins(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 500, 2)
	env.fund(t, "bob", 1000)

	bet, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	settled, err := env.wagers.SettleSidebet(bet.ID, 50)
	if err != nil {
		t.Fatal(err)
	}
	if !settled.Won() {
		t.Error("crash point equal to multiplier should win")
	}
}

func TestSettleSidebetIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 500, 2)
	env.fund(t, "bob", 1000)

	bet, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.wagers.SettleSidebet(bet.ID, 60); err != nil {
		t.Fatal(err)
	}

	bobBefore := env.balance(t, "bob")
	escrowBefore := env.balance(t, pool.EscrowAccount())

	_, err = env.wagers.SettleSidebet(bet.ID, 60)
	if !errors.Is(err, models.ErrBetAlreadySettled) {
		t.Fatalf("second SettleSidebet() error = %v, want ErrBetAlreadySettled", err)
	}
	if got := env.balance(t, "bob"); got != bobBefore {
		t.Errorf("bob balance changed on replay: %d -> %d", bobBefore, got)
	}
	if got := env.balance(t, pool.EscrowAccount()); got != escrowBefore {
		t.Errorf("escrow balance changed on replay: %d -> %d", escrowBefore, got)
	}
}

func TestSettleSidebetInvalidCrashPoint(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 0, 2)
	env.fund(t, "bob", 1000)

	bet, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.wagers.SettleSidebet(bet.ID, 0); !errors.Is(err, models.ErrInvalidCrashPoint) {
		t.Errorf("SettleSidebet(0) error = %v, want ErrInvalidCrashPoint", err)
	}
}

func TestSettlePoolBets(t *testing.T) {
	env := newTestEnv(t)
	pool := env.launchPool(t, "mint-a", "alice", 1000, 2)
	env.fund(t, "bob", 100)
	env.fund(t, "carol", 100)
	env.fund(t, "dave", 100)

	if _, err := env.wagers.PlaceSidebet(pool.ID, "bob", 100, 40); err != nil {
		t.Fatal(err)
	}
	if _, err := env.wagers.PlaceSidebet(pool.ID, "carol", 100, 80); err != nil {
		t.Fatal(err)
	}
	if _, err := env.wagers.PlaceSidebet(pool.ID, "dave", 100, 60); err != nil {
		t.Fatal(err)
	}

	// Sweeping an uncrashed pool has no crash point to settle against.
	if _, err := env.wagers.SettlePoolBets(pool.ID); !errors.Is(err, models.ErrInvalidCrashPoint) {
		t.Fatalf("SettlePoolBets(uncrashed) error = %v, want ErrInvalidCrashPoint", err)
	}

	if _, err := env.pools.CrashPool(pool.ID, 60); err != nil {
		t.Fatal(err)
	}
	settled, err := env.wagers.SettlePoolBets(pool.ID)
	if err != nil {
		t.Fatalf("SettlePoolBets() error = %v", err)
	}
	if settled != 3 {
		t.Fatalf("settled = %d, want 3", settled)
	}

	// bob 100@40 wins 40, carol 100@80 loses, dave 100@60 wins 60.
	if got := env.balance(t, "bob"); got != 40 {
		t.Errorf("bob balance = %d, want 40", got)
	}
	if got := env.balance(t, "carol"); got != 0 {
		t.Errorf("carol balance = %d, want 0", got)
	}
	if got := env.balance(t, "dave"); got != 60 {
		t.Errorf("dave balance = %d, want 60", got)
	}

	// A second sweep finds nothing open.
	again, err := env.wagers.SettlePoolBets(pool.ID)
	if err != nil || again != 0 {
		t.Errorf("second sweep = (%d, %v), want (0, nil)", again, err)
	}
}

func TestListUserBets(t *testing.T) {
	env := newTestEnv(t)
	poolA := env.launchPool(t, "mint-a", "alice", 0, 2)
	env.fund(t, "carol", 0)
	poolB, err := env.pools.LaunchToken("mint-b", "Other", 1000, 0, 2, "carol", "")
	if err != nil {
		t.Fatal(err)
	}
	env.fund(t, "bob", 1000)

	betA, err := env.wagers.PlaceSidebet(poolA.ID, "bob", 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.wagers.PlaceSidebet(poolB.ID, "bob", 100, 30); err != nil {
		t.Fatal(err)
	}
	if _, err := env.wagers.SettleSidebet(betA.ID, 20); err != nil {
		t.Fatal(err)
	}

	all, total, err := env.wagers.ListUserBets("bob", "", "", 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("all bets = %d (total %d), want 2", len(all), total)
	}

	settledOnly, total, err := env.wagers.ListUserBets("bob", "", "settled", 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(settledOnly) != 1 || settledOnly[0].ID != betA.ID {
		t.Errorf("settled bets = %d (total %d), want just the settled one", len(settledOnly), total)
	}

	byPool, _, err := env.wagers.ListUserBets("bob", poolB.ID, "", 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPool) != 1 || byPool[0].PoolID != poolB.ID {
		t.Errorf("pool filter returned %d bets", len(byPool))
	}
}
