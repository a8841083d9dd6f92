package services

import (
	"testing"
	"time"

	"rugfork-backend/ledger"
	"rugfork-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testInstant is the fixed "now" every service under test runs at.
var testInstant = time.Unix(1_700_000_000, 0)

type noopSink struct{}

func (noopSink) Emit(string, map[string]interface{}) {}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// In-memory sqlite vanishes when its single connection closes.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Pool{},
		&models.Bet{},
		&models.UserProfile{},
		&models.RugRoyale{},
		&models.TournamentParticipant{},
		&models.Winner{},
		&models.RugPass{},
		&models.SystemConfig{},
		&models.Analytics{},
		&models.LedgerAccount{},
		&models.TokenSupply{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db          *gorm.DB
	book        ledger.Ledger
	clock       ledger.FixedClock
	pools       *PoolService
	wagers      *WagerService
	tournaments *TournamentService
	progression *ProgressionService
	rugScores   *RugScoreService
	analytics   *AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	clock := ledger.FixedClock{T: testInstant}
	book := ledger.NewGormLedger()
	sink := noopSink{}
	return &testEnv{
		db:          db,
		book:        book,
		clock:       clock,
		pools:       NewPoolService(db, book, clock, sink),
		wagers:      NewWagerService(db, book, clock, sink),
		tournaments: NewTournamentService(db, book, clock, sink),
		progression: NewProgressionService(db, clock, sink),
		rugScores:   NewRugScoreService(db, clock),
		analytics:   NewAnalyticsService(db, clock),
	}
}

func (e *testEnv) fund(t *testing.T, owner string, amount uint64) {
	t.Helper()
	if err := e.db.Create(&models.LedgerAccount{Owner: owner, Balance: amount}).Error; err != nil {
		t.Fatalf("fund %s: %v", owner, err)
	}
}

func (e *testEnv) balance(t *testing.T, owner string) uint64 {
	t.Helper()
	bal, err := e.book.Balance(e.db, owner)
	if err != nil {
		t.Fatalf("balance %s: %v", owner, err)
	}
	return bal
}

// launchPool funds the creator and launches a standard test pool.
func (e *testEnv) launchPool(t *testing.T, mint, creator string, liquidity uint64, fee uint8) *models.Pool {
	t.Helper()
	e.fund(t, creator, liquidity)
	pool, err := e.pools.LaunchToken(mint, "Test Token", 1_000_000, liquidity, fee, creator, "")
	if err != nil {
		t.Fatalf("launch pool: %v", err)
	}
	return pool
}
