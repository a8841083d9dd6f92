package ledger

import (
	"errors"
	"testing"

	"rugfork-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.LedgerAccount{}, &models.TokenSupply{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustBalance(t *testing.T, l *GormLedger, db *gorm.DB, owner string) uint64 {
	t.Helper()
	bal, err := l.Balance(db, owner)
	if err != nil {
		t.Fatalf("Balance(%s): %v", owner, err)
	}
	return bal
}

func TestTransfer(t *testing.T) {
	db := newTestDB(t)
	l := NewGormLedger()

	if err := db.Create(&models.LedgerAccount{Owner: "alice", Balance: 100}).Error; err != nil {
		t.Fatal(err)
	}

	if err := l.Transfer(db, "alice", "bob", 60); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}
	if got := mustBalance(t, l, db, "alice"); got != 40 {
		t.Errorf("alice = %d, want 40", got)
	}
	// The destination account is created on first credit.
	if got := mustBalance(t, l, db, "bob"); got != 60 {
		t.Errorf("bob = %d, want 60", got)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	l := NewGormLedger()

	if err := db.Create(&models.LedgerAccount{Owner: "alice", Balance: 50}).Error; err != nil {
		t.Fatal(err)
	}

	err := l.Transfer(db, "alice", "bob", 51)
	if !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("Transfer() error = %v, want ErrInsufficientFunds", err)
	}
	if got := mustBalance(t, l, db, "alice"); got != 50 {
		t.Errorf("alice = %d, want 50 untouched", got)
	}
	if got := mustBalance(t, l, db, "bob"); got != 0 {
		t.Errorf("bob = %d, want 0", got)
	}

	// An absent source account reads the same as an empty one.
	if err := l.Transfer(db, "ghost", "bob", 1); !errors.Is(err, models.ErrInsufficientFunds) {
		t.Errorf("Transfer(ghost) error = %v, want ErrInsufficientFunds", err)
	}
}

func TestTransferZeroIsNoop(t *testing.T) {
	db := newTestDB(t)
	l := NewGormLedger()

	if err := l.Transfer(db, "ghost", "bob", 0); err != nil {
		t.Fatalf("Transfer(0) error = %v", err)
	}
	var accounts int64
	db.Model(&models.LedgerAccount{}).Count(&accounts)
	if accounts != 0 {
		t.Errorf("accounts = %d, want 0", accounts)
	}
}

func TestMintTracksSupply(t *testing.T) {
	db := newTestDB(t)
	l := NewGormLedger()

	if err := l.Mint(db, "mint-a", "treasury", 1000); err != nil {
		t.Fatalf("Mint() error = %v", err)
	}
	if err := l.Mint(db, "mint-a", "treasury", 500); err != nil {
		t.Fatal(err)
	}

	if got := mustBalance(t, l, db, "treasury"); got != 1500 {
		t.Errorf("treasury = %d, want 1500", got)
	}

	var supply models.TokenSupply
	if err := db.First(&supply, "mint = ?", "mint-a").Error; err != nil {
		t.Fatal(err)
	}
	if supply.Issued != 1500 {
		t.Errorf("issued = %d, want cumulative 1500", supply.Issued)
	}
}

func TestEnsureAccountIdempotent(t *testing.T) {
	db := newTestDB(t)
	l := NewGormLedger()

	if err := l.EnsureAccount(db, "escrow"); err != nil {
		t.Fatalf("EnsureAccount() error = %v", err)
	}
	if err := l.Transfer(db, "ghost-funder", "escrow", 0); err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&models.LedgerAccount{}).Where("owner = ?", "escrow").
		UpdateColumn("balance", 77).Error; err != nil {
		t.Fatal(err)
	}

	// A second ensure must not reset the balance.
	if err := l.EnsureAccount(db, "escrow"); err != nil {
		t.Fatal(err)
	}
	if got := mustBalance(t, l, db, "escrow"); got != 77 {
		t.Errorf("escrow = %d, want 77 after re-ensure", got)
	}
}

func TestBalanceAbsentAccount(t *testing.T) {
	db := newTestDB(t)
	l := NewGormLedger()

	if got := mustBalance(t, l, db, "nobody"); got != 0 {
		t.Errorf("absent account balance = %d, want 0", got)
	}
}
