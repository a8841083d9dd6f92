// Package ledger is the narrow surface the wagering core uses to move
// balances. Every call is atomic within the *gorm.DB handle it receives, so
// a service wrapping its whole operation in one transaction gets
// all-or-nothing semantics for free.
package ledger

import (
	"time"

	"gorm.io/gorm"
)

type Ledger interface {
	// Transfer moves amount from one account to another. Fails with
	// models.ErrInsufficientFunds if the source balance is too low; the
	// destination account is created on first credit.
	Transfer(db *gorm.DB, from, to string, amount uint64) error

	// Mint issues amount units of a token mint to an account and records
	// the cumulative supply.
	Mint(db *gorm.DB, mint, to string, amount uint64) error

	// EnsureAccount creates a zero-balance account if absent.
	EnsureAccount(db *gorm.DB, owner string) error

	// Balance reads an account balance; absent accounts read as zero.
	Balance(db *gorm.DB, owner string) (uint64, error)
}

// Clock abstracts time so settlement and scoring are testable at fixed
// instants.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }
