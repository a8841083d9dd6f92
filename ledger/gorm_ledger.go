package ledger

import (
	"errors"

	"rugfork-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedger keeps balances in a ledger_accounts table. Debits use a guarded
// update (WHERE balance >= amount) so an overdraw affects zero rows and the
// surrounding transaction rolls back with no partial effect.
type GormLedger struct{}

func NewGormLedger() *GormLedger { return &GormLedger{} }

func (l *GormLedger) Transfer(db *gorm.DB, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	res := db.Model(&models.LedgerAccount{}).
		Where("owner = ? AND balance >= ?", from, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrInsufficientFunds
	}
	return l.credit(db, to, amount)
}

func (l *GormLedger) Mint(db *gorm.DB, mint, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := l.credit(db, to, amount); err != nil {
		return err
	}
	res := db.Model(&models.TokenSupply{}).
		Where("mint = ?", mint).
		UpdateColumn("issued", gorm.Expr("issued + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.Create(&models.TokenSupply{Mint: mint, Issued: amount}).Error
	}
	return nil
}

func (l *GormLedger) EnsureAccount(db *gorm.DB, owner string) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.LedgerAccount{Owner: owner}).Error
}

func (l *GormLedger) Balance(db *gorm.DB, owner string) (uint64, error) {
	var acct models.LedgerAccount
	err := db.First(&acct, "owner = ?", owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

func (l *GormLedger) credit(db *gorm.DB, owner string, amount uint64) error {
	res := db.Model(&models.LedgerAccount{}).
		Where("owner = ?", owner).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.Create(&models.LedgerAccount{Owner: owner, Balance: amount}).Error
	}
	return nil
}
