package models

// LedgerAccount is one balance row in the host ledger. Owner is either a
// user id or a derived escrow key ("pool:<id>", "tournament:<id>").
type LedgerAccount struct {
	Owner   string `json:"owner" gorm:"primaryKey"`
	Balance uint64 `json:"balance" gorm:"default:0"`

	Timestamps
}

// TokenSupply records cumulative issuance per token mint.
type TokenSupply struct {
	Mint   string `json:"mint" gorm:"primaryKey"`
	Issued uint64 `json:"issued" gorm:"default:0"`

	Timestamps
}
