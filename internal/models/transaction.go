package models

import (
	"errors"
	"time"
)

// Transaction is a directed value movement between at most two accounts.
// Either end may be nil, meaning an external/untracked account. Amounts are
// stored in cents to avoid float; Total is always stored non-negative, the
// sign is encoded by which side is source vs destination.
type Transaction struct {
	ID                   uint  `gorm:"primaryKey"`
	SourceAccountID      *uint `gorm:"index"`
	DestinationAccountID *uint `gorm:"index"`
	DateTime             time.Time `gorm:"index;not null"`
	Description          string    `gorm:"size:250"`
	Total                int64     `gorm:"not null"`
	CategoryID           *uint     `gorm:"index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	SourceAccount      *Account
	DestinationAccount *Account
	Category           *Category
	Lines              []TransactionLine       `gorm:"constraint:OnDelete:CASCADE"`
	Identifiers        []TransactionIdentifier `gorm:"constraint:OnDelete:CASCADE"`
}

// TransactionLine is a named sub-component of a split transaction. Line
// amounts must sum to the transaction total.
type TransactionLine struct {
	ID            uint `gorm:"primaryKey"`
	TransactionID uint `gorm:"index;not null"`
	Order         int  `gorm:"column:line_order;not null"`
	Amount        int64
	Description   string `gorm:"size:250"`
}

// TransactionIdentifier is an external identifier attached to a transaction,
// used for idempotent statement import.
type TransactionIdentifier struct {
	ID            uint   `gorm:"primaryKey"`
	TransactionID uint   `gorm:"index;not null"`
	Identifier    string `gorm:"size:100;index;not null"`
}

var (
	ErrNoAccounts       = errors.New("either source or destination account must be set")
	ErrSameAccounts     = errors.New("source and destination accounts must be different")
	ErrLineSumMismatch  = errors.New("sum of line amounts does not match transaction total")
	ErrNegativeTotal    = errors.New("transaction total must be non-negative after normalization")
)

// Validate checks the cross-field invariants that must hold before a
// transaction is written.
func (t *Transaction) Validate() error {
	if t.SourceAccountID == nil && t.DestinationAccountID == nil {
		return ErrNoAccounts
	}
	if t.SourceAccountID != nil && t.DestinationAccountID != nil &&
		*t.SourceAccountID == *t.DestinationAccountID {
		return ErrSameAccounts
	}
	if len(t.Lines) > 0 {
		var sum int64
		for _, line := range t.Lines {
			sum += line.Amount
		}
		if sum != t.Total {
			return ErrLineSumMismatch
		}
	}
	if t.Total < 0 {
		return ErrNegativeTotal
	}
	return nil
}

// NormalizeSign rewrites the transaction so the stored total is positive:
// a negative total swaps source and destination and negates every line.
func (t *Transaction) NormalizeSign() {
	if t.Total >= 0 {
		return
	}
	t.Total = -t.Total
	t.SourceAccountID, t.DestinationAccountID = t.DestinationAccountID, t.SourceAccountID
	t.SourceAccount, t.DestinationAccount = t.DestinationAccount, t.SourceAccount
	for i := range t.Lines {
		t.Lines[i].Amount = -t.Lines[i].Amount
	}
}
