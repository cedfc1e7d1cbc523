package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySource identifies which pipeline stage assigned a transaction's
// category.
type CategorySource string

const (
	SourcePreset CategorySource = "preset" // category was set before the pipeline ran
	SourceCache  CategorySource = "cache"
	SourceRemote CategorySource = "remote"
	SourceRule   CategorySource = "rule"
)

// Transaction is a single bank-card transaction record. Negative amounts are
// expenses, positive amounts are income. The Category field is empty until
// the categorization pipeline assigns it.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    Category        `json:"category,omitempty"`
	Source      CategorySource  `json:"source,omitempty"`
}

// NewTransaction creates a transaction with a generated ID.
func NewTransaction(date time.Time, amount decimal.Decimal, description string) Transaction {
	return Transaction{
		ID:          uuid.New().String(),
		Date:        date,
		Amount:      amount,
		Description: description,
	}
}

// IsExpense reports whether the transaction is an outgoing amount.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the transaction is an incoming amount.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// AbsAmount returns the unsigned transaction amount.
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// MonthKey returns the transaction's month in "2006-01" form, the grouping
// key used by all monthly analytics.
func (t Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}

// IsCategorized reports whether a category has already been assigned.
func (t Transaction) IsCategorized() bool {
	return t.Category != ""
}
