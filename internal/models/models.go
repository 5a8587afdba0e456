package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Unknown is the sentinel used for metadata fields that could not be
// extracted. Callers get an explicit marker instead of an empty string.
const Unknown = "Unknown"

// Date is a plain calendar date. Bank statements carry no timezone, so a
// time.Time would only invite off-by-one bugs around midnight conversions.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String renders the date as ISO YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Slash renders the date as DD/MM/YYYY, the layout used in the CSV output.
func (d Date) Slash() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// SignHint records any explicit direction marker attached to a money token
// in the source text (leading/trailing minus, Cr/Dr suffix). Balance
// arithmetic may override it during reconciliation.
type SignHint int

const (
	SignNone SignHint = iota
	SignCredit
	SignDebit
)

func (s SignHint) String() string {
	switch s {
	case SignCredit:
		return "credit"
	case SignDebit:
		return "debit"
	default:
		return "none"
	}
}

// MoneyToken is one monetary substring found in a chunk body, with its
// byte offsets so the description cleaner can remove exactly this
// occurrence and not an identical substring elsewhere.
type MoneyToken struct {
	Raw   string
	Value decimal.Decimal
	Sign  SignHint
	Start int
	End   int
}

// Transaction is one reconciled statement entry.
type Transaction struct {
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Account     string          `json:"account"`
	ClientName  string          `json:"clientName"`
	Bank        string          `json:"bankName"`
	SourceFile  string          `json:"sourceFile"`
}

// StatementMetadata holds the header fields of one statement. Optional
// balances are nil when no anchor matched; string fields fall back to the
// Unknown sentinel.
type StatementMetadata struct {
	AccountNumber  string           `json:"accountNumber"`
	ClientName     string           `json:"clientName"`
	StatementID    string           `json:"statementId"`
	Bank           string           `json:"bankName"`
	OpeningBalance *decimal.Decimal `json:"openingBalance,omitempty"`
	ClosingBalance *decimal.Decimal `json:"closingBalance,omitempty"`
	PeriodStart    Date             `json:"periodStart,omitempty"`
	PeriodEnd      Date             `json:"periodEnd,omitempty"`
}

// ReconciliationReport summarizes ledger validation for one parse.
type ReconciliationReport struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
}

// ParseResult is the complete output of one statement parse.
type ParseResult struct {
	Metadata     StatementMetadata    `json:"metadata"`
	Transactions []Transaction        `json:"transactions"`
	Warnings     []string             `json:"warnings"`
	Report       ReconciliationReport `json:"report"`
}
