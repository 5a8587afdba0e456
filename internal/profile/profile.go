// Package profile declares the per-institution statement grammars. A
// profile is pure data: signature patterns, date and money token grammars,
// metadata anchors and noise phrases. The engine never branches on the
// bank name; supporting a new institution means registering a new profile
// here, not touching engine code.
package profile

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// DateLayout identifies how a matched date token is laid out, so the
// normalizer knows which capture groups hold day, month and year.
type DateLayout int

const (
	// LayoutDayMonthYearSlash matches 01/12/2025 (day first, UK/ZA style).
	LayoutDayMonthYearSlash DateLayout = iota
	// LayoutYearMonthDaySlash matches 2025/12/01 (FNB header style).
	LayoutYearMonthDaySlash
	// LayoutYearMonthDayDash matches 2025-12-01.
	LayoutYearMonthDayDash
	// LayoutDayMonthName matches "1 Des 2025" or "1 Des" with the year
	// supplied by statement context when absent.
	LayoutDayMonthName
	// LayoutMonthDayPair matches the bare "MM DD" column pair used by
	// Standard Bank statement tables.
	LayoutMonthDayPair
)

// DateGrammar is one way an institution writes transaction dates.
type DateGrammar struct {
	Pattern *regexp.Regexp
	Layout  DateLayout
	// Anywhere allows the token to anchor a chunk from mid-line. Column
	// layouts that put the date between amount and balance need this;
	// everything else requires the date near the start of a line.
	Anywhere bool
}

// MoneyGrammar describes how an institution writes monetary values.
type MoneyGrammar struct {
	// Pattern matches one money token including any sign or suffix.
	// Deliberately permissive about digit runs: extraction artifacts fuse
	// reference numbers onto amounts, and the reconciler needs to see the
	// fused token to repair it.
	Pattern *regexp.Regexp
	// DecimalComma is true when "," is the decimal separator (ABSA).
	DecimalComma bool
	// TrailingMinus is true when debits are written as "100,00-".
	TrailingMinus bool
	// CreditSuffix / DebitSuffix are literal direction markers appended to
	// amounts ("Cr"/"Dr" at FNB). Empty when the bank does not use them.
	CreditSuffix string
	DebitSuffix  string
	// CurrencySymbols are stripped before numeric parsing.
	CurrencySymbols []string
}

// Anchors are the ordered metadata extraction patterns. The first pattern
// whose capture group matches wins; an empty list or no match yields the
// Unknown sentinel.
type Anchors struct {
	AccountNumber  []*regexp.Regexp
	ClientName     []*regexp.Regexp
	StatementID    []*regexp.Regexp
	OpeningBalance []*regexp.Regexp
	ClosingBalance []*regexp.Regexp
	// Period captures the statement period start and end in groups 1 and 2.
	Period []*regexp.Regexp
	// StatementDate captures a four-digit year (group 1) and optionally a
	// month (group 2) from the statement header, used to complete yearless
	// transaction dates.
	StatementDate []*regexp.Regexp
}

// Profile is one institution's complete statement grammar.
type Profile struct {
	// Key is the short machine identifier ("capitec", "fnb", ...).
	Key string
	// Bank is the display name carried onto transactions.
	Bank string
	// Signatures identify the institution from raw text. The registry is
	// ordered most-distinctive-first, so a literal document-ID pattern in
	// one profile beats a generic bank-name substring in another.
	Signatures []*regexp.Regexp
	Dates      []DateGrammar
	Money      MoneyGrammar
	Anchors    Anchors
	// SectionStart / SectionEnd are literal markers bounding the
	// transaction table. Empty means the whole document is scanned.
	SectionStart []string
	SectionEnd   []string
	// NoisePhrases drop a whole chunk (banners, footers, table headers).
	NoisePhrases []string
	// DescNoise phrases are stripped from the final narrative only.
	DescNoise []string
	// AmountCeiling flags implausibly large amounts, the symptom of a
	// reference number fused onto an amount during extraction.
	AmountCeiling decimal.Decimal
	// Generic marks the fallback profile used when no signature matches.
	Generic bool
}

// Matches reports whether any signature pattern matches the text.
func (p *Profile) Matches(text string) bool {
	for _, sig := range p.Signatures {
		if sig.MatchString(text) {
			return true
		}
	}
	return false
}
