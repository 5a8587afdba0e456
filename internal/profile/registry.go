package profile

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// defaultCeiling is far beyond any realistic single statement transaction.
// Amounts above it are treated as fused reference-number artifacts.
var defaultCeiling = decimal.New(10_000_000, 0)

// Shared date grammars. Month alternation includes the Afrikaans names that
// appear on South African statements (Mei, Okt, Des, ...).
var (
	// No trailing boundary: mashed extractions fuse the next word straight
	// onto the year ("01/12/2025Cheque"), and a digit-to-letter transition
	// is not a word boundary.
	dateDMYSlash = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})`)
	dateYMDSlash = regexp.MustCompile(`\b(\d{4})/(\d{2})/(\d{2})\b`)
	dateYMDDash  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dateDayMonth = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(Jan(?:uarie|uary)?|Feb(?:ruarie|ruary)?|Ma(?:art|r(?:ch)?)|Apr(?:il)?|Mei|May|Jun(?:ie|e)?|Jul(?:ie|y)?|Aug(?:ustus|ust)?|Sep(?:tember)?|O(?:kt|ct)(?:ober)?|Nov(?:ember)?|De[sc](?:ember)?)\b(?:\s+(\d{4}))?`)
	// Standard Bank prints "MM DD" between the service fee and the balance.
	// The pair is deliberately loose; implausible matches are rejected by
	// date validation before a chunk boundary is committed.
	dateMonthDayPair = regexp.MustCompile(`\b(\d{2})\s+(\d{2})\b`)
)

// Shared money grammars. Digit runs are permissive on purpose; see
// MoneyGrammar.Pattern.
var (
	moneyDotDecimal   = regexp.MustCompile(`-?\d[\d ,]*\.\d{2}`)
	moneyCrDr         = regexp.MustCompile(`\d[\d,]*\.\d{2}(?:Cr|Dr)?`)
	moneyCommaDecimal = regexp.MustCompile(`\d[\d ]*,\d{2}-?`)
	moneyTrailing     = regexp.MustCompile(`\d[\d,]*\.\d{2}-?`)
	moneyRand         = regexp.MustCompile(`R?\s?-?\d[\d,]*\.\d{2}-?`)
	moneyGeneric      = regexp.MustCompile(`-?[R£$€]?\s?\d[\d ,]*[.,]\d{2}(?:Cr|Dr)?-?`)
)

var commonNoise = []string{
	"balance brought forward",
	"balance carried forward",
	"opening balance",
	"closing balance",
	"total paid in",
	"total paid out",
	"total payments",
	"total receipts",
	"statement period",
	"date description",
	"page ",
	"continued",
}

var registry = []*Profile{
	{
		Key:  "capitec",
		Bank: "Capitec",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Unique Document No\.?:`),
			regexp.MustCompile(`CAPITEC`),
		},
		Dates: []DateGrammar{
			{Pattern: dateDMYSlash, Layout: LayoutDayMonthYearSlash},
		},
		Money: MoneyGrammar{
			Pattern:         moneyDotDecimal,
			CurrencySymbols: []string{"R"},
		},
		Anchors: Anchors{
			AccountNumber: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Account\s*\n\s*(\d{10,})`),
				regexp.MustCompile(`\b(\d{10,11})\b`),
			},
			ClientName: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Main Account Statement\s*\n\s*((?:MR|MRS|MS|DR)\s+[A-Z][A-Z ]+)`),
				regexp.MustCompile(`\b((?:MR|MRS|MS|DR)\s+[A-Z]+\s+[A-Z]+)\b`),
			},
			StatementID: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Unique Document No\.?:\s*([a-f0-9-]+)`),
			},
			OpeningBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Opening Balance\D{0,10}?(-?\d[\d ,]*\.\d{2})`),
			},
			ClosingBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Closing Balance\D{0,10}?(-?\d[\d ,]*\.\d{2})`),
			},
			Period: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(\d{1,2}/\d{1,2}/\d{4})\s*(?:-|–|to)\s*(\d{1,2}/\d{1,2}/\d{4})`),
			},
		},
		SectionStart:  []string{"Transaction History"},
		SectionEnd:    []string{"* Includes VAT"},
		NoisePhrases:  commonNoise,
		DescNoise:     []string{"Transaction History"},
		AmountCeiling: defaultCeiling,
	},
	{
		Key:  "fnb",
		Bank: "FNB",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bBBST\d+`),
			regexp.MustCompile(`First National Bank`),
			regexp.MustCompile(`\bFNB\b`),
		},
		Dates: []DateGrammar{
			{Pattern: dateDayMonth, Layout: LayoutDayMonthName},
			{Pattern: dateYMDSlash, Layout: LayoutYearMonthDaySlash},
		},
		Money: MoneyGrammar{
			Pattern:         moneyCrDr,
			CreditSuffix:    "Cr",
			DebitSuffix:     "Dr",
			CurrencySymbols: []string{"R"},
		},
		Anchors: Anchors{
			AccountNumber: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Account\D*(\d{11})`),
				regexp.MustCompile(`\b(\d{11})\b`),
			},
			ClientName: []*regexp.Regexp{
				regexp.MustCompile(`\*([A-Z ().-]+(?:PROPERTIES|LIVING|TRADING|LTD|PTY)[A-Z ().-]*)`),
			},
			StatementID: []*regexp.Regexp{
				regexp.MustCompile(`(?i)BBST(\d+)`),
			},
			OpeningBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Opening Balance\D{0,10}?(\d[\d,]*\.\d{2})(Cr|Dr)?`),
			},
			ClosingBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Closing Balance\D{0,10}?(\d[\d,]*\.\d{2})(Cr|Dr)?`),
			},
			StatementDate: []*regexp.Regexp{
				regexp.MustCompile(`\b(20\d{2})/(\d{2})/\d{2}\b`),
			},
		},
		NoisePhrases: append([]string{
			"delivery method",
			"branch number",
		}, commonNoise...),
		DescNoise:     []string{},
		AmountCeiling: defaultCeiling,
	},
	{
		Key:  "absa",
		Bank: "ABSA",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bABSA\b`),
		},
		Dates: []DateGrammar{
			{Pattern: dateDMYSlash, Layout: LayoutDayMonthYearSlash},
		},
		Money: MoneyGrammar{
			Pattern:         moneyCommaDecimal,
			DecimalComma:    true,
			TrailingMinus:   true,
			CurrencySymbols: []string{"R"},
		},
		Anchors: Anchors{
			AccountNumber: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Account\D*?([\d-]{10,})`),
				regexp.MustCompile(`\b(\d{2}-\d{4}-\d{4})\b`),
			},
			ClientName: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(MR\s+[A-Z ]{2,30})`),
			},
			// "Balance Brought Forward" is often mashed directly onto the
			// number ("Forward0,00"), hence the non-greedy \D gap.
			OpeningBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Balance Brought Forward\D*?(\d[\d ]*,\d{2}-?)`),
			},
			ClosingBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?is)Charges\D*?Balance\s*(\d[\d ]*,\d{2}-?)`),
			},
		},
		NoisePhrases:  commonNoise,
		DescNoise:     []string{"Settlement"},
		AmountCeiling: defaultCeiling,
	},
	{
		Key:  "standardbank",
		Bank: "Standard Bank",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Standard Bank`),
		},
		Dates: []DateGrammar{
			{Pattern: dateMonthDayPair, Layout: LayoutMonthDayPair, Anywhere: true},
			{Pattern: dateDMYSlash, Layout: LayoutDayMonthYearSlash},
		},
		Money: MoneyGrammar{
			Pattern:         moneyTrailing,
			TrailingMinus:   true,
			CurrencySymbols: []string{"R"},
		},
		Anchors: Anchors{
			AccountNumber: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Account number\D*(\d{8,12})`),
			},
			ClientName: []*regexp.Regexp{
				regexp.MustCompile(`\b((?:Mr|Mrs|Ms|MR|MRS|MS)\s+[A-Z][A-Z ]+)\b`),
			},
			OpeningBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Balance Brought Forward\D{0,10}?(\d[\d,]*\.\d{2}-?)`),
				regexp.MustCompile(`(?i)Opening Balance\D{0,10}?(\d[\d,]*\.\d{2}-?)`),
			},
			ClosingBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Closing Balance\D{0,10}?(\d[\d,]*\.\d{2}-?)`),
			},
			Period: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Statement period\D{0,5}(\d{1,2}/\d{1,2}/\d{4})\s*(?:-|–|to)\s*(\d{1,2}/\d{1,2}/\d{4})`),
			},
		},
		SectionStart:  []string{"Details Service"},
		SectionEnd:    []string{"VAT Summary"},
		NoisePhrases:  commonNoise,
		DescNoise:     []string{"##"},
		AmountCeiling: defaultCeiling,
	},
	{
		Key:  "nedbank",
		Bank: "Nedbank",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Nedbank`),
		},
		Dates: []DateGrammar{
			{Pattern: dateYMDDash, Layout: LayoutYearMonthDayDash},
			{Pattern: dateDMYSlash, Layout: LayoutDayMonthYearSlash},
		},
		Money: MoneyGrammar{
			Pattern:         moneyRand,
			TrailingMinus:   true,
			CurrencySymbols: []string{"R"},
		},
		Anchors: Anchors{
			AccountNumber: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Account number\s*:?\s*(\d{8,12})`),
			},
			ClientName: []*regexp.Regexp{
				regexp.MustCompile(`\b((?:Mr|Mrs|Ms|MR|MRS|MS)\s+[A-Z][A-Z ]+)\b`),
			},
			StatementID: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Statement date:\s*([\d/-]+)`),
			},
			OpeningBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Opening balance\s*R?\s*(-?\d[\d,]*\.\d{2})`),
			},
			ClosingBalance: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Closing balance\s*R?\s*(-?\d[\d,]*\.\d{2})`),
			},
			Period: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Statement period:\s*([\d/-]+)\s*[–-]\s*([\d/-]+)`),
			},
		},
		NoisePhrases:  commonNoise,
		AmountCeiling: defaultCeiling,
	},
}

// generic is the fallback profile: union date grammar, permissive money
// grammar, minimal anchors. Selected only when no signature matches.
var generic = &Profile{
	Key:     "generic",
	Bank:    "Unknown",
	Generic: true,
	Dates: []DateGrammar{
		{Pattern: dateDMYSlash, Layout: LayoutDayMonthYearSlash},
		{Pattern: dateYMDDash, Layout: LayoutYearMonthDayDash},
		{Pattern: dateYMDSlash, Layout: LayoutYearMonthDaySlash},
		{Pattern: dateDayMonth, Layout: LayoutDayMonthName},
	},
	Money: MoneyGrammar{
		Pattern:         moneyGeneric,
		CreditSuffix:    "Cr",
		DebitSuffix:     "Dr",
		TrailingMinus:   true,
		CurrencySymbols: []string{"R", "£", "$", "€"},
	},
	Anchors: Anchors{
		AccountNumber: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Account(?: number| no\.?)?\s*:?\s*(\d{8,12})`),
		},
		ClientName: []*regexp.Regexp{
			regexp.MustCompile(`\b((?:MR|MRS|MS|DR|Mr|Mrs|Ms|Dr)\s+[A-Z][A-Z ]+)\b`),
		},
		OpeningBalance: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Opening Balance\D{0,10}?(-?\d[\d ,]*[.,]\d{2})`),
			regexp.MustCompile(`(?i)Balance Brought Forward\D{0,10}?(-?\d[\d ,]*[.,]\d{2})`),
		},
		ClosingBalance: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Closing Balance\D{0,10}?(-?\d[\d ,]*[.,]\d{2})`),
		},
	},
	NoisePhrases:  commonNoise,
	AmountCeiling: defaultCeiling,
}

// Registry returns the profiles in classification priority order, most
// distinctive signatures first. The slice and the profiles it points to are
// read-only shared state; callers must not mutate them.
func Registry() []*Profile {
	return registry
}

// Generic returns the fallback profile.
func Generic() *Profile {
	return generic
}

// ByKey returns the profile with the given key, or nil. The generic
// profile is addressable as "generic".
func ByKey(key string) *Profile {
	if key == generic.Key {
		return generic
	}
	for _, p := range registry {
		if p.Key == key {
			return p
		}
	}
	return nil
}
