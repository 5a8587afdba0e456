package engine

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

// tolerance absorbs rounding noise in balance arithmetic: discrepancies
// strictly below 0.02 currency units pass, 0.02 and above are violations.
var tolerance = decimal.New(2, -2)

// NormalizeMoney converts one raw money token into a signed decimal plus
// the explicit direction marker the text carried, if any. The sign hint is
// advisory: balance arithmetic overrides it during reconciliation.
func NormalizeMoney(raw string, g profile.MoneyGrammar) (decimal.Decimal, models.SignHint, error) {
	s := strings.TrimSpace(raw)
	hint := models.SignNone
	neg := false

	if g.CreditSuffix != "" && strings.HasSuffix(s, g.CreditSuffix) {
		s = strings.TrimSuffix(s, g.CreditSuffix)
		hint = models.SignCredit
	} else if g.DebitSuffix != "" && strings.HasSuffix(s, g.DebitSuffix) {
		s = strings.TrimSuffix(s, g.DebitSuffix)
		hint = models.SignDebit
		neg = true
	}

	if g.TrailingMinus && strings.HasSuffix(s, "-") {
		s = strings.TrimSuffix(s, "-")
		hint = models.SignDebit
		neg = true
	}
	if strings.HasPrefix(s, "-") {
		s = strings.TrimPrefix(s, "-")
		hint = models.SignDebit
		neg = true
	}

	for _, sym := range g.CurrencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, "\u00A0", "")
	s = strings.ReplaceAll(s, " ", "")

	if g.DecimalComma {
		// ABSA style: spaces were the thousands separator, comma is the
		// decimal point.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, models.SignNone, errors.Wrapf(err, "money token %q", raw)
	}
	if neg {
		d = d.Neg()
	}
	return d, hint, nil
}

// digitString reduces a raw money token to its bare digit run, dropping
// separators, symbols and sign markers. Used by the merged-digit recovery
// to test whether an expected amount appears as a suffix of an oversized
// token.
func digitString(raw string, g profile.MoneyGrammar) string {
	s := strings.TrimSpace(raw)
	if g.CreditSuffix != "" {
		s = strings.TrimSuffix(s, g.CreditSuffix)
	}
	if g.DebitSuffix != "" {
		s = strings.TrimSuffix(s, g.DebitSuffix)
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
