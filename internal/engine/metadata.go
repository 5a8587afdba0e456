package engine

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

// ExtractMetadata pulls the statement header fields through the profile's
// anchor patterns. Each field tries its anchors in order and takes the
// first hit; a field with no hit gets the Unknown sentinel (or nil for
// balances) plus a warning. Metadata gaps never fail the parse.
//
// The returned DateContext carries the statement year and month (zero when
// unknown) for the date normalizer: period anchors first, then the header
// statement date. FNB prints yearless transaction dates, so the header
// month also drives the December-on-a-January-statement rollover.
func ExtractMetadata(text string, p *profile.Profile) (models.StatementMetadata, DateContext, []string) {
	md := models.StatementMetadata{
		AccountNumber: models.Unknown,
		ClientName:    models.Unknown,
		StatementID:   models.Unknown,
		Bank:          p.Bank,
	}
	var warnings []string

	if v := firstCapture(text, p.Anchors.AccountNumber); v != "" {
		md.AccountNumber = strings.TrimSpace(v)
	} else {
		warnings = append(warnings, WarnMetadataFieldMissing+": accountNumber")
	}

	if v := firstCapture(text, p.Anchors.ClientName); v != "" {
		md.ClientName = strings.TrimSpace(v)
	} else {
		warnings = append(warnings, WarnMetadataFieldMissing+": clientName")
	}

	if v := firstCapture(text, p.Anchors.StatementID); v != "" {
		md.StatementID = strings.TrimSpace(v)
	} else {
		warnings = append(warnings, WarnMetadataFieldMissing+": statementId")
	}

	if d, ok := balanceAnchor(text, p.Anchors.OpeningBalance, p.Money); ok {
		md.OpeningBalance = &d
	} else {
		warnings = append(warnings, WarnMetadataFieldMissing+": openingBalance")
	}

	if d, ok := balanceAnchor(text, p.Anchors.ClosingBalance, p.Money); ok {
		md.ClosingBalance = &d
	} else {
		warnings = append(warnings, WarnMetadataFieldMissing+": closingBalance")
	}

	for _, re := range p.Anchors.Period {
		if m := re.FindStringSubmatch(text); len(m) >= 3 {
			md.PeriodStart = looseDate(m[1], p)
			md.PeriodEnd = looseDate(m[2], p)
			break
		}
	}

	ctx := DateContext{
		Year:  md.PeriodStart.Year,
		Month: md.PeriodEnd.Month,
	}
	if ctx.Month == 0 {
		ctx.Month = md.PeriodStart.Month
	}
	if ctx.Year == 0 {
		for _, re := range p.Anchors.StatementDate {
			m := re.FindStringSubmatch(text)
			if len(m) < 2 || m[1] == "" {
				continue
			}
			ctx.Year = atoi(m[1])
			if len(m) >= 3 && m[2] != "" {
				ctx.Month = atoi(m[2])
			}
			break
		}
	}

	return md, ctx, warnings
}

// firstCapture returns the first capture group of the first matching
// pattern, or "".
func firstCapture(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); len(m) >= 2 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// balanceAnchor finds a balance via the anchor list and normalizes it.
// Anchors may capture a trailing sign marker in a second group (FNB's
// Cr/Dr); the groups are concatenated before normalization.
func balanceAnchor(text string, patterns []*regexp.Regexp, g profile.MoneyGrammar) (decimal.Decimal, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		raw := strings.Join(m[1:], "")
		d, _, err := NormalizeMoney(raw, g)
		if err != nil {
			continue
		}
		return d, true
	}
	return decimal.Zero, false
}

// looseDate parses a period boundary with any of the profile's grammars,
// falling back to zero when nothing fits. Period anchors capture dates in
// formats that can differ from transaction dates, so this stays lenient.
func looseDate(token string, p *profile.Profile) models.Date {
	for _, g := range p.Dates {
		if g.Pattern.MatchString(token) {
			if d, err := NormalizeDate(token, g, DateContext{}); err == nil {
				return d
			}
		}
	}
	for _, g := range profile.Generic().Dates {
		if g.Pattern.MatchString(token) {
			if d, err := NormalizeDate(token, g, DateContext{}); err == nil {
				return d
			}
		}
	}
	return models.Date{}
}
