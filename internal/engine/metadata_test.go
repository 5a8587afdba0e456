package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

const capitecHeader = `CAPITEC BANK LIMITED
Main Account Statement
MR J SMITH
Account
1234567890
Unique Document No.: ab12cd34-5678-90ef
Opening Balance: 10 000.00
Closing Balance: 11 350.00
`

func TestExtractMetadata_Capitec(t *testing.T) {
	p := profile.ByKey("capitec")
	md, _, warnings := ExtractMetadata(capitecHeader, p)

	assert.Equal(t, "1234567890", md.AccountNumber)
	assert.Equal(t, "MR J SMITH", md.ClientName)
	assert.Equal(t, "ab12cd34-5678-90ef", md.StatementID)
	assert.Equal(t, "Capitec", md.Bank)

	require.NotNil(t, md.OpeningBalance)
	assert.Equal(t, "10000.00", md.OpeningBalance.StringFixed(2))
	require.NotNil(t, md.ClosingBalance)
	assert.Equal(t, "11350.00", md.ClosingBalance.StringFixed(2))
	assert.Empty(t, warnings)
}

func TestExtractMetadata_FNB(t *testing.T) {
	text := `First National Bank
Statement BBST12345
*ACME TRADING (PTY) LTD
Account: 62123456789
Statement Date: 2025/01/20
`
	p := profile.ByKey("fnb")
	md, ctx, _ := ExtractMetadata(text, p)

	assert.Equal(t, "62123456789", md.AccountNumber)
	assert.Equal(t, "12345", md.StatementID)
	assert.Contains(t, md.ClientName, "ACME TRADING")
	// Year and month both come from the header date; the month drives the
	// December-on-a-January-statement rollover for yearless rows.
	assert.Equal(t, 2025, ctx.Year)
	assert.Equal(t, 1, ctx.Month)
}

// Missing fields degrade to sentinels plus one warning each; extraction
// never fails the parse.
func TestExtractMetadata_MissingFieldsGetSentinels(t *testing.T) {
	p := profile.ByKey("capitec")
	md, _, warnings := ExtractMetadata("CAPITEC\nnothing useful here", p)

	assert.Equal(t, models.Unknown, md.AccountNumber)
	assert.Equal(t, models.Unknown, md.ClientName)
	assert.Equal(t, models.Unknown, md.StatementID)
	assert.Nil(t, md.OpeningBalance)
	assert.Nil(t, md.ClosingBalance)

	missing := 0
	for _, w := range warnings {
		if strings.HasPrefix(w, WarnMetadataFieldMissing) {
			missing++
		}
	}
	assert.Equal(t, 5, missing)
}

func TestExtractMetadata_Period(t *testing.T) {
	text := "Nedbank\nStatement period: 01/01/2025 - 31/01/2025\nAccount number: 123456789\n"
	p := profile.ByKey("nedbank")
	md, ctx, _ := ExtractMetadata(text, p)

	assert.Equal(t, models.Date{Year: 2025, Month: 1, Day: 1}, md.PeriodStart)
	assert.Equal(t, models.Date{Year: 2025, Month: 1, Day: 31}, md.PeriodEnd)
	assert.Equal(t, 2025, ctx.Year)
	assert.Equal(t, 1, ctx.Month)
}
