package engine

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

const capitecSection = `CAPITEC BANK LIMITED
Transaction History
01/12/2025 Grocery Store
Card Purchase 150.00 9 850.00
Page 2
05/12/2025 Salary Payment 1 500.00 11 350.00
07/12/2025 Closing Balance 11 350.00
* Includes VAT
Marketing footer`

func TestSegment_LineScan(t *testing.T) {
	p := profile.ByKey("capitec")
	res := Segment(capitecSection, p)

	require.Len(t, res.Chunks, 2)
	require.Len(t, res.Dropped, 1)

	assert.Equal(t, "01/12/2025", res.Chunks[0].DateToken)
	assert.Equal(t, "Grocery Store\nCard Purchase 150.00 9 850.00", res.Chunks[0].Body)
	assert.Equal(t, 0, res.Chunks[0].Index)

	assert.Equal(t, "05/12/2025", res.Chunks[1].DateToken)
	assert.Equal(t, "Salary Payment 1 500.00 11 350.00", res.Chunks[1].Body)
	assert.Equal(t, 1, res.Chunks[1].Index)

	assert.Contains(t, res.Dropped[0].Body, "Closing Balance")
}

func TestSegment_SectionBounds(t *testing.T) {
	p := profile.ByKey("capitec")
	res := Segment(capitecSection, p)

	assert.NotContains(t, res.Section, "Transaction History")
	assert.NotContains(t, res.Section, "* Includes VAT")
	assert.NotContains(t, res.Section, "Marketing footer")
	assert.Equal(t, res.Section,
		capitecSection[res.SectionOffset:res.SectionOffset+len(res.Section)])
}

// Emitted and dropped chunks together must tile the section from the
// first anchor to the section end, with no gaps between spans.
func TestSegment_Completeness(t *testing.T) {
	p := profile.ByKey("capitec")
	res := Segment(capitecSection, p)

	spans := append([]Chunk{}, res.Chunks...)
	spans = append(spans, res.Dropped...)
	require.NotEmpty(t, spans)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	for i := 1; i < len(spans); i++ {
		assert.Equal(t, spans[i-1].End, spans[i].Start,
			"gap between span %d and %d", i-1, i)
	}
	assert.Equal(t, len(res.Section), spans[len(spans)-1].End)
}

// Noise lines between two anchor lines must not leak into the enclosing
// chunk's body.
func TestSegment_SkipsNoiseContinuations(t *testing.T) {
	p := profile.ByKey("capitec")
	res := Segment(capitecSection, p)

	require.Len(t, res.Chunks, 2)
	assert.NotContains(t, res.Chunks[0].Body, "Page 2")
}

// Standard Bank puts the date pair mid-line between description and
// amounts. The date is excised from the body, the leading columns stay.
func TestSegment_MidlineDateAnchor(t *testing.T) {
	text := `Standard Bank of South Africa
Details Service
IB PAYMENT FROM SETTLEMENT 12 05 1,500.00 9,850.00
FIXED MONTHLY FEE 12 06 50.00- 9,800.00
VAT Summary`

	p := profile.ByKey("standardbank")
	res := Segment(text, p)

	require.Len(t, res.Chunks, 2)
	assert.Equal(t, "12 05", res.Chunks[0].DateToken)
	assert.Contains(t, res.Chunks[0].Body, "IB PAYMENT FROM SETTLEMENT")
	assert.Contains(t, res.Chunks[0].Body, "1,500.00 9,850.00")
	assert.NotContains(t, res.Chunks[0].Body, "12 05")

	assert.Equal(t, "12 06", res.Chunks[1].DateToken)
	assert.Contains(t, res.Chunks[1].Body, "FIXED MONTHLY FEE")
}

// Some extractions arrive as one mashed line with no usable breaks; the
// flat scan splits on date occurrences instead.
func TestSegment_FlatFallback(t *testing.T) {
	text := "ABSA Bank Cheque Account Statement 01/12/2025Cheque Card Purchase1 234,56-9 876,54 02/12/2025Deposit500,009 376,54"

	p := profile.ByKey("absa")
	res := Segment(text, p)

	require.Len(t, res.Chunks, 2)
	assert.Equal(t, "01/12/2025", res.Chunks[0].DateToken)
	assert.Contains(t, res.Chunks[0].Body, "Cheque Card Purchase")
	assert.Equal(t, "02/12/2025", res.Chunks[1].DateToken)
	assert.True(t, strings.HasPrefix(res.Chunks[1].Body, "Deposit"))
}

func TestSegment_NoMarkersScansWholeDocument(t *testing.T) {
	text := "First National Bank\n20 Jan POS Purchase 150.00Dr 9,850.00Cr\n"
	p := profile.ByKey("fnb")
	res := Segment(text, p)

	assert.Equal(t, 0, res.SectionOffset)
	require.Len(t, res.Chunks, 1)
	assert.Equal(t, "20 Jan", res.Chunks[0].DateToken)
}
