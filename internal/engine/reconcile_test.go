package engine

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

func resolveBody(t *testing.T, r *Reconciler, p *profile.Profile, idx int, body string) Resolution {
	t.Helper()
	res, ok := r.Resolve(Chunk{Index: idx, Body: body}, ExtractFields(body, p.Money))
	require.True(t, ok)
	return res
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// The amount column is verified against the running-balance delta; the
// delta's sign is authoritative even when the text carries no marker.
func TestReconciler_VerifiesAmountAgainstDelta(t *testing.T) {
	p := profile.ByKey("capitec")
	opening := dec("10000")
	r := NewReconciler(p, &opening)

	res := resolveBody(t, r, p, 0, "Grocery Store Card Purchase 150.00 9 850.00")

	assert.True(t, res.Amount.Equal(dec("-150")), "amount %s", res.Amount)
	assert.True(t, res.Balance.Equal(dec("9850")), "balance %s", res.Balance)
	assert.Len(t, res.Cuts, 2)
	assert.Empty(t, res.Warnings)
}

func TestReconciler_CarriesRunningBalance(t *testing.T) {
	p := profile.ByKey("capitec")
	opening := dec("10000")
	r := NewReconciler(p, &opening)

	first := resolveBody(t, r, p, 0, "Grocery Store 150.00 9 850.00")
	second := resolveBody(t, r, p, 1, "Salary Payment 1 500.00 11 350.00")

	assert.True(t, first.Amount.Equal(dec("-150")))
	assert.True(t, second.Amount.Equal(dec("1500")), "amount %s", second.Amount)
	assert.Empty(t, second.Warnings)
}

// A reference number fused onto the amount during extraction is repaired
// when the expected amount survives as a digit suffix of the oversized
// token. The reference prefix is kept for the description.
func TestReconciler_RecoversMergedReference(t *testing.T) {
	p := profile.ByKey("fnb")
	opening := dec("9700")
	r := NewReconciler(p, &opening)

	body := "Ref123456150.00 9,850.00Cr"
	res := resolveBody(t, r, p, 0, body)

	assert.True(t, res.Amount.Equal(dec("150")), "amount %s", res.Amount)
	assert.True(t, res.Balance.Equal(dec("9850")))
	assert.Empty(t, res.Warnings)

	var repl string
	for _, cut := range res.Cuts {
		if cut.Repl != "" {
			repl = cut.Repl
		}
	}
	assert.Equal(t, "123456", repl)
	assert.Equal(t, "Ref123456", CleanDescription(body, res.Cuts, p))
}

// FNB appends an optional fee column after the balance. The fee must not
// be mistaken for the balance when its left neighbour reconciles.
func TestReconciler_TrailingFeeColumn(t *testing.T) {
	p := profile.ByKey("fnb")
	opening := dec("10000")
	r := NewReconciler(p, &opening)

	body := "POS Purchase 150.00Dr 9,850.00Cr 5.00"
	res := resolveBody(t, r, p, 0, body)

	assert.True(t, res.Amount.Equal(dec("-150")), "amount %s", res.Amount)
	assert.True(t, res.Balance.Equal(dec("9850")), "balance %s", res.Balance)
	assert.Empty(t, res.Warnings)
	assert.Len(t, res.Cuts, 3)
	assert.Equal(t, "POS Purchase", CleanDescription(body, res.Cuts, p))

	// The running balance carried forward is the real balance, not the fee.
	next := resolveBody(t, r, p, 1, "Client Deposit 1,500.00Cr 11,350.00Cr")
	assert.True(t, next.Amount.Equal(dec("1500")))
	assert.Empty(t, next.Warnings)
}

// Explicit Cr/Dr markers are advisory; verified balance arithmetic wins.
func TestReconciler_ArithmeticOverridesMarkers(t *testing.T) {
	p := profile.ByKey("fnb")
	opening := dec("10000")
	r := NewReconciler(p, &opening)

	res := resolveBody(t, r, p, 0, "POS Purchase 150.00Cr 9,850.00Cr")

	assert.True(t, res.Amount.Equal(dec("-150")), "amount %s", res.Amount)
	assert.Empty(t, res.Warnings)
}

// An amount that fails every verification step is accepted at face value
// with a warning instead of being dropped.
func TestReconciler_AcceptsUnverifiedWithWarning(t *testing.T) {
	p := profile.ByKey("fnb")
	opening := dec("10000")
	r := NewReconciler(p, &opening)

	res := resolveBody(t, r, p, 3, "Mystery Fee 999.00 9,850.00")

	assert.True(t, res.Amount.Equal(dec("999")), "amount %s", res.Amount)
	assert.True(t, res.Balance.Equal(dec("9850")))
	require.Len(t, res.Warnings, 1)
	assert.True(t, strings.HasPrefix(res.Warnings[0], WarnReconciliationMismatch))
}

// Rows printing only the balance carry the whole movement as the amount.
func TestReconciler_BalanceOnlyRow(t *testing.T) {
	p := profile.ByKey("capitec")
	opening := dec("10000")
	r := NewReconciler(p, &opening)

	res := resolveBody(t, r, p, 0, "Interest Capitalised 10 050.00")

	assert.True(t, res.Amount.Equal(dec("50")), "amount %s", res.Amount)
	assert.True(t, res.Balance.Equal(dec("10050")))
	assert.Len(t, res.Cuts, 1)
	assert.Empty(t, res.Warnings)
}

// Without an opening balance the first row takes its own sign marker;
// every later row is verified against the balance it established.
func TestReconciler_FaceValueWithoutOpening(t *testing.T) {
	p := profile.ByKey("capitec")
	r := NewReconciler(p, nil)

	first := resolveBody(t, r, p, 0, "Card Purchase -150.00 9 850.00")
	second := resolveBody(t, r, p, 1, "Deposit 1 500.00 11 350.00")

	assert.True(t, first.Amount.Equal(dec("-150")))
	assert.True(t, second.Amount.Equal(dec("1500")))
	assert.Empty(t, second.Warnings)
}

func TestReconciler_LoneTokenWithoutRunningWarns(t *testing.T) {
	p := profile.ByKey("capitec")
	r := NewReconciler(p, nil)

	res := resolveBody(t, r, p, 0, "Balance 9 850.00")

	assert.True(t, res.Amount.IsZero())
	assert.True(t, res.Balance.Equal(dec("9850")))
	require.Len(t, res.Warnings, 1)
	assert.True(t, strings.HasPrefix(res.Warnings[0], WarnReconciliationMismatch))
}

func TestReconciler_NoTokens(t *testing.T) {
	p := profile.ByKey("capitec")
	r := NewReconciler(p, nil)

	_, ok := r.Resolve(Chunk{Index: 0, Body: "no money here"}, nil)
	assert.False(t, ok)
}
