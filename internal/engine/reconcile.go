package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

// Reconciler decides, for each chunk, which money token is the balance,
// which is the amount, and what sign the amount carries. It carries the
// running balance forward between chunks, which makes it inherently
// sequential: chunks must be resolved strictly in document order.
//
// Sign policy: when balance arithmetic can be verified, it overrides any
// explicit Cr/Dr or minus marker in the text. The markers are applied
// inconsistently across statement layouts; the arithmetic is not.
type Reconciler struct {
	prof    *profile.Profile
	running *decimal.Decimal
}

// NewReconciler starts a reconciliation pass. opening seeds the running
// balance and may be nil when the opening balance was not extracted.
func NewReconciler(p *profile.Profile, opening *decimal.Decimal) *Reconciler {
	r := &Reconciler{prof: p}
	if opening != nil {
		v := *opening
		r.running = &v
	}
	return r
}

// Resolution is the settled view of one chunk.
type Resolution struct {
	Amount  decimal.Decimal
	Balance decimal.Decimal
	// Cuts are the body spans consumed as amount/balance, for removal by
	// the description cleaner. A repaired merged token carries its
	// reference-number prefix as the replacement text.
	Cuts     []Cut
	Warnings []string
}

// Cut is a body span to excise, optionally substituted with Repl.
type Cut struct {
	Start, End int
	Repl       string
}

// Resolve settles one chunk from its ordered money tokens. ok is false
// when the chunk has no tokens at all and yields no transaction.
func (r *Reconciler) Resolve(c Chunk, tokens []models.MoneyToken) (Resolution, bool) {
	if len(tokens) == 0 {
		return Resolution{}, false
	}

	var res Resolution

	// Column convention: balance is the last token, amount the one before
	// it. Every supported layout prints the balance rightmost, except that
	// FNB may append a fee column after the balance. When the rightmost
	// token cannot be reconciled as a balance but its left neighbour can,
	// the rightmost token is the fee.
	balIdx := len(tokens) - 1
	if r.running != nil && balIdx >= 2 {
		expected := tokens[balIdx].Value.Sub(*r.running)
		if matchIndex(tokens[:balIdx], expected) < 0 {
			altExpected := tokens[balIdx-1].Value.Sub(*r.running)
			if matchIndex(tokens[:balIdx-1], altExpected) >= 0 {
				fee := tokens[balIdx]
				res.Cuts = append(res.Cuts, Cut{Start: fee.Start, End: fee.End})
				balIdx--
			}
		}
	}

	balTok := tokens[balIdx]
	balance := balTok.Value
	candidates := tokens[:balIdx]

	res.Balance = balance
	res.Cuts = append(res.Cuts, Cut{Start: balTok.Start, End: balTok.End})

	switch {
	case r.running != nil:
		expected := balance.Sub(*r.running)
		r.resolveWithDelta(c, candidates, expected, &res)
	case len(candidates) > 0:
		// No prior balance to verify against: take the conventional
		// amount at face value, signed by its own marker.
		amtTok := candidates[len(candidates)-1]
		res.Amount = applyHint(amtTok)
		res.Cuts = append(res.Cuts, Cut{Start: amtTok.Start, End: amtTok.End})
	default:
		// A lone balance with nothing to diff against. Emit a zero-amount
		// entry rather than silently dropping a row.
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%s: chunk %d has a single money token and no prior balance; amount unknown",
			WarnReconciliationMismatch, c.Index))
	}

	r.running = &balance
	return res, true
}

// resolveWithDelta applies decision steps 2-4: balance-delta verification,
// merged-digit recovery, then warn-and-accept fallback.
func (r *Reconciler) resolveWithDelta(c Chunk, candidates []models.MoneyToken, expected decimal.Decimal, res *Resolution) {
	// Step 2: if any candidate magnitude matches |expected| within
	// tolerance, that token is the amount and the delta's sign is
	// authoritative.
	if i := matchIndex(candidates, expected); i >= 0 {
		t := candidates[i]
		res.Amount = expected
		res.Cuts = append(res.Cuts, Cut{Start: t.Start, End: t.End})
		return
	}

	if len(candidates) == 0 {
		// Balance-only row (Capitec prints many): the whole movement is
		// the delta.
		res.Amount = expected
		return
	}

	// Step 3: merged-digit recovery. A reference number fused onto the
	// amount during extraction leaves the true amount as a digit suffix of
	// an oversized token.
	amtTok := candidates[len(candidates)-1]
	oversized := amtTok.Value.Abs().GreaterThan(r.prof.AmountCeiling)
	if oversized || amtTok.Value.Abs().Sub(expected.Abs()).Abs().GreaterThanOrEqual(tolerance) {
		want := strings.Map(keepDigits, expected.Abs().StringFixed(2))
		got := digitString(amtTok.Raw, r.prof.Money)
		if len(got) > len(want) && strings.HasSuffix(got, want) && !expected.IsZero() {
			res.Amount = expected
			res.Cuts = append(res.Cuts, Cut{
				Start: amtTok.Start,
				End:   amtTok.End,
				Repl:  got[:len(got)-len(want)],
			})
			return
		}
	}

	// Step 4: nothing verified. Accept the conventional amount at face
	// value and flag it; silently dropping a financial transaction is
	// worse than reporting a suspect one.
	res.Amount = applyHint(amtTok)
	res.Cuts = append(res.Cuts, Cut{Start: amtTok.Start, End: amtTok.End})
	res.Warnings = append(res.Warnings, fmt.Sprintf(
		"%s: chunk %d amount %s does not reconcile with balance movement %s",
		WarnReconciliationMismatch, c.Index, res.Amount.StringFixed(2), expected.StringFixed(2)))
}

// matchIndex returns the rightmost candidate whose magnitude matches
// |expected| within tolerance, or -1. Right to left because the amount
// column sits next to the balance.
func matchIndex(candidates []models.MoneyToken, expected decimal.Decimal) int {
	for i := len(candidates) - 1; i >= 0; i-- {
		if candidates[i].Value.Abs().Sub(expected.Abs()).Abs().LessThan(tolerance) {
			return i
		}
	}
	return -1
}

// applyHint signs a face-value amount by its explicit marker.
func applyHint(t models.MoneyToken) decimal.Decimal {
	switch t.Sign {
	case models.SignCredit:
		return t.Value.Abs()
	case models.SignDebit:
		return t.Value.Abs().Neg()
	default:
		return t.Value
	}
}

func keepDigits(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}
