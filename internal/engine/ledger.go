package engine

import (
	"fmt"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
)

// ValidateLedger walks the final transaction list and checks balance
// continuity between every adjacent pair. It never reorders, drops or
// mutates transactions; violations become human-readable warnings so the
// caller can decide how much to trust the extraction.
func ValidateLedger(txns []models.Transaction) models.ReconciliationReport {
	var warnings []string
	for i := 1; i < len(txns); i++ {
		prev, curr := txns[i-1], txns[i]
		want := prev.Balance.Add(curr.Amount)
		if want.Sub(curr.Balance).Abs().GreaterThanOrEqual(tolerance) {
			warnings = append(warnings, fmt.Sprintf(
				"%s: entry %d (%s): %s + %s = %s but statement shows %s",
				WarnReconciliationMismatch, i, curr.Date,
				prev.Balance.StringFixed(2), curr.Amount.StringFixed(2),
				want.StringFixed(2), curr.Balance.StringFixed(2)))
		}
	}
	return models.ReconciliationReport{
		Valid:    len(warnings) == 0,
		Warnings: warnings,
	}
}
