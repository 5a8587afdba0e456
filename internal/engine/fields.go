package engine

import (
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

// ExtractFields scans a chunk body for every money-token occurrence and
// returns them in left-to-right order with their byte offsets. Tokens the
// normalizer cannot parse are skipped rather than failing the chunk.
func ExtractFields(body string, g profile.MoneyGrammar) []models.MoneyToken {
	var tokens []models.MoneyToken
	for _, loc := range g.Pattern.FindAllStringIndex(body, -1) {
		raw := body[loc[0]:loc[1]]
		value, sign, err := NormalizeMoney(raw, g)
		if err != nil {
			continue
		}
		tokens = append(tokens, models.MoneyToken{
			Raw:   raw,
			Value: value,
			Sign:  sign,
			Start: loc[0],
			End:   loc[1],
		})
	}
	return tokens
}
