package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

// Removal is by byte offset: an identical substring elsewhere in the body
// must survive when only the token's own span is cut.
func TestCleanDescription_RemovesByOffset(t *testing.T) {
	body := "150.00 Transfer 150.00"
	got := CleanDescription(body, []Cut{{Start: 16, End: 22}}, profile.Generic())
	assert.Equal(t, "150.00 Transfer", got)
}

func TestCleanDescription_InsertsReplacement(t *testing.T) {
	body := "Ref123456150.00 9,850.00Cr"
	cuts := []Cut{
		{Start: 3, End: 15, Repl: "123456"},
		{Start: 16, End: 26},
	}
	got := CleanDescription(body, cuts, profile.ByKey("fnb"))
	assert.Equal(t, "Ref123456", got)
}

func TestCleanDescription_SortsCuts(t *testing.T) {
	body := "a 1.00 b 2.00 c"
	cuts := []Cut{
		{Start: 9, End: 13},
		{Start: 2, End: 6},
	}
	got := CleanDescription(body, cuts, profile.Generic())
	assert.Equal(t, "a b c", got)
}

func TestCleanDescription_StripsNoisePhrases(t *testing.T) {
	body := "Transaction History 150.00"
	got := CleanDescription(body, []Cut{{Start: 20, End: 26}}, profile.ByKey("capitec"))
	assert.Equal(t, "Transaction", got)
}

func TestCleanDescription_EmptyGetsPlaceholder(t *testing.T) {
	assert.Equal(t, "Transaction", CleanDescription("", nil, profile.Generic()))
	assert.Equal(t, "Transaction", CleanDescription("  \n ", nil, profile.Generic()))
}

func TestCleanDescription_DoesNotMutateCuts(t *testing.T) {
	cuts := []Cut{
		{Start: 9, End: 13},
		{Start: 2, End: 6},
	}
	CleanDescription("a 1.00 b 2.00 c", cuts, profile.Generic())
	assert.Equal(t, []Cut{{Start: 9, End: 13}, {Start: 2, End: 6}}, cuts)
}

// Noise phrases match case-insensitively against the original bytes, so
// multibyte text around them survives untouched.
func TestCleanDescription_StripsNoiseCaseInsensitive(t *testing.T) {
	got := CleanDescription("Caffè TRANSACTION HISTORY ☕", nil, profile.ByKey("capitec"))
	assert.Equal(t, "Caffè ☕", got)
}

func TestCleanDescription_CollapsesWhitespace(t *testing.T) {
	body := "Grocery Store\nCard   Purchase"
	got := CleanDescription(body, nil, profile.Generic())
	assert.Equal(t, "Grocery Store Card Purchase", got)
}
