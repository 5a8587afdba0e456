package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"capitec by name", "CAPITEC BANK LIMITED\nMain Account Statement", "capitec"},
		{"capitec by document id", "Some statement\nUnique Document No.: ab12cd34", "capitec"},
		{"fnb by name", "First National Bank\nCheque Account", "fnb"},
		{"fnb by statement id", "Statement BBST98765\nCheque Account", "fnb"},
		{"absa", "ABSA Bank Cheque Account Statement", "absa"},
		{"standard bank", "Standard Bank of South Africa", "standardbank"},
		{"nedbank", "Nedbank Current Account", "nedbank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, warnings := Classify(tt.text)
			assert.Equal(t, tt.want, p.Key)
			assert.Empty(t, warnings)
		})
	}
}

func TestClassify_FallsBackToGeneric(t *testing.T) {
	p, warnings := Classify("Some Unknown Bank\nStatement of Account")
	assert.True(t, p.Generic)
	require.Len(t, warnings, 1)
	assert.True(t, strings.HasPrefix(warnings[0], WarnFormatUnrecognized))
}

// A document-ID literal in a higher-priority profile must beat a bank-name
// substring further down the registry.
func TestClassify_PriorityOrder(t *testing.T) {
	text := "Nedbank something\nUnique Document No.: ab12cd34"
	p, _ := Classify(text)
	assert.Equal(t, "capitec", p.Key)
}

func TestClassify_Deterministic(t *testing.T) {
	text := "CAPITEC\nFNB\nABSA\nNedbank"
	first, _ := Classify(text)
	for i := 0; i < 10; i++ {
		p, _ := Classify(text)
		assert.Equal(t, first.Key, p.Key)
	}
}
