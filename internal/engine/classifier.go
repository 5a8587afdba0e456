package engine

import (
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

// Classify selects the format profile for a statement. Profiles are tried
// in registry priority order and the first signature hit wins, so a
// document-ID literal in one profile beats a bank-name substring further
// down the list. Classification is pure: same text, same result.
//
// When nothing matches, the generic profile is returned together with a
// FORMAT_UNRECOGNIZED warning and parsing proceeds on best-guess defaults.
func Classify(text string) (*profile.Profile, []string) {
	for _, p := range profile.Registry() {
		if p.Matches(text) {
			return p, nil
		}
	}
	return profile.Generic(), []string{
		WarnFormatUnrecognized + ": no known bank signature matched, using generic profile",
	}
}
