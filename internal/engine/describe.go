package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanDescription builds the final narrative for a chunk: the consumed
// token spans are removed by byte offset (never by string replace, which
// could delete an identical substring elsewhere), profile noise phrases
// are stripped, and whitespace is collapsed. An empty result becomes the
// literal "Transaction" placeholder.
func CleanDescription(body string, cuts []Cut, p *profile.Profile) string {
	// Sort a copy; the caller still owns its resolution.
	ordered := append([]Cut(nil), cuts...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	var b strings.Builder
	pos := 0
	for _, cut := range ordered {
		if cut.Start < pos {
			continue
		}
		b.WriteString(body[pos:cut.Start])
		b.WriteString(cut.Repl)
		pos = cut.End
	}
	if pos < len(body) {
		b.WriteString(body[pos:])
	}

	desc := b.String()
	for _, phrase := range p.DescNoise {
		desc = stripPhrase(desc, phrase)
	}
	desc = whitespaceRun.ReplaceAllString(desc, " ")
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "Transaction"
	}
	return desc
}

// stripPhrase removes every case-insensitive occurrence of phrase,
// comparing the original bytes directly so indices never drift on runes
// whose case folding changes byte length.
func stripPhrase(s, phrase string) string {
	if phrase == "" {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if i+len(phrase) <= len(s) && strings.EqualFold(s[i:i+len(phrase)], phrase) {
			i += len(phrase)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
