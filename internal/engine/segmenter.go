package engine

import (
	"strings"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

// Chunk is one transaction-candidate span: a date anchor plus everything
// up to the next anchor. Transient; consumed within the same parse.
type Chunk struct {
	Index     int
	DateToken string
	Grammar   profile.DateGrammar
	// Body is the chunk text with the date token excised. Money-token
	// offsets produced by ExtractFields index into this string.
	Body string
	// Start/End are byte offsets of the full chunk span within the
	// transaction section. Emitted and dropped chunks together tile the
	// section from the first anchor to its end, with no gaps.
	Start, End int

	noise bool
}

// SegmentResult carries the emitted chunks, the spans dropped as noise,
// and the located transaction section.
type SegmentResult struct {
	Chunks  []Chunk
	Dropped []Chunk
	// Section is the transaction-section substring that was scanned.
	Section string
	// SectionOffset is the byte offset of Section within the input text.
	SectionOffset int
}

// Segment splits statement text into ordered transaction-candidate chunks.
//
// The primary scan is line-based: a line anchors a new chunk when one of
// the profile's date grammars matches near its start (or anywhere, for
// column layouts that bury the date mid-line). Lines without an anchor are
// wrapped continuations and accumulate onto the current chunk, which
// protects descriptions split across physical lines by the extractor.
//
// Some statements arrive as one mashed line with no usable line breaks.
// When the line scan finds nothing, a flat scan over the whole section
// splits on every date occurrence instead.
//
// Chunks anchored on the profile's noise phrases (balance banners,
// footers, repeated table headers) are dropped before field extraction,
// with their spans recorded.
func Segment(text string, p *profile.Profile) SegmentResult {
	section, offset := sectionBounds(text, p)
	res := SegmentResult{Section: section, SectionOffset: offset}

	chunks := scanLines(section, p)
	if len(chunks) == 0 {
		chunks = scanFlat(section, p)
	}

	for _, c := range chunks {
		if c.noise {
			res.Dropped = append(res.Dropped, c)
			continue
		}
		c.Index = len(res.Chunks)
		res.Chunks = append(res.Chunks, c)
	}
	return res
}

// sectionBounds isolates the transaction table using the profile's
// literal start/end markers. Missing markers widen the scan to the whole
// document; parsing degrades rather than fails.
func sectionBounds(text string, p *profile.Profile) (string, int) {
	start := 0
	for _, marker := range p.SectionStart {
		if i := strings.Index(text, marker); i >= 0 {
			start = i + len(marker)
			break
		}
	}
	end := len(text)
	for _, marker := range p.SectionEnd {
		if i := strings.Index(text[start:], marker); i >= 0 {
			end = start + i
			break
		}
	}
	return text[start:end], start
}

// anchorMatch finds the first date grammar anchoring a line. Grammars
// requiring a line-start anchor must match within the first few bytes;
// Anywhere grammars may match at any offset. False anchors (digit pairs
// that are not calendar dates) are rejected.
func anchorMatch(line string, p *profile.Profile) (profile.DateGrammar, []int, bool) {
	for _, g := range p.Dates {
		loc := g.Pattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if !g.Anywhere && loc[0] > 3 {
			continue
		}
		if !ValidDateToken(line[loc[0]:loc[1]], g) {
			continue
		}
		return g, loc, true
	}
	return profile.DateGrammar{}, nil, false
}

func isNoiseText(s string, p *profile.Profile) bool {
	lower := strings.ToLower(s)
	for _, phrase := range p.NoisePhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

func scanLines(section string, p *profile.Profile) []Chunk {
	var chunks []Chunk
	var cur *Chunk
	var body strings.Builder

	flush := func(end int) {
		if cur == nil {
			return
		}
		cur.Body = body.String()
		cur.End = end
		chunks = append(chunks, *cur)
		cur = nil
		body.Reset()
	}

	pos := 0
	for pos < len(section) {
		lineEnd := strings.IndexByte(section[pos:], '\n')
		var next int
		var line string
		if lineEnd < 0 {
			line = section[pos:]
			next = len(section)
		} else {
			line = section[pos : pos+lineEnd]
			next = pos + lineEnd + 1
		}
		trimmed := strings.TrimSpace(line)

		if g, loc, ok := anchorMatch(trimmed, p); ok {
			flush(pos)
			cur = &Chunk{
				DateToken: trimmed[loc[0]:loc[1]],
				Grammar:   g,
				Start:     pos,
				noise:     isNoiseText(trimmed, p),
			}
			// The date token is cut out here, so a mid-line date leaves
			// its leading columns in the body.
			body.WriteString(strings.TrimSpace(trimmed[:loc[0]] + " " + trimmed[loc[1]:]))
		} else if cur != nil && trimmed != "" && !isNoiseText(trimmed, p) {
			// Wrapped continuation line; noise lines (page footers,
			// repeated headers) are silently skipped instead of polluting
			// the description.
			body.WriteString("\n")
			body.WriteString(trimmed)
		}

		pos = next
	}
	flush(len(section))
	return chunks
}

// scanFlat splits on every valid date occurrence in the raw section. Used
// when the text has no usable line structure.
func scanFlat(section string, p *profile.Profile) []Chunk {
	type hit struct {
		g   profile.DateGrammar
		loc []int
	}
	var hits []hit
	for _, g := range p.Dates {
		for _, loc := range g.Pattern.FindAllStringIndex(section, -1) {
			if ValidDateToken(section[loc[0]:loc[1]], g) {
				hits = append(hits, hit{g, loc})
			}
		}
	}
	// Order by position; insertion sort keeps ties in grammar order.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].loc[0] < hits[j-1].loc[0]; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	var chunks []Chunk
	lastEnd := 0
	for i := 0; i < len(hits); i++ {
		h := hits[i]
		if h.loc[0] < lastEnd {
			continue
		}
		end := len(section)
		for k := i + 1; k < len(hits); k++ {
			if hits[k].loc[0] >= h.loc[1] {
				end = hits[k].loc[0]
				break
			}
		}
		lastEnd = end
		body := strings.TrimSpace(section[h.loc[1]:end])
		chunks = append(chunks, Chunk{
			DateToken: section[h.loc[0]:h.loc[1]],
			Grammar:   h.g,
			Body:      body,
			Start:     h.loc[0],
			End:       end,
			noise:     isNoiseText(body, p),
		})
	}
	return chunks
}
