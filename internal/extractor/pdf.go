// Package extractor turns a statement PDF into the raw text stream the
// parsing engine consumes. Extraction is best-effort: the structured
// library is tried first, then the external pdftotext tool, and anything
// failing a readability gate is rejected rather than fed to the engine as
// garbage. Scanned/image-only PDFs are not supported.
package extractor

import (
	"os/exec"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// ExtractText reads a PDF file and returns the text of each page.
func ExtractText(filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && IsReadableText(pages) {
		return pages, nil
	}

	pages, popplerErr := extractWithPdftotext(filePath)
	if popplerErr == nil && IsReadableText(pages) {
		return pages, nil
	}

	if libErr != nil {
		return nil, errors.Wrap(libErr, "pdf text extraction failed; the file may be image-based or use undecodable font encodings")
	}
	return nil, errors.New("no readable text could be extracted from pdf; the file may be scanned or use custom font encodings")
}

// extractWithLibrary walks each page and rebuilds lines from positioned
// text fragments: fragments sharing a baseline are one row, ordered left
// to right. Statement tables survive this far better than the library's
// plain-text stream, which interleaves columns.
func extractWithLibrary(filePath string) (pages []string, err error) {
	// The pdf library panics on malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("pdf library panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageRows(page))
	}
	return pages, nil
}

// pageRows groups a page's text fragments into baseline rows.
func pageRows(page pdf.Page) string {
	texts := page.Content().Text
	if len(texts) == 0 {
		return ""
	}

	// Y grows upward in PDF space; bucket fragments whose baselines sit
	// within half a point of each other.
	rows := make(map[int][]pdf.Text)
	var keys []int
	for _, t := range texts {
		key := int(t.Y * 2)
		if _, seen := rows[key]; !seen {
			keys = append(keys, key)
		}
		rows[key] = append(rows[key], t)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	var b strings.Builder
	for _, key := range keys {
		frags := rows[key]
		sort.Slice(frags, func(i, j int) bool { return frags[i].X < frags[j].X })
		lastEnd := -1.0
		for _, frag := range frags {
			// A horizontal jump bigger than a character width means a
			// column boundary; keep it visible as a tab for the parser.
			if lastEnd >= 0 {
				gap := frag.X - lastEnd
				if gap > frag.FontSize*1.5 {
					b.WriteByte('\t')
				} else if gap > 0.3 {
					b.WriteByte(' ')
				}
			}
			b.WriteString(frag.S)
			lastEnd = frag.X + frag.W
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// extractWithPdftotext shells out to poppler-utils, which copes with
// encodings the Go library cannot.
func extractWithPdftotext(filePath string) ([]string, error) {
	path, err := exec.LookPath("pdftotext")
	if err != nil {
		return nil, errors.New("pdftotext not installed")
	}

	out, err := exec.Command(path, "-layout", filePath, "-").Output()
	if err != nil {
		return nil, errors.Wrap(err, "pdftotext failed")
	}

	var pages []string
	for _, page := range strings.Split(string(out), "\f") {
		if strings.TrimSpace(page) != "" {
			pages = append(pages, page)
		}
	}
	if len(pages) == 0 {
		return nil, errors.New("pdftotext produced no text")
	}
	return pages, nil
}

// statementWords appear in virtually every bank statement (including the
// Afrikaans ones). Extracted text containing none of them is likely
// garbage from an identity-encoded font.
var statementWords = []string{
	"bank", "account", "balance", "date", "statement", "transaction",
	"amount", "credit", "debit", "total", "opening", "closing", "payment",
	"transfer", "rekening", "saldo",
}

// IsReadableText gates extraction output: enough plain-ASCII content and
// at least one statement vocabulary hit.
func IsReadableText(pages []string) bool {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"R£$€%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 || float64(readable)/float64(total) < 0.75 {
		return false
	}

	combined := strings.ToLower(strings.Join(pages, "\n"))
	for _, w := range statementWords {
		if strings.Contains(combined, w) {
			return true
		}
	}
	return false
}
