package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

// monthNumbers maps month-name prefixes to month numbers, including the
// Afrikaans spellings that appear on South African statements.
var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "maa": 3, "apr": 4,
	"may": 5, "mei": 5, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "oct": 10, "okt": 10, "nov": 11, "dec": 12, "des": 12,
}

func monthNumber(name string) (int, bool) {
	key := strings.ToLower(name)
	if len(key) > 3 {
		key = key[:3]
	}
	n, ok := monthNumbers[key]
	return n, ok
}

// DateContext supplies the year and month for yearless date tokens. Both
// come from the statement period or header when metadata extraction found
// them; zero values fall back to the wall clock, matching what the
// statements themselves assume.
type DateContext struct {
	Year  int
	Month int
}

func (c DateContext) year() int {
	if c.Year != 0 {
		return c.Year
	}
	return time.Now().Year()
}

func (c DateContext) month() int {
	if c.Month != 0 {
		return c.Month
	}
	return int(time.Now().Month())
}

// NormalizeDate converts one raw date token into a calendar date using the
// grammar that matched it. Yearless tokens take the context year, with
// December entries on a January/February statement assigned to the prior
// year (month rollover).
func NormalizeDate(token string, g profile.DateGrammar, ctx DateContext) (models.Date, error) {
	m := g.Pattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return models.Date{}, errors.Errorf("date token %q does not match its grammar", token)
	}

	switch g.Layout {
	case profile.LayoutDayMonthYearSlash:
		return newDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	case profile.LayoutYearMonthDaySlash, profile.LayoutYearMonthDayDash:
		return newDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	case profile.LayoutDayMonthName:
		month, ok := monthNumber(m[2])
		if !ok {
			return models.Date{}, errors.Errorf("unknown month name %q", m[2])
		}
		year := 0
		if len(m) > 3 && m[3] != "" {
			year = atoi(m[3])
		} else {
			year = ctx.year()
			if month == 12 && ctx.month() <= 2 {
				year--
			}
		}
		return newDate(year, month, atoi(m[1]))
	case profile.LayoutMonthDayPair:
		year := ctx.year()
		month := atoi(m[1])
		if month == 12 && ctx.month() <= 2 {
			year--
		}
		return newDate(year, month, atoi(m[2]))
	default:
		return models.Date{}, errors.Errorf("unsupported date layout %d", g.Layout)
	}
}

// ValidDateToken reports whether a grammar match is a plausible calendar
// date. Segmentation uses it to reject false anchors: the month/day column
// pair grammar in particular can match arbitrary digit pairs.
func ValidDateToken(token string, g profile.DateGrammar) bool {
	d, err := NormalizeDate(token, g, DateContext{Year: 2000})
	return err == nil && d.Month >= 1 && d.Month <= 12 && d.Day >= 1 && d.Day <= 31
}

func newDate(year, month, day int) (models.Date, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return models.Date{}, errors.Errorf("implausible date %04d-%02d-%02d", year, month, day)
	}
	return models.Date{Year: year, Month: month, Day: day}, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
