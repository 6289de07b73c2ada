package usecase

import (
	"fmt"
	"regexp"
	"strconv"
)

const legacyCutoverYear = 1999

var (
	yearRangePattern  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\s*(?:[-–]|to)\s*(19\d{2}|20\d{2})\b`)
	singleYearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// extractYearRange scans free text for an explicit year range
// ("1985-1990", "1985 to 1990") or, failing that, a lone year. The
// second return reports whether anything was found.
func extractYearRange(query string) (from, to int, ok bool) {
	if m := yearRangePattern.FindStringSubmatch(query); m != nil {
		from, _ = strconv.Atoi(m[1])
		to, _ = strconv.Atoi(m[2])
		if from > to {
			from, to = to, from
		}
		return from, to, true
	}
	if m := singleYearPattern.FindStringSubmatch(query); m != nil {
		year, _ := strconv.Atoi(m[1])
		return year, year, true
	}
	return 0, 0, false
}

// queryImpliesPre1999 reports whether the query mentions years that
// predate the main library, meaning the legacy partition must be
// searched for complete coverage.
func queryImpliesPre1999(query string) bool {
	from, _, ok := extractYearRange(query)
	return ok && from < legacyCutoverYear
}

// yearRangeToDates widens a year range to full calendar-year bounds.
func yearRangeToDates(from, to int) (dateFrom, dateTo string) {
	return fmt.Sprintf("%04d-01-01", from), fmt.Sprintf("%04d-12-31", to)
}
