package load

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/likeplot/schema"
)

var (
	// dateTokenRegex finds an m/d/yyyy token anywhere in a string.
	dateTokenRegex = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`)

	// dateFullRegex matches a whole m/d/y string with a 1-4 digit year.
	dateFullRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{1,4})$`)
)

// ExtractDate returns the first m/d/yyyy token of text, or text itself when none is found.
func ExtractDate(text string) string {
	if m := dateTokenRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// ParseDate extracts and parses a month/day/year date at UTC midnight.
// Out of range days and months roll over the way calendar arithmetic does,
// so 13/1/2021 is January 1st 2022.
func ParseDate(text string) (time.Time, error) {
	token := strings.TrimSpace(ExtractDate(text))
	m := dateFullRegex.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", text, schema.ErrUnparseableDate)
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
