package domain

import (
	"fmt"
	"math"
	"time"
)

// WeekKey derives the storage partition key for the week containing now,
// formatted as "<year>-W<week>" with no zero padding.
//
// The arithmetic is the scoreboard's original calculation kept verbatim:
// fractional days elapsed since January 1, plus the weekday index of
// January 1 (Sunday = 0), plus one, ceil-divided by 7. It is not ISO 8601
// week numbering and is deliberately unclamped, so the last hours of a year
// whose January 1 falls on a Saturday can yield W54.
func WeekKey(now time.Time) string {
	year := now.Year()
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
	days := now.Sub(jan1).Hours() / 24
	week := int(math.Ceil((days + float64(jan1.Weekday()) + 1) / 7))
	return fmt.Sprintf("%d-W%d", year, week)
}
