// Package calendar converts between Go times and the ROC (Minguo) calendar
// strings used throughout policy records, and computes recurrence dates.
//
// The canonical form is "YYY/MM/DD" where YYY is the Gregorian year minus
// 1911, zero-padded to three digits. Zero-padding makes canonical strings
// ordered by plain string comparison, which the recurrence loop relies on.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/models"
)

const rocEpochYears = 1911

// maxRecurrenceSteps bounds the recurrence advancement loop: the search
// stops at the 10th candidate without reporting an error.
const maxRecurrenceSteps = 10

// ToCanonical converts a time to canonical ROC form.
func ToCanonical(t time.Time) string {
	return formatCanonical(t.Year()-rocEpochYears, int(t.Month()), t.Day())
}

// FromCanonical parses a canonical ROC date string into a time in UTC.
// Returns ErrInvalidDate when the string is malformed or names a day that
// does not exist.
func FromCanonical(s string) (time.Time, error) {
	y, m, d, err := splitCanonical(s)
	if err != nil {
		return time.Time{}, err
	}
	year := y + rocEpochYears
	t := time.Date(year, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; reject anything that moved.
	if t.Year() != year || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, apperr.Wrapf(apperr.ErrInvalidDate, "no such day %q", s)
	}
	return t, nil
}

// Valid reports whether s parses as a real canonical date.
func Valid(s string) bool {
	_, err := FromCanonical(s)
	return err == nil
}

// Today returns the current date in canonical form.
func Today() string {
	return ToCanonical(time.Now())
}

// AddMonths adds n whole months to a canonical date. When the resulting month
// is shorter than the source day, the day clamps to the last day of the
// resulting month. Only the three integer components are required to parse;
// the day itself is clamped, not validated.
func AddMonths(canonical string, n int) (string, error) {
	y, m, d, err := splitCanonical(canonical)
	if err != nil {
		return "", err
	}
	year := y + rocEpochYears
	month := m + n

	// Floor division keeps the arithmetic correct for negative offsets too.
	yearShift := (month - 1) / 12
	rem := (month - 1) % 12
	if rem < 0 {
		rem += 12
		yearShift--
	}
	year += yearShift
	month = rem + 1

	if last := lastDayOfMonth(year, month); d > last {
		d = last
	}
	return formatCanonical(year-rocEpochYears, month, d), nil
}

// NextOccurrenceOnOrAfter returns the first occurrence of the recurrence on
// or after ref. A one-time appointment's occurrence is its begin date,
// unconditionally. Otherwise the begin date advances by the frequency until
// it reaches ref, stopping at the 10th candidate regardless.
func NextOccurrenceOnOrAfter(begin string, freq models.Frequency, ref string) (string, error) {
	if freq == models.FreqOnce {
		return begin, nil
	}
	next := begin
	for i := 0; next < ref && i < maxRecurrenceSteps; i++ {
		var err error
		next, err = AddMonths(next, int(freq))
		if err != nil {
			return "", err
		}
	}
	return next, nil
}

// MonthDay returns the "MM/DD" slice of a canonical date, used by the
// cross-appointment duplicate rule which compares month and day only.
func MonthDay(canonical string) string {
	if len(canonical) < 9 {
		return canonical
	}
	return canonical[4:9]
}

func splitCanonical(s string) (year, month, day int, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, 0, 0, apperr.Wrapf(apperr.ErrInvalidDate, "malformed date %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(strings.TrimSpace(p))
		if convErr != nil {
			return 0, 0, 0, apperr.Wrapf(apperr.ErrInvalidDate, "malformed date %q", s)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

func lastDayOfMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func formatCanonical(rocYear, month, day int) string {
	return fmt.Sprintf("%03d/%02d/%02d", rocYear, month, day)
}
