package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/models"
)

func TestToCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"regular day", time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC), "113/04/08"},
		{"single digit month and day", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "109/01/01"},
		{"year before 2000 pads to three digits", time.Date(1998, 12, 31, 0, 0, 0, 0, time.UTC), "087/12/31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCanonical(tt.in))
		})
	}
}

func TestFromCanonical(t *testing.T) {
	got, err := FromCanonical("113/04/08")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "113", "113/04", "113/04/08/01", "11a/04/08", "113/13/01", "113/02/30"} {
		_, err := FromCanonical(bad)
		assert.ErrorIs(t, err, apperr.ErrInvalidDate, "input %q", bad)
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		months int
		want   string
	}{
		{"plain add", "113/01/15", 1, "113/02/15"},
		{"clamp to non-leap february", "112/01/31", 1, "112/02/28"}, // 2023
		{"clamp to leap february", "113/01/31", 1, "113/02/29"},     // 2024
		{"clamp 31st into 30-day month", "113/03/31", 1, "113/04/30"},
		{"year rollover", "113/11/20", 3, "114/02/20"},
		{"annual", "113/02/29", 12, "114/02/28"},
		{"zero months", "113/06/05", 0, "113/06/05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddMonths(tt.in, tt.months)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := AddMonths("not-a-date", 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidDate)
}

func TestNextOccurrenceOnOrAfter(t *testing.T) {
	tests := []struct {
		name  string
		begin string
		freq  models.Frequency
		ref   string
		want  string
	}{
		{"once returns begin even when past", "112/01/15", models.FreqOnce, "113/04/01", "112/01/15"},
		{"monthly advances to reference", "113/01/15", models.FreqMonthly, "113/04/01", "113/04/15"},
		{"quarterly", "113/01/10", models.FreqQuarterly, "113/05/01", "113/07/10"},
		{"begin already on or after ref", "113/06/01", models.FreqMonthly, "113/04/01", "113/06/01"},
		{"annual", "110/03/01", models.FreqAnnual, "113/01/01", "113/03/01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrenceOnOrAfter(tt.begin, tt.freq, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextOccurrenceStopsAtTenthCandidate(t *testing.T) {
	// Reference far beyond ten monthly steps: the loop must stop at the
	// 10th candidate rather than keep advancing.
	got, err := NextOccurrenceOnOrAfter("100/01/15", models.FreqMonthly, "120/01/01")
	require.NoError(t, err)
	assert.Equal(t, "100/11/15", got)
}

func TestMonthDay(t *testing.T) {
	assert.Equal(t, "04/08", MonthDay("113/04/08"))
	assert.Equal(t, "bad", MonthDay("bad"))
}
