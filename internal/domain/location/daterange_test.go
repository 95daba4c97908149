package location

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateRange(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := start.Add(d)
		return &v
	}

	tests := []struct {
		name string
		end  *time.Time
		want string
	}{
		{"present", nil, "Jan 10, 2024 - Present"},
		{"same day", at(0), "Jan 10, 2024 (same day)"},
		{"one day", at(5 * time.Hour), "Jan 10, 2024 - Jan 10, 2024 (1 day)"},
		{"days", at(10 * 24 * time.Hour), "Jan 10, 2024 - Jan 20, 2024 (10 days)"},
		{"one month", at(45 * 24 * time.Hour), "Jan 10, 2024 - Feb 24, 2024 (1 month)"},
		{"months", at(200 * 24 * time.Hour), "Jan 10, 2024 - Jul 28, 2024 (6 months)"},
		{"years", at(800 * 24 * time.Hour), "Jan 10, 2024 - Mar 20, 2026 (2 years)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDateRange(start, tt.end))
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	p, err := ParseCoordinates(" 48.8584 ", "2.2945")
	assert.NoError(t, err)
	assert.Equal(t, Point{Latitude: 48.8584, Longitude: 2.2945}, p)

	// диапазон не проверяется
	_, err = ParseCoordinates("123", "-500")
	assert.NoError(t, err)

	_, err = ParseCoordinates("north", "2")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	_, err = ParseCoordinates("1", "")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	for _, bad := range [][2]string{{"NaN", "2"}, {"1", "Inf"}, {"-inf", "0"}, {"0", "+Infinity"}} {
		_, err = ParseCoordinates(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidCoordinates, bad)
	}
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "48.858400, 2.294500", FormatCoordinates(Point{Latitude: 48.8584, Longitude: 2.2945}))
}
