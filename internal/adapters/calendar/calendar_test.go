package calendar

import (
	"testing"
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJalaliGregorianConversionKnownDates(t *testing.T) {
	tests := []struct {
		name       string
		jy, jm, jd int
		gy, gm, gd int
	}{
		{name: "nowruz 1403", jy: 1403, jm: 1, jd: 1, gy: 2024, gm: 3, gd: 20},
		{name: "mid mordad", jy: 1403, jm: 5, jd: 15, gy: 2024, gm: 8, gd: 5},
		{name: "leap esfand 30", jy: 1403, jm: 12, jd: 30, gy: 2025, gm: 3, gd: 20},
		{name: "nowruz 1404", jy: 1404, jm: 1, jd: 1, gy: 2025, gm: 3, gd: 21},
		{name: "first of mehr", jy: 1405, jm: 7, jd: 1, gy: 2026, gm: 9, gd: 23},
		{name: "leap 1399", jy: 1399, jm: 12, jd: 30, gy: 2021, gm: 3, gd: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gy, gm, gd := ToGregorian(tt.jy, tt.jm, tt.jd)
			assert.Equal(t, []int{tt.gy, tt.gm, tt.gd}, []int{gy, gm, gd})

			jy, jm, jd := FromGregorian(tt.gy, tt.gm, tt.gd)
			assert.Equal(t, []int{tt.jy, tt.jm, tt.jd}, []int{jy, jm, jd})
		})
	}
}

func TestJalaliLeapYears(t *testing.T) {
	assert.True(t, IsJalaliLeap(1399))
	assert.True(t, IsJalaliLeap(1403))
	assert.False(t, IsJalaliLeap(1402))
	assert.False(t, IsJalaliLeap(1404))

	assert.True(t, ValidJalali(1403, 12, 30))
	assert.False(t, ValidJalali(1402, 12, 30))
	assert.False(t, ValidJalali(1404, 7, 31))
	assert.True(t, ValidJalali(1404, 6, 31))
}

func TestJalaliEveryDayOfLeapYearRoundTrips(t *testing.T) {
	cal, err := New(KindJalali, time.UTC)
	require.NoError(t, err)

	day := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC) // 1403-01-01
	for i := 0; i < 366; i++ {
		display := cal.ToDisplay(day)
		parsed, err := cal.Parse(display)
		require.NoError(t, err, display)
		require.True(t, day.Equal(parsed), display)
		day = day.AddDate(0, 0, 1)
	}
	assert.Equal(t, "1404-01-01 10:00", cal.ToDisplay(day))
}

func TestJalaliParseAndDisplayRoundTrip(t *testing.T) {
	cal, err := New(KindJalali, time.UTC)
	require.NoError(t, err)

	parsed, err := cal.Parse("1403-05-15 14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 8, 5, 14, 30, 0, 0, time.UTC), parsed)
	assert.Equal(t, "1403-05-15 14:30", cal.ToDisplay(parsed))
	assert.Equal(t, "1403-05-15", cal.ToDisplayDate(parsed))
}

func TestJalaliParseAcceptsPersianDigitsAndSlashes(t *testing.T) {
	cal, err := New(KindJalali, time.UTC)
	require.NoError(t, err)

	parsed, err := cal.Parse("۱۴۰۳/۰۵/۱۵  ۹:۰۵")
	require.NoError(t, err)
	assert.Equal(t, "1403-05-15 09:05", cal.ToDisplay(parsed))

	dateOnly, err := cal.Parse("1404-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC), dateOnly)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	jalali, err := New(KindJalali, time.UTC)
	require.NoError(t, err)
	gregorian, err := New(KindGregorian, time.UTC)
	require.NoError(t, err)

	for _, input := range []string{"", "tomorrow", "1403-13-01 10:00", "1402-12-30", "1403-05-15 25:00", "1403-05-15 10:75"} {
		_, err := jalali.Parse(input)
		assert.ErrorIs(t, err, domain.ErrInvalidDate, input)
	}

	for _, input := range []string{"2026-02-30", "2026-00-10 10:00", "10:00"} {
		_, err := gregorian.Parse(input)
		assert.ErrorIs(t, err, domain.ErrInvalidDate, input)
	}
}

func TestGregorianParseUsesLocation(t *testing.T) {
	loc := time.FixedZone("IRST", 3*3600+1800)
	cal, err := New(KindGregorian, loc)
	require.NoError(t, err)

	parsed, err := cal.Parse("2026-10-20 09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 5, 30, 0, 0, time.UTC), parsed.UTC())
	assert.Equal(t, "2026-10-20 09:00", cal.ToDisplay(parsed))
	assert.Same(t, loc, cal.Location())
}

func TestNewRejectsUnknownCalendar(t *testing.T) {
	_, err := New("lunar", time.UTC)
	require.Error(t, err)
}
