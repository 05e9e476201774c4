package jalali

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromTime(t *testing.T) {
	cases := []struct {
		gregorian time.Time
		want      Date
	}{
		{time.Date(2016, 4, 11, 0, 0, 0, 0, time.UTC), Date{1395, 1, 23}},
		{time.Date(2013, 1, 10, 0, 0, 0, 0, time.UTC), Date{1391, 10, 21}},
		{time.Date(1981, 8, 17, 0, 0, 0, 0, time.UTC), Date{1360, 5, 26}},
		{time.Date(2021, 3, 21, 0, 0, 0, 0, time.UTC), Date{1400, 1, 1}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FromTime(tc.gregorian), "gregorian %s", tc.gregorian.Format("2006-01-02"))
	}
}

func TestTime(t *testing.T) {
	got := Date{1391, 10, 21}.Time(time.UTC)
	require.Equal(t, time.Date(2013, 1, 10, 0, 0, 0, 0, time.UTC), got)

	got = Date{1395, 1, 23}.Time(time.UTC)
	require.Equal(t, time.Date(2016, 4, 11, 0, 0, 0, 0, time.UTC), got)
}

func TestFormatAndParse(t *testing.T) {
	require.Equal(t, "1391/10/21", Format(time.Date(2013, 1, 10, 15, 4, 5, 0, time.UTC)))

	d, err := Parse("1391/10/21")
	require.NoError(t, err)
	require.Equal(t, Date{1391, 10, 21}, d)

	_, err = Parse("1391-10-21")
	require.ErrorIs(t, err, ErrInvalidDate)
	_, err = Parse("1391/13/01")
	require.ErrorIs(t, err, ErrInvalidDate)
	_, err = Parse("1394/12/30")
	require.ErrorIs(t, err, ErrInvalidDate, "1394 is not a leap year")
}

func TestLeapYears(t *testing.T) {
	require.True(t, IsLeapYear(1395))
	require.True(t, IsLeapYear(1399))
	require.False(t, IsLeapYear(1394))
	require.False(t, IsLeapYear(1400))

	require.Equal(t, 30, MonthLength(1395, 12))
	require.Equal(t, 29, MonthLength(1394, 12))
	require.Equal(t, 31, MonthLength(1400, 1))
	require.Equal(t, 30, MonthLength(1400, 7))
}

// Repeated conversion through both calendars must not drift the stored date.
func TestRoundTripStability(t *testing.T) {
	start := time.Date(1997, 3, 21, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 40*365; day += 17 {
		g := start.AddDate(0, 0, day)
		d := FromTime(g)
		require.True(t, d.Valid(), "date %v from %s", d, g.Format("2006-01-02"))
		require.Equal(t, g, d.Time(time.UTC), "round trip for %s", g.Format("2006-01-02"))

		reparsed, err := Parse(d.String())
		require.NoError(t, err)
		require.Equal(t, d, reparsed)
	}
}
