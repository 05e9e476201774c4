// Package jalali converts between the Jalali (Solar Hijri) calendar used on
// the API surface and the Gregorian calendar used for storage. The conversion
// is pure arithmetic over Julian day numbers and has no external dependencies.
package jalali

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date in the Jalali calendar.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ErrInvalidDate indicates a string that does not parse as YYYY/MM/DD or
// denotes a day outside the Jalali calendar.
var ErrInvalidDate = errors.New("jalali: invalid date")

// Epoch years at which the length of the intercalation cycle changes.
var breaks = [...]int{
	-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181, 1210,
	1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178,
}

// FromTime converts the date portion of t to a Jalali date.
func FromTime(t time.Time) Date {
	jy, jm, jd := d2j(g2d(t.Year(), int(t.Month()), t.Day()))
	return Date{Year: jy, Month: jm, Day: jd}
}

// Time returns the Gregorian midnight of d in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	gy, gm, gd := d2g(j2d(d.Year, d.Month, d.Day))
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, loc)
}

// Valid reports whether d denotes an actual calendar day.
func (d Date) Valid() bool {
	if d.Year < breaks[0] || d.Year >= breaks[len(breaks)-1] {
		return false
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	return d.Day <= MonthLength(d.Year, d.Month)
}

// String renders the date as YYYY/MM/DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Format renders the date portion of t as a Jalali YYYY/MM/DD string.
func Format(t time.Time) string {
	return FromTime(t).String()
}

// Parse reads a YYYY/MM/DD Jalali date string.
func Parse(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Date{}, ErrInvalidDate
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, ErrInvalidDate
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if !d.Valid() {
		return Date{}, ErrInvalidDate
	}
	return d, nil
}

// IsLeapYear reports whether jy is a Jalali leap year.
func IsLeapYear(jy int) bool {
	leap, _, _ := jalCal(jy)
	return leap == 0
}

// MonthLength returns the number of days in the given Jalali month.
func MonthLength(jy, jm int) int {
	switch {
	case jm <= 6:
		return 31
	case jm <= 11:
		return 30
	case IsLeapYear(jy):
		return 30
	default:
		return 29
	}
}

// jalCal determines the leap status of a Jalali year, its Gregorian
// counterpart, and the March day on which that Jalali year begins.
// leap is the number of years since the last leap year (0 means leap).
func jalCal(jy int) (leap, gy, march int) {
	gy = jy + 621
	leapJ := -14
	jp := breaks[0]

	var jump int
	for i := 1; i < len(breaks); i++ {
		jm := breaks[i]
		jump = jm - jp
		if jy < jm {
			break
		}
		leapJ += jump/33*8 + jump%33/4
		jp = jm
	}
	n := jy - jp

	leapJ += n/33*8 + (n%33+3)/4
	if jump%33 == 4 && jump-n == 4 {
		leapJ++
	}

	leapG := gy/4 - (gy/100+1)*3/4 - 150
	march = 20 + leapJ - leapG

	if jump-n < 6 {
		n = n - jump + (jump+4)/33*33
	}
	leap = ((n+1)%33 - 1) % 4
	if leap == -1 {
		leap = 4
	}
	return leap, gy, march
}

// j2d converts a Jalali date to its Julian day number.
func j2d(jy, jm, jd int) int {
	_, gy, march := jalCal(jy)
	return g2d(gy, 3, march) + (jm-1)*31 - jm/7*(jm-7) + jd - 1
}

// d2j converts a Julian day number to a Jalali date.
func d2j(jdn int) (jy, jm, jd int) {
	gy, _, _ := d2g(jdn)
	jy = gy - 621
	leap, _, march := jalCal(jy)
	k := jdn - g2d(gy, 3, march)

	if k >= 0 {
		if k <= 185 {
			jm = 1 + k/31
			jd = 1 + k%31
			return jy, jm, jd
		}
		k -= 186
	} else {
		jy--
		k += 179
		if leap == 1 {
			k++
		}
	}
	jm = 7 + k/30
	jd = 1 + k%30
	return jy, jm, jd
}

// g2d converts a Gregorian date to its Julian day number.
func g2d(gy, gm, gd int) int {
	d := (gy+(gm-8)/6+100100)*1461/4 + (153*((gm+9)%12)+2)/5 + gd - 34840408
	return d - (gy+100100+(gm-8)/6)/100*3/4 + 752
}

// d2g converts a Julian day number to a Gregorian date.
func d2g(jdn int) (gy, gm, gd int) {
	j := 4*jdn + 139361631
	j += (4*jdn+183187720)/146097*3/4*4 - 3908
	i := j%1461/4*5 + 308
	gd = i%153/5 + 1
	gm = i/153%12 + 1
	gy = j/1461 - 100100 + (8-gm)/6
	return gy, gm, gd
}
