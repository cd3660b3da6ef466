package calendar

import (
	"fmt"
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
	ptime "github.com/yaa110/go-persian-calendar"
)

// Jalali is the Iranian solar hijri calendar.
type Jalali struct {
	loc *time.Location
}

func (j Jalali) Location() *time.Location {
	return j.loc
}

func (j Jalali) ToDisplay(t time.Time) string {
	local := t.In(j.loc)
	return fmt.Sprintf("%s %02d:%02d", j.ToDisplayDate(local), local.Hour(), local.Minute())
}

func (j Jalali) ToDisplayDate(t time.Time) string {
	pt := ptime.New(t.In(j.loc))
	return fmt.Sprintf("%04d-%02d-%02d", pt.Year(), int(pt.Month()), pt.Day())
}

func (j Jalali) Parse(input string) (time.Time, error) {
	fields, err := splitInput(input)
	if err != nil {
		return time.Time{}, err
	}
	if !ValidJalali(fields.year, fields.month, fields.day) {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, input)
	}

	return ptime.Date(fields.year, ptime.Month(fields.month), fields.day, fields.hour, fields.minute, 0, 0, j.loc).Time(), nil
}

// ValidJalali reports whether jy-jm-jd names a real day. The date is taken
// through the Gregorian calendar and back; overflowing days do not survive.
func ValidJalali(jy, jm, jd int) bool {
	if jy < 1 || jm < 1 || jm > 12 || jd < 1 || jd > 31 {
		return false
	}

	back := ptime.New(ptime.Date(jy, ptime.Month(jm), jd, 12, 0, 0, 0, time.UTC).Time())
	return back.Year() == jy && int(back.Month()) == jm && back.Day() == jd
}

// IsJalaliLeap reports whether Esfand of jy has 30 days.
func IsJalaliLeap(jy int) bool {
	return ValidJalali(jy, 12, 30)
}

func ToGregorian(jy, jm, jd int) (int, int, int) {
	t := ptime.Date(jy, ptime.Month(jm), jd, 12, 0, 0, 0, time.UTC).Time()
	return t.Year(), int(t.Month()), t.Day()
}

func FromGregorian(gy, gm, gd int) (int, int, int) {
	pt := ptime.New(time.Date(gy, time.Month(gm), gd, 12, 0, 0, 0, time.UTC))
	return pt.Year(), int(pt.Month()), pt.Day()
}
