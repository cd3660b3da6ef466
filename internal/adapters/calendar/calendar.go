package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/practice-ledger/internal/domain"
	"github.com/bnema/practice-ledger/internal/ports"
)

type Kind string

const (
	KindJalali    Kind = "jalali"
	KindGregorian Kind = "gregorian"
)

// New returns the calendar for kind, displaying and parsing in loc.
func New(kind Kind, loc *time.Location) (ports.Calendar, error) {
	if loc == nil {
		loc = time.Local
	}

	switch Kind(strings.ToLower(strings.TrimSpace(string(kind)))) {
	case KindJalali, "":
		return Jalali{loc: loc}, nil
	case KindGregorian:
		return Gregorian{loc: loc}, nil
	default:
		return nil, fmt.Errorf("unsupported calendar %q", kind)
	}
}

var inputPattern = regexp.MustCompile(`^(\d{3,4})[-/](\d{1,2})[-/](\d{1,2})(?:\s+(\d{1,2}):(\d{2}))?$`)

var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

type dateTimeFields struct {
	year, month, day int
	hour, minute     int
}

func splitInput(input string) (dateTimeFields, error) {
	normalized := strings.Join(strings.Fields(digitReplacer.Replace(input)), " ")
	match := inputPattern.FindStringSubmatch(normalized)
	if match == nil {
		return dateTimeFields{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, input)
	}

	fields := dateTimeFields{}
	fields.year, _ = strconv.Atoi(match[1])
	fields.month, _ = strconv.Atoi(match[2])
	fields.day, _ = strconv.Atoi(match[3])
	if match[4] != "" {
		fields.hour, _ = strconv.Atoi(match[4])
		fields.minute, _ = strconv.Atoi(match[5])
	}

	if fields.month < 1 || fields.month > 12 || fields.day < 1 {
		return dateTimeFields{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, input)
	}
	if fields.hour > 23 || fields.minute > 59 {
		return dateTimeFields{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, input)
	}

	return fields, nil
}

type Gregorian struct {
	loc *time.Location
}

func (g Gregorian) Location() *time.Location {
	return g.loc
}

func (g Gregorian) ToDisplay(t time.Time) string {
	return t.In(g.loc).Format("2006-01-02 15:04")
}

func (g Gregorian) ToDisplayDate(t time.Time) string {
	return t.In(g.loc).Format("2006-01-02")
}

func (g Gregorian) Parse(input string) (time.Time, error) {
	fields, err := splitInput(input)
	if err != nil {
		return time.Time{}, err
	}

	t := time.Date(fields.year, time.Month(fields.month), fields.day, fields.hour, fields.minute, 0, 0, g.loc)
	if t.Day() != fields.day || int(t.Month()) != fields.month {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, input)
	}

	return t, nil
}
