package values

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/diwise/wikibase-datamodel/pkg/wikibase/errors"
	"github.com/diwise/wikibase-datamodel/pkg/wikibase/types"
)

const (
	PrecisionGigaYear uint8 = iota
	PrecisionHundredMegaYear
	PrecisionTenMegaYear
	PrecisionMegaYear
	PrecisionHundredKiloYear
	PrecisionTenKiloYear
	PrecisionKiloYear
	PrecisionCentury
	PrecisionDecade
	PrecisionYear
	PrecisionMonth
	PrecisionDay
	PrecisionHour
	PrecisionMinute
	PrecisionSecond
)

const (
	CalendarGregorian string = "http://www.wikidata.org/entity/Q1985727"
	CalendarJulian    string = "http://www.wikidata.org/entity/Q1985786"
)

// Time is a point in time with a precision and a calendar model
type Time struct {
	year      int64
	month     uint8
	day       uint8
	hour      uint8
	minute    uint8
	second    uint8
	timezone  int
	before    int
	after     int
	precision uint8
	calendar  string
}

type TimeDecoratorFunc func(t *Time)

func TimeOfDay(hour, minute, second uint8) TimeDecoratorFunc {
	return func(t *Time) {
		t.hour, t.minute, t.second = hour, minute, second
	}
}

// Timezone sets the offset from UTC in minutes
func Timezone(minutes int) TimeDecoratorFunc {
	return func(t *Time) {
		t.timezone = minutes
	}
}

func Tolerance(before, after int) TimeDecoratorFunc {
	return func(t *Time) {
		t.before, t.after = before, after
	}
}

func NewTime(year int64, month, day, precision uint8, calendar string, decorators ...TimeDecoratorFunc) (Time, error) {
	t := Time{
		year:      year,
		month:     month,
		day:       day,
		precision: precision,
		calendar:  calendar,
	}

	for _, decorator := range decorators {
		decorator(&t)
	}

	if t.calendar == "" {
		t.calendar = CalendarGregorian
	}

	if err := t.validate(); err != nil {
		return Time{}, err
	}

	return t, nil
}

func (t Time) validate() error {
	if t.precision > PrecisionSecond {
		return errors.NewInvalidValueRangeError("time precision %d is outside [0,%d]", t.precision, PrecisionSecond)
	}

	if t.month > 12 || t.day > 31 || t.hour > 23 || t.minute > 59 || t.second > 59 {
		return errors.NewInvalidValueRangeError("timestamp %s has a component out of range", t.Timestamp())
	}

	if t.timezone < -720 || t.timezone > 840 {
		return errors.NewInvalidValueRangeError("timezone offset %d is outside [-720,840]", t.timezone)
	}

	if t.before < 0 || t.after < 0 {
		return errors.NewInvalidValueRangeError("time tolerance must not be negative")
	}

	return nil
}

func (t Time) Year() int64           { return t.year }
func (t Time) Month() uint8          { return t.month }
func (t Time) Day() uint8            { return t.day }
func (t Time) Hour() uint8           { return t.hour }
func (t Time) Minute() uint8         { return t.minute }
func (t Time) Second() uint8         { return t.second }
func (t Time) Timezone() int         { return t.timezone }
func (t Time) Before() int           { return t.before }
func (t Time) After() int            { return t.after }
func (t Time) Precision() uint8      { return t.precision }
func (t Time) CalendarModel() string { return t.calendar }
func (t Time) ValueType() string     { return TypeTime }

func (t Time) Equal(other types.Value) bool {
	o, ok := other.(Time)
	return ok && o == t
}

// Timestamp formats the date and time components, e.g. +2013-10-28T00:00:00Z
func (t Time) Timestamp() string {
	sign := "+"
	year := t.year
	if year < 0 {
		sign = "-"
		year = -year
	}

	return fmt.Sprintf("%s%04d-%02d-%02dT%02d:%02d:%02dZ", sign, year, t.month, t.day, t.hour, t.minute, t.second)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(datavalue{
		Value: struct {
			Time          string `json:"time"`
			Timezone      int    `json:"timezone"`
			Before        int    `json:"before"`
			After         int    `json:"after"`
			Precision     uint8  `json:"precision"`
			CalendarModel string `json:"calendarmodel"`
		}{
			Time:          t.Timestamp(),
			Timezone:      t.timezone,
			Before:        t.before,
			After:         t.after,
			Precision:     t.precision,
			CalendarModel: t.calendar,
		},
		Type: TypeTime,
	})
}

// ParseTimestamp splits a signed timestamp such as +00000002013-10-28T00:00:00Z
// into its components. Years may be zero padded to any width.
func ParseTimestamp(timestamp string) (year int64, month, day, hour, minute, second uint8, err error) {
	malformed := func() error {
		return errors.NewMalformedValueError("timestamp %q is malformed", timestamp)
	}

	if len(timestamp) < 2 || (timestamp[0] != '+' && timestamp[0] != '-') {
		err = malformed()
		return
	}

	date, clock, found := strings.Cut(timestamp[1:], "T")
	if !found {
		err = malformed()
		return
	}

	dateParts := strings.Split(date, "-")
	clockParts := strings.Split(strings.TrimSuffix(clock, "Z"), ":")
	if len(dateParts) != 3 || len(clockParts) != 3 {
		err = malformed()
		return
	}

	year, err = strconv.ParseInt(dateParts[0], 10, 64)
	if err != nil {
		err = malformed()
		return
	}
	if timestamp[0] == '-' {
		year = -year
	}

	components := make([]uint8, 0, 5)
	for _, s := range append(dateParts[1:], clockParts...) {
		n, convErr := strconv.ParseUint(s, 10, 8)
		if convErr != nil {
			err = malformed()
			return
		}
		components = append(components, uint8(n))
	}

	month, day, hour, minute, second = components[0], components[1], components[2], components[3], components[4]
	return
}
