package scheduling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

// WeekendNotice is shown with every weekend schedule.
const WeekendNotice = "Note: Weekend appointments are limited to urgent cases only."

var (
	ErrInvalidDate = errors.New("scheduling: date must be YYYY-MM-DD")
	ErrPastDate    = errors.New("scheduling: date is in the past")
	ErrInvalidTime = errors.New("scheduling: time must be HH:MM")
)

// Slot is one bookable start time.
type Slot struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Schedule lists the slots offered on a date.
type Schedule struct {
	Date    string `json:"date"`
	Weekend bool   `json:"weekend"`
	Notice  string `json:"notice,omitempty"`
	Slots   []Slot `json:"slots"`
}

// Has reports whether value is one of the schedule's slots.
func (s Schedule) Has(value string) bool {
	for _, slot := range s.Slots {
		if slot.Value == value {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// SlotsFor returns the schedule for date. Weekdays run 09:00 to 17:00 in
// 30 minute steps; weekends run 10:00 to 14:00 hourly. Dates before today
// are rejected; only the calendar day of each argument is compared.
func SlotsFor(date, today time.Time) (Schedule, error) {
	if calendarDay(date).Before(calendarDay(today)) {
		return Schedule{}, ErrPastDate
	}

	s := Schedule{Date: date.Format(DateLayout)}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		s.Weekend = true
		s.Notice = WeekendNotice
		s.Slots = buildSlots(10*60, 14*60, 60)
	default:
		s.Slots = buildSlots(9*60, 17*60, 30)
	}
	return s, nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// buildSlots returns slots from start up to but excluding end, in minutes
// after midnight.
func buildSlots(start, end, step int) []Slot {
	var slots []Slot
	for m := start; m < end; m += step {
		value := fmt.Sprintf("%02d:%02d", m/60, m%60)
		slots = append(slots, Slot{Value: value, Label: mustFormat12h(m/60, m%60)})
	}
	return slots
}

// FormatTime12h converts "HH:MM" to "h:MM AM" or "h:MM PM".
func FormatTime12h(hhmm string) (string, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok || len(m) != 2 {
		return "", ErrInvalidTime
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return "", ErrInvalidTime
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return "", ErrInvalidTime
	}
	return mustFormat12h(hours, minutes), nil
}

func mustFormat12h(hours, minutes int) string {
	period := "AM"
	if hours >= 12 {
		period = "PM"
		if hours > 12 {
			hours -= 12
		}
	}
	if hours == 0 {
		hours = 12
	}
	return fmt.Sprintf("%d:%02d %s", hours, minutes, period)
}
