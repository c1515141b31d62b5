package scheduling

import (
	"errors"
	"strings"
	"time"
)

// PreviewDateLayout renders dates like "Monday, January 2, 2006".
const PreviewDateLayout = "Monday, January 2, 2006"

var (
	ErrDoctorRequired  = errors.New("scheduling: doctor is required")
	ErrSlotUnavailable = errors.New("scheduling: time is not an offered slot")
)

// BookingRequest is the form a patient submits before confirming.
type BookingRequest struct {
	DoctorID   int    `json:"doctor_id,omitempty"`
	DoctorName string `json:"doctor_name,omitempty"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Reason     string `json:"reason,omitempty"`
}

// Confirmation is the summary shown for a booking request. Nothing is
// booked or stored.
type Confirmation struct {
	Doctor string `json:"doctor"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

// Preview validates req against the schedule for its date and formats the
// confirmation summary.
func Preview(req BookingRequest, today time.Time) (Confirmation, error) {
	doctor := strings.TrimSpace(req.DoctorName)
	if doctor == "" {
		return Confirmation{}, ErrDoctorRequired
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return Confirmation{}, err
	}
	schedule, err := SlotsFor(date, today)
	if err != nil {
		return Confirmation{}, err
	}
	label, err := FormatTime12h(req.Time)
	if err != nil {
		return Confirmation{}, err
	}
	if !schedule.Has(strings.TrimSpace(req.Time)) {
		return Confirmation{}, ErrSlotUnavailable
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Not specified"
	}
	return Confirmation{
		Doctor: doctor,
		Date:   date.Format(PreviewDateLayout),
		Time:   label,
		Reason: reason,
	}, nil
}
