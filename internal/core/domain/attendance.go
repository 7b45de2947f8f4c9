package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format stored in Attendance.Date.
const DateLayout = "2006-01-02"

// AttendanceKind is the action requested by MarkAttendance.
type AttendanceKind string

const (
	CheckIn  AttendanceKind = "checkIn"
	CheckOut AttendanceKind = "checkOut"
)

// Valid reports whether k is one of the known kinds.
func (k AttendanceKind) Valid() bool {
	return k == CheckIn || k == CheckOut
}

// Attendance is one employee's check-in/check-out pair for one calendar day.
type Attendance struct {
	ID         int        `json:"id"`
	EmployeeID int        `json:"employeeId"`
	CheckIn    time.Time  `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
	Date       string     `json:"date"`
}

// CheckedOut reports whether the record already carries a check-out time.
func (a Attendance) CheckedOut() bool {
	return a.CheckOut != nil
}

// Period selects a reporting window for attendance queries.
type Period string

const (
	Daily   Period = "daily"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

var periodLayouts = map[Period]string{
	Daily:   DateLayout,
	Monthly: "2006-01",
	Yearly:  "2006",
}

// DatePrefix validates ref against the period's layout and returns the
// prefix every matching Attendance.Date starts with.
func (p Period) DatePrefix(ref string) (string, error) {
	layout, ok := periodLayouts[p]
	if !ok {
		return "", fmt.Errorf("%w: unknown period %q", ErrInvalidPeriod, p)
	}
	ref = strings.TrimSpace(ref)
	if _, err := time.Parse(layout, ref); err != nil {
		return "", fmt.Errorf("%w: %q is not a %s reference", ErrInvalidPeriod, ref, p)
	}
	return ref, nil
}
