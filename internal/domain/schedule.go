package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultBusinessTimezone is the local zone all "HH:mm" configuration values
// are interpreted in, regardless of the host timezone.
const DefaultBusinessTimezone = "America/Lima"

// ConflictScanPadding widens the conflict query window on both sides so that
// long appointments whose start precedes the window but whose end still
// reaches into it are always fetched.
const ConflictScanPadding = 24 * time.Hour

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// ParseClock converts an "HH:mm" wall-clock string into minutes after
// midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	return h*60 + m, nil
}

// LocalSpan is a candidate appointment interval projected onto the business
// timezone: wall-clock strings for display, minute-of-day and calendar-date
// values for the checks.
type LocalSpan struct {
	StartClock      string
	EndClock        string
	StartDate       string
	EndDate         string
	StartMinutes    int
	DurationMinutes int
}

// NormalizeSpan projects an absolute start instant and a duration onto loc.
func NormalizeSpan(start time.Time, durationMinutes int, loc *time.Location) LocalSpan {
	localStart := start.In(loc)
	localEnd := start.Add(time.Duration(durationMinutes) * time.Minute).In(loc)

	return LocalSpan{
		StartClock:      localStart.Format(clockLayout),
		EndClock:        localEnd.Format(clockLayout),
		StartDate:       localStart.Format(dateLayout),
		EndDate:         localEnd.Format(dateLayout),
		StartMinutes:    localStart.Hour()*60 + localStart.Minute(),
		DurationMinutes: durationMinutes,
	}
}

// OutOfHoursError rejects a candidate that starts or ends outside the
// configured operating hours. EndsAfterClose distinguishes the two cases for
// the user-facing message.
type OutOfHoursError struct {
	OpenTime       string
	CloseTime      string
	EndsAfterClose bool
}

func (e *OutOfHoursError) Error() string {
	if e.EndsAfterClose {
		return fmt.Sprintf("appointment ends after closing time (%s)", e.CloseTime)
	}
	return fmt.Sprintf("appointment outside business hours (%s - %s)", e.OpenTime, e.CloseTime)
}

// SpansDaysError rejects a candidate whose start and end fall on different
// local calendar days.
type SpansDaysError struct {
	StartDate string
	EndDate   string
}

func (e *SpansDaysError) Error() string {
	return "appointment cannot end on the following day"
}

// ConflictError rejects a candidate whose buffered interval intersects an
// active appointment.
type ConflictError struct {
	BufferMinutes int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict: %d min buffer required between appointments", e.BufferMinutes)
}

// BlockedSlotError rejects a candidate intersecting an administrator-defined
// blocked window.
type BlockedSlotError struct {
	StartTime string
	EndTime   string
	Reason    string
}

func (e *BlockedSlotError) Error() string {
	return fmt.Sprintf("blocked window conflict: %s - %s (%s)", e.StartTime, e.EndTime, e.Reason)
}

// CheckBusinessHours validates the span against the configured operating
// hours. The closing check uses elapsed minutes from the start of day rather
// than the normalized end clock: an overnight span wraps to an early-morning
// end clock that would otherwise read as within hours.
func CheckBusinessHours(span LocalSpan, openTime, closeTime string) error {
	openMinutes, err := ParseClock(openTime)
	if err != nil {
		return err
	}
	closeMinutes, err := ParseClock(closeTime)
	if err != nil {
		return err
	}

	if span.StartMinutes < openMinutes || span.StartMinutes > closeMinutes {
		return &OutOfHoursError{OpenTime: openTime, CloseTime: closeTime}
	}
	if span.StartMinutes+span.DurationMinutes > closeMinutes {
		return &OutOfHoursError{OpenTime: openTime, CloseTime: closeTime, EndsAfterClose: true}
	}
	if span.StartDate != span.EndDate {
		return &SpansDaysError{StartDate: span.StartDate, EndDate: span.EndDate}
	}
	return nil
}

// ConflictsWith reports whether the buffered candidate interval [start, end]
// intersects appt. Boundary equality is safe: an appointment ending exactly
// where the candidate's buffer window begins is not a conflict.
func ConflictsWith(start, end time.Time, appt Appointment, buffer time.Duration) bool {
	if appt.IsCancelled() {
		return false
	}
	safeBefore := !appt.End().Add(buffer).After(start)
	safeAfter := !appt.Date.Before(end.Add(buffer))
	return !safeBefore && !safeAfter
}

// FirstConflict returns a ConflictError for the first active appointment
// whose interval intersects the buffered candidate, or nil.
func FirstConflict(start, end time.Time, appts []Appointment, buffer time.Duration) error {
	for _, appt := range appts {
		if ConflictsWith(start, end, appt, buffer) {
			return &ConflictError{BufferMinutes: int(buffer / time.Minute)}
		}
	}
	return nil
}

// CheckBlockedSlots returns a BlockedSlotError for the first blocked window
// overlapping the span by any positive amount. Touching boundaries are not a
// conflict. Slots with malformed clock values cannot be interpreted and are
// skipped.
func CheckBlockedSlots(span LocalSpan, slots []BlockedSlot) error {
	apptStart := span.StartMinutes
	apptEnd := span.StartMinutes + span.DurationMinutes

	for _, slot := range slots {
		slotStart, err := ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		slotEnd, err := ParseClock(slot.EndTime)
		if err != nil {
			continue
		}
		if max(slotStart, apptStart) < min(slotEnd, apptEnd) {
			return &BlockedSlotError{
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
				Reason:    slot.DisplayReason(),
			}
		}
	}
	return nil
}
