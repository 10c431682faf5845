package discord

import (
	"strings"
	"time"

	"calbot/internal/domain"
)

const (
	dateLayout  = "02/01/2006"
	clockLayout = "15:04"
)

// ParseEventDateTime combines date (JJ/MM/AAAA) and clock (HH:MM) in loc.
// A nil loc means time.Local.
func ParseEventDateTime(dateStr, clockStr string, loc *time.Location) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	clockStr = strings.TrimSpace(clockStr)
	if dateStr == "" || clockStr == "" {
		return time.Time{}, domain.NewMissingFieldsError(missingInputs(dateStr, clockStr)...)
	}
	day, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, domain.NewInvalidTimeFormatError(dateStr)
	}
	clock, err := time.Parse(clockLayout, clockStr)
	if err != nil {
		return time.Time{}, domain.NewInvalidTimeFormatError(clockStr)
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// EventSpan resolves the start and end of an event typed as one date with a
// start clock and an optional end clock. An empty end means one hour after
// start; an end clock before the start rolls over to the next day.
func EventSpan(dateStr, startStr, endStr string, loc *time.Location) (start, end time.Time, err error) {
	start, err = ParseEventDateTime(dateStr, startStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if strings.TrimSpace(endStr) == "" {
		return start, start.Add(time.Hour), nil
	}
	end, err = ParseEventDateTime(dateStr, endStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// FormatInputTime renders t the way the event store expects it.
func FormatInputTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func missingInputs(dateStr, clockStr string) []string {
	var missing []string
	if dateStr == "" {
		missing = append(missing, "date")
	}
	if clockStr == "" {
		missing = append(missing, "heure")
	}
	return missing
}
