package ics

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"calbot/internal/domain/entities"
)

const (
	defaultDuration        = time.Hour
	maxOccurrencesPerEvent = 500
)

// Window bounds recurrence expansion. Non-recurring events are kept whatever
// their date.
type Window struct {
	Start time.Time
	End   time.Time
}

// Parse turns an iCalendar payload into merge candidates. A VEVENT without
// DTEND lasts one hour; a VEVENT whose DTSTART cannot be read is still
// returned with an empty start so the store rejects and counts it.
func Parse(body []byte, window Window) ([]entities.EventInput, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("ics: empty body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse calendar: %w", err)
	}

	var out []entities.EventInput
	for _, ve := range cal.Events() {
		out = append(out, parseVEvent(ve, window)...)
	}
	return out, nil
}

func parseVEvent(ve *ical.VEvent, window Window) []entities.EventInput {
	base := entities.EventInput{Title: propValue(ve, ical.ComponentPropertySummary)}
	if desc := propValue(ve, ical.ComponentPropertyDescription); desc != "" {
		base.Description = &desc
	}

	start, err := ve.GetStartAt()
	if err != nil {
		log.Printf("⚠️ ICS: DTSTART illisible (%q): %v", base.Title, err)
		return []entities.EventInput{base}
	}
	end, err := ve.GetEndAt()
	if err != nil || !end.After(start) {
		end = start.Add(defaultDuration)
	}

	raw := propValue(ve, ical.ComponentPropertyRrule)
	if raw == "" {
		return []entities.EventInput{withTimes(base, start, end)}
	}

	occurrences, err := expand(raw, start, exDates(ve), window)
	if err != nil {
		log.Printf("⚠️ ICS: RRULE illisible (%q): %v", base.Title, err)
		return []entities.EventInput{withTimes(base, start, end)}
	}
	dur := end.Sub(start)
	out := make([]entities.EventInput, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, withTimes(base, occ, occ.Add(dur)))
	}
	return out
}

func expand(raw string, start time.Time, exdates []time.Time, window Window) ([]time.Time, error) {
	r, err := rrule.StrToRRule(raw)
	if err != nil {
		return nil, err
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exdates {
		set.ExDate(ex.In(start.Location()))
	}
	occ := set.Between(window.Start.In(start.Location()), window.End.In(start.Location()), true)
	if len(occ) > maxOccurrencesPerEvent {
		occ = occ[:maxOccurrencesPerEvent]
	}
	return occ, nil
}

func exDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.Properties {
		if p.IANAToken != string(ical.ComponentPropertyExdate) {
			continue
		}
		loc := time.Local
		if tzid := p.ICalParameters[string(ical.ParameterTzid)]; len(tzid) > 0 {
			if l, err := time.LoadLocation(tzid[0]); err == nil {
				loc = l
			}
		}
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, loc); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime handles the bare UTC, local and date-only forms; local forms
// are read in loc.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}

func withTimes(in entities.EventInput, start, end time.Time) entities.EventInput {
	in.StartTime = start.Format(time.RFC3339)
	in.EndTime = end.Format(time.RFC3339)
	return in
}
