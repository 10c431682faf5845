package tz

import (
	"fmt"
	"time"
)

// Paris is the Europe/Paris location (CET/CEST with automatic DST).
var Paris *time.Location

func init() {
	var err error
	Paris, err = time.LoadLocation("Europe/Paris")
	if err != nil {
		panic("tz: load Europe/Paris: " + err.Error())
	}
}

// Load resolves an IANA zone name; an empty name means Paris.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return Paris, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// Format renders t in loc as "02/01/2006 à 15:04". A nil loc means Paris.
func Format(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = Paris
	}
	return t.In(loc).Format("02/01/2006 à 15:04")
}

// HumanizeDuration renders d as "2 j 3 h", "1 h 05 min" or "12 min".
func HumanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return "moins d'une minute"
	}
	d = d.Round(time.Minute)
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%d j %d h", days, hours)
	case days > 0:
		return fmt.Sprintf("%d j", days)
	case hours > 0:
		return fmt.Sprintf("%d h %02d min", hours, minutes)
	default:
		return fmt.Sprintf("%d min", minutes)
	}
}
