package entities

import "time"

// ReminderStatus is the per-event broadcast state. The only transition is
// Unscheduled -> Reminded; there is no way back.
type ReminderStatus int

const (
	Unscheduled ReminderStatus = iota
	Reminded
)

// ReminderState is what the scheduler knows about one event id.
type ReminderState struct {
	Status ReminderStatus
	At     time.Time // last send, zero while Unscheduled
}

// RemindedAt builds the Reminded state for a send at t.
func RemindedAt(t time.Time) ReminderState {
	return ReminderState{Status: Reminded, At: t}
}

// CoversWindow reports whether a reminder has already gone out for the window
// opening at reminderTime.
func (s ReminderState) CoversWindow(reminderTime time.Time) bool {
	return s.Status == Reminded && !s.At.Before(reminderTime)
}
