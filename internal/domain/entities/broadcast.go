package entities

import "time"

// BroadcastConfig holds the reminder broadcast options. Durations are in
// minutes, as exposed in the environment.
type BroadcastConfig struct {
	Enabled            bool
	CheckInterval      int
	LeadTime           int
	TargetDestinations []string
}

// BroadcastStatus is the operator view of the scheduler.
type BroadcastStatus struct {
	Config       BroadcastConfig
	Running      bool
	NextRun      time.Time // zero when not running
	MetadataSize int
}
