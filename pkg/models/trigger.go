package models

import "time"

// TriggerStatus tracks what the user is doing with a ringing reminder
type TriggerStatus string

const (
	TriggerStatusRinging    TriggerStatus = "Ringing"    // Pop-up visible, awaiting user action
	TriggerStatusSnoozing   TriggerStatus = "Snoozing"   // Snooze request in flight
	TriggerStatusDismissing TriggerStatus = "Dismissing" // Dismiss request in flight
)

// TriggeredEntry is a live pop-up for one alarm. It exists only in memory
// and only between the evaluator creating it and the user acting on it.
type TriggeredEntry struct {
	ID          string // Unique identifier for this firing (UUID)
	AlarmID     string
	Title       string
	Description string
	AlarmTime   time.Time // Nominal fire instant of the underlying alarm
	TriggeredAt time.Time // When the evaluator actually fired it
	Status      TriggerStatus
}
