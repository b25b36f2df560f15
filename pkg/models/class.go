package models

import "time"

// Class is one timetable entry parsed from the portal's iCal export.
// Classes are display-only: they feed the tray's "today" section and never
// ring.
type Class struct {
	ID        string // iCal event UID
	Subject   string
	Room      string
	StartTime time.Time
	EndTime   time.Time
	Status    string // CONFIRMED, CANCELLED
}
