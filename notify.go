package main

import (
	"fyne.io/fyne/v2"

	"github.com/penlet/reminders/pkg/models"
)

// notifySystem posts the OS-level notification for a newly fired reminder.
// Called exactly once per triggered entry, never on re-evaluation. Best
// effort: on platforms or sessions where notifications are unavailable the
// call is a silent no-op, and the in-app pop-up carries the alert alone.
func (c *Companion) notifySystem(entry *models.TriggeredEntry) {
	body := entry.AlarmTime.Local().Format("3:04 PM")
	if entry.Description != "" {
		body += " - " + entry.Description
	}
	c.app.SendNotification(fyne.NewNotification(entry.Title, body))
}
