// Package jobs runs the companion's background loops: the alarm poll, the
// trigger evaluation tick, and the unread-notification poll. Each loop is a
// goroutine on its own ticker and stops when its context is cancelled.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/penlet/reminders/pkg/models"
	"github.com/penlet/reminders/pkg/store"
)

// AlarmLister is the slice of the portal client the alarm poll needs.
type AlarmLister interface {
	ListActiveAlarms(ctx context.Context) ([]models.Alarm, error)
}

// NotificationReader is the slice of the portal client the notification
// poll needs.
type NotificationReader interface {
	UnreadCount(ctx context.Context) (int, error)
	ListUnreadNotifications(ctx context.Context, limit int) ([]models.Notification, error)
}

// trayNotificationLimit caps how many unread entries the tray menu lists.
const trayNotificationLimit = 5

// StartAlarmPoll fetches the active alarm set on a fixed cadence and
// replaces the store snapshot on success. A failed poll keeps the previous
// snapshot; the error is logged and the next tick tries again. No backoff.
func StartAlarmPoll(ctx context.Context, interval time.Duration, client AlarmLister, rs *store.ReminderStore, onUpdate func()) {
	poll := func() {
		tickCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		alarms, err := client.ListActiveAlarms(tickCtx)
		cancel()
		if err != nil {
			log.Printf("alarm poll error (keeping stale snapshot): %v", err)
			return
		}
		rs.SetAlarms(alarms)
		if onUpdate != nil {
			onUpdate()
		}
	}

	// First fetch right away so a fresh launch does not wait a full
	// interval for its reminders.
	go poll()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				poll()
			}
		}
	}()
}

// StartTriggerLoop evaluates the snapshot on a short cadence, strictly more
// frequent than the alarm poll. onFire receives only newly created entries.
func StartTriggerLoop(ctx context.Context, interval time.Duration, rs *store.ReminderStore, onFire func([]*models.TriggeredEntry)) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if fired := rs.Evaluate(time.Now()); len(fired) > 0 {
					onFire(fired)
				}
			}
		}
	}()
}

// StartNotificationPoll fetches the unread-notification count, and the most
// recent unread entries when there are any, on a fixed cadence. Errors keep
// the last known set.
func StartNotificationPoll(ctx context.Context, interval time.Duration, client NotificationReader, onUpdate func(int, []models.Notification)) {
	poll := func() {
		tickCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		count, err := client.UnreadCount(tickCtx)
		if err != nil {
			log.Printf("notification poll error: %v", err)
			return
		}

		var unread []models.Notification
		if count > 0 {
			if unread, err = client.ListUnreadNotifications(tickCtx, trayNotificationLimit); err != nil {
				log.Printf("notification list error: %v", err)
				return
			}
		}
		onUpdate(count, unread)
	}

	go poll()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				poll()
			}
		}
	}()
}
