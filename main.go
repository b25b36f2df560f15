package main

import (
	"context"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/penlet/reminders/pkg/audio"
	"github.com/penlet/reminders/pkg/jobs"
	"github.com/penlet/reminders/pkg/models"
	"github.com/penlet/reminders/pkg/portal"
	"github.com/penlet/reminders/pkg/store"
)

// Companion is the tray app that keeps Penlet reminders ringing on the
// desktop: it polls the portal, fires pop-ups when an alarm enters its
// window, and relays snooze/dismiss decisions back.
type Companion struct {
	app         fyne.App
	config      *models.Config
	configStore *store.ConfigStore
	reminders   *store.ReminderStore
	client      *portal.Client
	siren       *audio.Siren

	loopCancel context.CancelFunc

	mu             sync.Mutex
	popups         map[string]*AlertWindow // keyed by alarm ID
	unreadCount    int
	unreadNotifs   []models.Notification
	todayAlarms    []models.Alarm
	todayClasses   []models.Class
	settingsWindow *SettingsWindow
}

// currentConfig returns the active config pointer. The settings window
// swaps the pointer on save while job goroutines read it, so both sides go
// through the mutex. The Config value itself is never mutated after load.
func (c *Companion) currentConfig() *models.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

func (c *Companion) setConfig(cfg *models.Config) {
	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()
}

func main() {
	c := &Companion{
		app:       app.NewWithID("com.penlet.reminders"),
		reminders: store.NewReminderStore(),
		popups:    make(map[string]*AlertWindow),
	}
	c.initialize()
	c.app.Run()
}

func (c *Companion) initialize() {
	c.configStore = store.NewConfigStore(c.app)
	c.setConfig(c.configStore.Load())
	c.siren = audio.NewSiren(alarmSoundWAV)

	if err := setupAutostart(c.currentConfig().AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	c.setupSystemTray()
	c.startLoops()

	if c.currentConfig().NeedsConfiguration() {
		c.showSettingsWindow()
	} else {
		c.warnIfSessionExpiring()
	}
}

// startLoops builds a fresh portal client from the current config and
// starts the background loops under a new context. Safe to call again
// after a settings change; the previous loops are cancelled first.
func (c *Companion) startLoops() {
	if c.loopCancel != nil {
		c.loopCancel()
	}
	cfg := c.currentConfig()
	if cfg.NeedsConfiguration() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.loopCancel = cancel

	c.client = portal.NewClient(cfg.PortalURL, cfg.APIToken)

	jobs.StartAlarmPoll(ctx, cfg.PollEvery(), c.client, c.reminders, func() {
		c.refreshToday(ctx)
		c.updateSiren()
		c.updateSystemTrayMenu()
	})
	jobs.StartTriggerLoop(ctx, cfg.CheckEvery(), c.reminders, c.onFired)
	jobs.StartNotificationPoll(ctx, cfg.NotifyEvery(), c.client, func(count int, unread []models.Notification) {
		c.mu.Lock()
		c.unreadCount = count
		c.unreadNotifs = unread
		c.mu.Unlock()
		c.updateSystemTrayMenu()
	})
	jobs.StartTimetableSync(ctx, 30*time.Minute, cfg.TimetableURL, func(classes []models.Class) {
		c.mu.Lock()
		c.todayClasses = classes
		c.mu.Unlock()
		c.updateSystemTrayMenu()
	})
}

// onFired runs for every batch of newly triggered reminders: one pop-up
// and one system notification each, then a single siren reconciliation.
func (c *Companion) onFired(entries []*models.TriggeredEntry) {
	for _, entry := range entries {
		log.Printf("Reminder fired: %s (due %s)", entry.Title, entry.AlarmTime.Format(time.RFC3339))
		c.notifySystem(entry)
		c.showPopup(entry)
	}
	c.updateSiren()
	c.updateSystemTrayMenu()
}

func (c *Companion) showPopup(entry *models.TriggeredEntry) {
	cfg := c.currentConfig()
	popup := NewAlertWindow(c.app, entry, cfg.SnoozeMinutes, cfg.HoldTimeSeconds, alertActions{
		snooze:  func() { c.snooze(entry.AlarmID) },
		dismiss: func() { c.dismiss(entry.AlarmID) },
		closed:  func() { c.closeLocally(entry.AlarmID) },
	})

	c.mu.Lock()
	c.popups[entry.AlarmID] = popup
	c.mu.Unlock()

	popup.Show()
}

// snooze asks the server to defer the alarm. Local state changes only on
// success; on failure the pop-up stays up so the user can retry.
func (c *Companion) snooze(alarmID string) {
	c.reminders.MarkStatus(alarmID, models.TriggerStatusSnoozing)
	c.popupSetBusy(alarmID, true)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := c.client.SnoozeAlarm(ctx, alarmID, c.currentConfig().SnoozeMinutes); err != nil {
			log.Printf("Snooze failed for %s: %v", alarmID, err)
			c.reminders.MarkStatus(alarmID, models.TriggerStatusRinging)
			c.popupSetBusy(alarmID, false)
			c.popupShowError(alarmID, err)
			return
		}

		c.reminders.ResolveSnoozed(alarmID)
		c.closePopup(alarmID)
		c.updateSiren()
		c.refreshAlarms()
	}()
}

// dismiss asks the server to mark the alarm handled for good.
func (c *Companion) dismiss(alarmID string) {
	c.reminders.MarkStatus(alarmID, models.TriggerStatusDismissing)
	c.popupSetBusy(alarmID, true)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := c.client.DismissAlarm(ctx, alarmID); err != nil {
			log.Printf("Dismiss failed for %s: %v", alarmID, err)
			c.reminders.MarkStatus(alarmID, models.TriggerStatusRinging)
			c.popupSetBusy(alarmID, false)
			c.popupShowError(alarmID, err)
			return
		}

		c.reminders.ResolveDismissed(alarmID)
		c.closePopup(alarmID)
		c.updateSiren()
		c.refreshAlarms()
	}()
}

// closeLocally silences the pop-up without touching server state.
func (c *Companion) closeLocally(alarmID string) {
	c.reminders.CloseLocally(alarmID)
	c.closePopup(alarmID)
	c.updateSiren()
	c.updateSystemTrayMenu()
}

// markNotificationRead tells the server the notification was seen, drops it
// from the tray list, and follows its link. The tray keeps the entry on
// failure so the click can be retried.
func (c *Companion) markNotificationRead(n models.Notification) {
	if c.client == nil {
		return
	}
	c.openPortalLink(n.Link)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.client.MarkNotificationRead(ctx, n.ID); err != nil {
			log.Printf("Mark notification read failed for %s: %v", n.ID, err)
			return
		}

		c.mu.Lock()
		kept := make([]models.Notification, 0, len(c.unreadNotifs))
		for _, other := range c.unreadNotifs {
			if other.ID != n.ID {
				kept = append(kept, other)
			}
		}
		c.unreadNotifs = kept
		if c.unreadCount > 0 {
			c.unreadCount--
		}
		c.mu.Unlock()
		c.updateSystemTrayMenu()
	}()
}

func (c *Companion) toggleMute() {
	c.reminders.SetMuted(!c.reminders.Muted())
	c.updateSiren()
	c.updateSystemTrayMenu()
}

// updateSiren reconciles the shared alarm loop: playing iff something is
// ringing, the session is not muted, and we are outside quiet hours.
func (c *Companion) updateSiren() {
	c.siren.SetActive(c.reminders.ShouldSound() && !c.currentConfig().IsInQuietHours(time.Now()))
}

// refreshAlarms forces an immediate poll outside the regular cadence,
// used after snooze/dismiss so the snapshot reflects the action.
func (c *Companion) refreshAlarms() {
	if c.client == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		alarms, err := c.client.ListActiveAlarms(ctx)
		if err != nil {
			log.Printf("Alarm refresh error (keeping stale snapshot): %v", err)
			return
		}
		c.reminders.SetAlarms(alarms)
		c.refreshToday(ctx)
		c.updateSiren()
		c.updateSystemTrayMenu()
	}()
}

func (c *Companion) refreshToday(ctx context.Context) {
	today, err := c.client.TodayAlarms(ctx)
	if err != nil {
		log.Printf("Today's alarms fetch error: %v", err)
		return
	}
	c.mu.Lock()
	c.todayAlarms = today
	c.mu.Unlock()
}

func (c *Companion) popupSetBusy(alarmID string, busy bool) {
	c.mu.Lock()
	popup := c.popups[alarmID]
	c.mu.Unlock()
	if popup != nil {
		popup.SetBusy(busy)
	}
}

func (c *Companion) popupShowError(alarmID string, err error) {
	c.mu.Lock()
	popup := c.popups[alarmID]
	c.mu.Unlock()
	if popup != nil {
		popup.ShowError(err)
	}
}

func (c *Companion) closePopup(alarmID string) {
	c.mu.Lock()
	popup := c.popups[alarmID]
	delete(c.popups, alarmID)
	c.mu.Unlock()
	if popup != nil {
		popup.Close()
	}
}

// warnIfSessionExpiring posts a one-shot notification when the stored
// portal token runs out within a day. Polling fails loudly enough once it
// actually expires; this is just the heads-up.
func (c *Companion) warnIfSessionExpiring() {
	if portal.TokenExpiresWithin(c.currentConfig().APIToken, time.Now(), 24*time.Hour) {
		c.app.SendNotification(fyne.NewNotification(
			"Penlet session expiring",
			"Your portal session expires soon. Sign in to the portal and paste a fresh token in Settings.",
		))
	}
}

func (c *Companion) quit() {
	if c.loopCancel != nil {
		c.loopCancel()
	}
	c.siren.SetActive(false)
	c.app.Quit()
}
