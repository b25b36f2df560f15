package main

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/penlet/reminders/pkg/models"
)

func (c *Companion) setupSystemTray() {
	c.updateSystemTrayMenu()
}

func (c *Companion) updateSystemTrayMenu() {
	desk, ok := c.app.(desktop.App)
	if !ok {
		return
	}

	c.mu.Lock()
	unread := c.unreadCount
	notifs := c.unreadNotifs
	today := c.todayAlarms
	classes := c.todayClasses
	c.mu.Unlock()

	menuItems := []*fyne.MenuItem{}

	// Unread notification count; clicking opens the portal in a browser.
	notifLabel := "No unread notifications"
	if unread > 0 {
		notifLabel = fmt.Sprintf("Notifications: %d unread", unread)
	}
	menuItems = append(menuItems, fyne.NewMenuItem(notifLabel, func() {
		c.openPortal()
	}))

	// The most recent unread entries; clicking one marks it read on the
	// server and follows its link.
	for _, n := range notifs {
		notif := n
		menuItems = append(menuItems, fyne.NewMenuItem("  "+truncateString(notif.Title, 35), func() {
			c.markNotificationRead(notif)
		}))
	}

	if ringing := c.reminders.RingingCount(); ringing > 0 {
		ringingItem := fyne.NewMenuItem(fmt.Sprintf("%d reminder(s) ringing", ringing), nil)
		ringingItem.Disabled = true
		menuItems = append(menuItems, ringingItem)
	}

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())

	if len(today) > 0 {
		headerItem := fyne.NewMenuItem("Today's reminders:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, alarm := range today {
			item := fyne.NewMenuItem(fmt.Sprintf("  %s - %s",
				alarm.AlarmTime.Time().Local().Format("3:04 PM"),
				truncateString(alarm.Title, 35)), nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	if upcoming := upcomingClasses(classes, time.Now(), 5); len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Today's classes:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, class := range upcoming {
			label := fmt.Sprintf("  %s - %s",
				class.StartTime.Local().Format("3:04 PM"),
				truncateString(class.Subject, 30))
			if class.Room != "" {
				label += " (" + class.Room + ")"
			}
			item := fyne.NewMenuItem(label, nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	muteLabel := "Mute sound"
	if c.reminders.Muted() {
		muteLabel = "Unmute sound"
	}
	menuItems = append(menuItems,
		fyne.NewMenuItem(muteLabel, func() {
			c.toggleMute()
		}),
		fyne.NewMenuItem("Sync now", func() {
			c.refreshAlarms()
		}),
		fyne.NewMenuItem("Settings", func() {
			c.showSettingsWindow()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		c.quit()
	}))

	menu := fyne.NewMenu("Penlet Reminders", menuItems...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(resourceIconPng)
}

func (c *Companion) openPortal() {
	c.openPortalLink("")
}

// openPortalLink opens the portal in a browser, at the given path when the
// notification carries one.
func (c *Companion) openPortalLink(link string) {
	base := c.currentConfig().PortalURL
	if base == "" {
		return
	}
	target := base
	if link != "" {
		if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
			target = link
		} else {
			target = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(link, "/")
		}
	}
	if u, err := url.Parse(target); err == nil {
		c.app.OpenURL(u)
	}
}

// upcomingClasses returns the next classes starting before end of day.
func upcomingClasses(classes []models.Class, now time.Time, limit int) []models.Class {
	todayEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)

	sorted := make([]models.Class, len(classes))
	copy(sorted, classes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	result := []models.Class{}
	for _, class := range sorted {
		if class.StartTime.After(now) && class.StartTime.Before(todayEnd) {
			result = append(result, class)
			if len(result) >= limit {
				break
			}
		}
	}
	return result
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
