package main

import (
	"fmt"
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/penlet/reminders/pkg/models"
)

// SettingsWindow edits the companion's configuration: portal connection,
// poll cadences, snooze default, quiet hours, autostart.
type SettingsWindow struct {
	window fyne.Window
	config *models.Config
	onSave func(*models.Config)
}

func (c *Companion) showSettingsWindow() {
	if c.settingsWindow != nil && c.settingsWindow.window != nil {
		c.settingsWindow.window.RequestFocus()
		c.settingsWindow.window.Show()
		return
	}

	c.settingsWindow = NewSettingsWindow(c.app, c.currentConfig(), func(newConfig *models.Config) {
		c.setConfig(newConfig)
		c.configStore.Save(newConfig)

		if err := setupAutostart(newConfig.AutoStart); err != nil {
			log.Printf("Warning: failed to setup autostart: %v", err)
		}

		c.startLoops()
		c.warnIfSessionExpiring()
		c.updateSystemTrayMenu()
	})
	c.settingsWindow.window.SetOnClosed(func() {
		c.settingsWindow = nil
	})
	c.settingsWindow.Show()
}

func NewSettingsWindow(app fyne.App, config *models.Config, onSave func(*models.Config)) *SettingsWindow {
	sw := &SettingsWindow{
		window: app.NewWindow("Penlet Reminders Settings"),
		config: config,
		onSave: onSave,
	}
	sw.buildUI()
	return sw
}

func (sw *SettingsWindow) buildUI() {
	portalEntry := widget.NewEntry()
	portalEntry.SetPlaceHolder("https://portal.example.edu")
	portalEntry.SetText(sw.config.PortalURL)

	tokenEntry := widget.NewPasswordEntry()
	tokenEntry.SetPlaceHolder("paste your portal access token")
	tokenEntry.SetText(sw.config.APIToken)

	timetableEntry := widget.NewEntry()
	timetableEntry.SetPlaceHolder("optional iCal timetable URL")
	timetableEntry.SetText(sw.config.TimetableURL)

	pollEntry := widget.NewEntry()
	pollEntry.SetText(strconv.Itoa(sw.config.PollInterval))

	snoozeEntry := widget.NewEntry()
	snoozeEntry.SetText(strconv.Itoa(sw.config.SnoozeMinutes))

	quietEntry := widget.NewEntry()
	quietEntry.SetPlaceHolder("22:00-07:30, 12:30-13:00")
	quietEntry.SetText(models.FormatTimeRanges(sw.config.QuietHourRanges))

	autostartCheck := widget.NewCheck("Launch at login", nil)
	autostartCheck.SetChecked(sw.config.AutoStart)

	form := widget.NewForm(
		widget.NewFormItem("Portal URL", portalEntry),
		widget.NewFormItem("Access token", tokenEntry),
		widget.NewFormItem("Timetable feed", timetableEntry),
		widget.NewFormItem("Poll every (s)", pollEntry),
		widget.NewFormItem("Snooze (min)", snoozeEntry),
		widget.NewFormItem("Quiet hours", quietEntry),
		widget.NewFormItem("", autostartCheck),
	)

	saveButton := widget.NewButton("Save", func() {
		newConfig := *sw.config

		newConfig.PortalURL = portalEntry.Text
		newConfig.APIToken = tokenEntry.Text
		newConfig.TimetableURL = timetableEntry.Text
		newConfig.AutoStart = autostartCheck.Checked

		poll, err := strconv.Atoi(pollEntry.Text)
		if err != nil || poll < 10 {
			dialog.ShowError(fmt.Errorf("poll interval must be a number of seconds, 10 or more"), sw.window)
			return
		}
		newConfig.PollInterval = poll

		snooze, err := strconv.Atoi(snoozeEntry.Text)
		if err != nil || snooze < 1 {
			dialog.ShowError(fmt.Errorf("snooze must be a positive number of minutes"), sw.window)
			return
		}
		newConfig.SnoozeMinutes = snooze

		quiet, err := models.ParseTimeRanges(quietEntry.Text)
		if err != nil {
			dialog.ShowError(err, sw.window)
			return
		}
		newConfig.QuietHourRanges = quiet

		sw.onSave(&newConfig)
		sw.window.Close()
	})
	saveButton.Importance = widget.HighImportance

	cancelButton := widget.NewButton("Cancel", func() {
		sw.window.Close()
	})

	sw.window.SetContent(container.NewVBox(
		form,
		container.NewHBox(cancelButton, saveButton),
	))
	sw.window.Resize(fyne.NewSize(480, 360))
}

func (sw *SettingsWindow) Show() {
	sw.window.Show()
}
