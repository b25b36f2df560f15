package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/penlet/reminders/pkg/models"
)

// alertActions are the three ways out of a reminder pop-up. snooze and
// dismiss go to the server; closed is local-only.
type alertActions struct {
	snooze  func()
	dismiss func()
	closed  func()
}

// AlertWindow is one pop-up for one ringing reminder. Dismiss is permanent
// server-side, so it sits behind a hold-to-confirm button; snooze and close
// are single clicks.
type AlertWindow struct {
	window  fyne.Window
	app     fyne.App
	entry   *models.TriggeredEntry
	actions alertActions

	snoozeMinutes   int
	holdTimeSeconds int

	snoozeButton  *widget.Button
	closeButton   *widget.Button
	dismissButton *HoldButton

	dismissHeld     bool
	dismissProgress float64
	dismissTicker   *time.Ticker
}

func NewAlertWindow(app fyne.App, entry *models.TriggeredEntry, snoozeMinutes, holdTimeSeconds int, actions alertActions) *AlertWindow {
	aw := &AlertWindow{
		app:             app,
		entry:           entry,
		actions:         actions,
		snoozeMinutes:   snoozeMinutes,
		holdTimeSeconds: holdTimeSeconds,
	}

	fyne.Do(func() {
		aw.window = app.NewWindow("Reminder")
		aw.buildUI()

		// The title bar close is the local escape hatch, same as the
		// Close button: no server call, alarm stays active.
		aw.window.SetCloseIntercept(func() {
			if aw.actions.closed != nil {
				aw.actions.closed()
			}
		})
	})

	return aw
}

func (aw *AlertWindow) buildUI() {
	title := canvas.NewText(aw.entry.Title, nil)
	title.TextSize = 24
	title.Alignment = fyne.TextAlignCenter

	timeLabel := widget.NewLabel("Due " + aw.entry.AlarmTime.Local().Format("3:04 PM, Mon Jan 2"))
	timeLabel.Alignment = fyne.TextAlignCenter

	content := container.NewVBox(
		container.NewPadded(title),
		timeLabel,
	)

	if aw.entry.Description != "" {
		description := widget.NewLabel(aw.entry.Description)
		description.Wrapping = fyne.TextWrapWord
		description.Alignment = fyne.TextAlignCenter
		content.Add(widget.NewSeparator())
		content.Add(container.NewPadded(description))
	}

	content.Add(widget.NewSeparator())

	aw.snoozeButton = widget.NewButton(fmt.Sprintf("Snooze %dm", aw.snoozeMinutes), func() {
		if aw.actions.snooze != nil {
			aw.actions.snooze()
		}
	})
	aw.snoozeButton.Importance = widget.HighImportance

	aw.closeButton = widget.NewButton("Close", func() {
		if aw.actions.closed != nil {
			aw.actions.closed()
		}
	})

	aw.dismissButton = NewHoldButton(fmt.Sprintf("Dismiss (hold %ds)", aw.holdTimeSeconds), func() {
		aw.startDismissProgress()
	}, func() {
		aw.stopDismissProgress()
	})

	content.Add(container.NewHBox(aw.snoozeButton, aw.dismissButton, aw.closeButton))

	aw.window.SetContent(container.NewPadded(container.NewCenter(content)))
}

func (aw *AlertWindow) startDismissProgress() {
	if aw.dismissHeld {
		return
	}
	aw.dismissHeld = true
	aw.dismissProgress = 0

	tickInterval := 50 * time.Millisecond
	increment := 1.0 / (float64(aw.holdTimeSeconds*1000) / float64(tickInterval.Milliseconds()))

	aw.dismissTicker = time.NewTicker(tickInterval)
	go func() {
		for range aw.dismissTicker.C {
			if !aw.dismissHeld {
				return
			}

			aw.dismissProgress += increment
			progress := aw.dismissProgress
			fyne.Do(func() {
				aw.dismissButton.SetProgress(progress)
			})

			if progress >= 1.0 {
				aw.dismissTicker.Stop()
				aw.dismissHeld = false
				if aw.actions.dismiss != nil {
					aw.actions.dismiss()
				}
				return
			}
		}
	}()
}

func (aw *AlertWindow) stopDismissProgress() {
	aw.dismissHeld = false
	if aw.dismissTicker != nil {
		aw.dismissTicker.Stop()
	}
	aw.dismissProgress = 0
	fyne.Do(func() {
		aw.dismissButton.SetProgress(0)
	})
}

// SetBusy disables the action buttons while a server call is in flight.
func (aw *AlertWindow) SetBusy(busy bool) {
	fyne.Do(func() {
		if busy {
			aw.snoozeButton.Disable()
			aw.closeButton.Disable()
			aw.dismissButton.Disable()
		} else {
			aw.snoozeButton.Enable()
			aw.closeButton.Enable()
			aw.dismissButton.Enable()
		}
	})
}

// ShowError surfaces a failed snooze/dismiss. The pop-up stays up so the
// button can simply be pressed again.
func (aw *AlertWindow) ShowError(err error) {
	fyne.Do(func() {
		dialog.ShowError(err, aw.window)
	})
}

func (aw *AlertWindow) Show() {
	fyne.Do(func() {
		if aw.window != nil {
			aw.window.Show()
			aw.window.RequestFocus()
		}
	})
}

func (aw *AlertWindow) Close() {
	fyne.Do(func() {
		if aw.dismissTicker != nil {
			aw.dismissTicker.Stop()
		}
		if aw.window != nil {
			aw.window.Close()
		}
	})
}
