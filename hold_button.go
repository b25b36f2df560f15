package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// HoldButton is a button that requires the user to hold it down, used for
// dismiss so a stray click cannot permanently kill a reminder.
type HoldButton struct {
	widget.BaseWidget
	Text        string
	OnHoldStart func()
	OnHoldEnd   func()

	holding  bool
	hovered  bool
	disabled bool
	progress float64
}

func NewHoldButton(text string, onHoldStart, onHoldEnd func()) *HoldButton {
	b := &HoldButton{
		Text:        text,
		OnHoldStart: onHoldStart,
		OnHoldEnd:   onHoldEnd,
	}
	b.ExtendBaseWidget(b)
	return b
}

func (b *HoldButton) CreateRenderer() fyne.WidgetRenderer {
	text := canvas.NewText(b.Text, theme.ForegroundColor())
	text.Alignment = fyne.TextAlignCenter

	bg := canvas.NewRectangle(theme.ButtonColor())
	progressBar := canvas.NewRectangle(theme.PrimaryColor())

	return &holdButtonRenderer{
		button:      b,
		text:        text,
		bg:          bg,
		progressBar: progressBar,
	}
}

// SetProgress fills the button from the left; 1.0 means the hold completed.
func (b *HoldButton) SetProgress(progress float64) {
	b.progress = progress
	b.Refresh()
}

func (b *HoldButton) Disable() {
	b.disabled = true
	b.endHold()
	b.Refresh()
}

func (b *HoldButton) Enable() {
	b.disabled = false
	b.Refresh()
}

func (b *HoldButton) endHold() {
	if b.holding {
		b.holding = false
		if b.OnHoldEnd != nil {
			b.OnHoldEnd()
		}
	}
}

func (b *HoldButton) Tapped(*fyne.PointEvent) {
	// Tapped fires on release, the hold behavior lives in MouseDown/Up
}

func (b *HoldButton) TappedSecondary(*fyne.PointEvent) {
}

func (b *HoldButton) MouseIn(*desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

func (b *HoldButton) MouseMoved(*desktop.MouseEvent) {
}

func (b *HoldButton) MouseOut() {
	b.hovered = false
	// Leaving the button cancels the hold
	b.endHold()
	b.Refresh()
}

func (b *HoldButton) MouseDown(*desktop.MouseEvent) {
	if b.disabled || b.holding {
		return
	}
	b.holding = true
	b.Refresh()
	if b.OnHoldStart != nil {
		b.OnHoldStart()
	}
}

func (b *HoldButton) MouseUp(*desktop.MouseEvent) {
	b.endHold()
	b.Refresh()
}

type holdButtonRenderer struct {
	button      *HoldButton
	text        *canvas.Text
	bg          *canvas.Rectangle
	progressBar *canvas.Rectangle
}

func (r *holdButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.text.Resize(size)

	// Progress bar fills from left to right
	progressWidth := size.Width * float32(r.button.progress)
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))
	r.progressBar.Move(fyne.NewPos(0, 0))
}

func (r *holdButtonRenderer) MinSize() fyne.Size {
	textSize := r.text.MinSize()
	minWidth := textSize.Width + theme.Padding()*6
	minHeight := textSize.Height + theme.Padding()*3

	if minWidth < 160 {
		minWidth = 160
	}
	if minHeight < 40 {
		minHeight = 40
	}

	return fyne.NewSize(minWidth, minHeight)
}

func (r *holdButtonRenderer) Refresh() {
	r.text.Text = r.button.Text
	if r.button.disabled {
		r.text.Color = theme.DisabledColor()
	} else {
		r.text.Color = theme.ForegroundColor()
	}

	switch {
	case r.button.disabled:
		r.bg.FillColor = theme.DisabledButtonColor()
	case r.button.hovered:
		r.bg.FillColor = theme.HoverColor()
	default:
		r.bg.FillColor = theme.ButtonColor()
	}

	size := r.bg.Size()
	progressWidth := size.Width * float32(r.button.progress)
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))

	r.bg.Refresh()
	r.progressBar.Refresh()
	r.text.Refresh()
}

func (r *holdButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progressBar, r.text}
}

func (r *holdButtonRenderer) Destroy() {
}
