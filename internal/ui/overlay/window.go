// Package overlay renders the panel as a borderless window pinned near the
// top of the screen.
package overlay

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"notchpanel/internal/core/model"
	"notchpanel/internal/core/panel"
)

const (
	maxNoteRows   = 5
	noteRowLength = 36
	minuteStep    = 5
)

// Controller receives the user's interactions with the window.
type Controller interface {
	Hover(hovering bool)
	Toggle()
	ShowMode(mode model.DisplayMode)
	StopAlarm()
	StopFocusRinging()
	ToggleFocus()
	ResetFocus()
	SelectFocusMode(mode model.FocusMode)
	SetFocusDuration(minutes int)
	PauseCountdown()
	ResumeCountdown()
	ResetCountdown()
	AddNote(content string)
	SaveNote(index int, content string)
	DeleteNote(index int)
}

// Window manages the panel UI.
type Window struct {
	window     fyne.Window
	controller Controller
	background *canvas.Rectangle
	accentBar  *canvas.Rectangle
	headline   *canvas.Text
	details    *widget.Label
	stopButton *hoverButton
	expanded   *fyne.Container

	noteList   *fyne.Container
	noteEntry  *hoverEntry
	noteSubmit *hoverButton
	noteCancel *hoverButton
	noteRow    *fyne.Container
	editingID  string
	notes      []model.Note

	focusToggle *hoverButton
	focusRow    *fyne.Container
	session     model.FocusSession

	timerToggle *hoverButton
	timerReset  *hoverButton
	timerRow    *fyne.Container
	countdown   model.CountdownTimer

	visible bool
}

var (
	collapsedSize = fyne.NewSize(320, 36)
	expandedSize  = fyne.NewSize(440, 360)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the panel window. It stays hidden until the first Render.
func New(app fyne.App, controller Controller, accent color.Color) *Window {
	window := app.NewWindow("Notch Panel")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{A: 235})
	background.CornerRadius = 14

	accentBar := canvas.NewRectangle(accent)
	accentBar.SetMinSize(fyne.NewSize(4, 4))

	headline := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	headline.Alignment = fyne.TextAlignCenter
	headline.TextStyle = fyne.TextStyle{Bold: true}
	headline.TextSize = 14

	details := widget.NewLabel("")
	details.Wrapping = fyne.TextWrapWord

	overlay := &Window{
		window:     window,
		controller: controller,
		background: background,
		accentBar:  accentBar,
		headline:   headline,
		details:    details,
	}
	hover := controller.Hover

	overlay.stopButton = newHoverButton("Stop", overlay.stopRinging, hover)
	tabs := container.NewHBox(
		overlay.stopButton,
		newHoverButton("Now", func() { controller.ShowMode(model.ModeCompact) }, hover),
		newHoverButton("Notes", func() { controller.ShowMode(model.ModeNotes) }, hover),
		newHoverButton("Focus", func() { controller.ShowMode(model.ModeProductivity) }, hover),
		newHoverButton("Timer", func() { controller.ShowMode(model.ModeTimer) }, hover),
	)

	overlay.noteList = container.NewVBox()
	overlay.noteEntry = newHoverEntry(hover)
	overlay.noteEntry.SetPlaceHolder("Quick note")
	overlay.noteEntry.OnSubmitted = overlay.submitNote
	overlay.noteSubmit = newHoverButton("Add", func() {
		overlay.submitNote(overlay.noteEntry.Text)
	}, hover)
	overlay.noteCancel = newHoverButton("Cancel", overlay.cancelEdit, hover)
	overlay.noteCancel.Hide()
	overlay.noteRow = container.NewVBox(
		overlay.noteList,
		container.NewBorder(nil, nil, nil, container.NewHBox(overlay.noteCancel, overlay.noteSubmit), overlay.noteEntry),
	)

	overlay.focusToggle = newHoverButton("Start", controller.ToggleFocus, hover)
	overlay.focusRow = container.NewHBox(
		overlay.focusToggle,
		newHoverButton("Reset", controller.ResetFocus, hover),
		newHoverButton("Work", func() { controller.SelectFocusMode(model.FocusWork) }, hover),
		newHoverButton("Break", func() { controller.SelectFocusMode(model.FocusShortBreak) }, hover),
		newHoverButton("Long", func() { controller.SelectFocusMode(model.FocusLongBreak) }, hover),
		newHoverButton("-", func() { overlay.stepFocus(-minuteStep) }, hover),
		newHoverButton("+", func() { overlay.stepFocus(minuteStep) }, hover),
	)

	overlay.timerToggle = newHoverButton("Pause", overlay.toggleCountdown, hover)
	overlay.timerReset = newHoverButton("Reset", controller.ResetCountdown, hover)
	overlay.timerRow = container.NewHBox(overlay.timerToggle, overlay.timerReset)

	overlay.expanded = container.NewVBox(
		details,
		tabs,
		overlay.noteRow,
		overlay.focusRow,
		overlay.timerRow,
	)
	overlay.expanded.Hide()
	overlay.stopButton.Hide()
	overlay.noteRow.Hide()
	overlay.focusRow.Hide()
	overlay.timerRow.Hide()

	pill := newTapArea(container.NewBorder(accentBar, nil, nil, nil, headline), controller.Toggle)
	content := container.NewBorder(pill, nil, nil, nil, overlay.expanded)
	window.SetContent(newHoverArea(container.NewStack(background, container.NewPadded(content)), hover))
	window.Resize(collapsedSize)
	return overlay
}

// Render applies a snapshot. It may be called from any goroutine.
func (overlay *Window) Render(snapshot panel.Snapshot) {
	fyne.Do(func() {
		overlay.renderUnsafe(snapshot)
	})
}

// SetAccent recolors the accent bar.
func (overlay *Window) SetAccent(accent color.Color) {
	fyne.Do(func() {
		overlay.accentBar.FillColor = accent
		overlay.accentBar.Refresh()
	})
}

// Close closes the window.
func (overlay *Window) Close() {
	overlay.window.Close()
}

func (overlay *Window) renderUnsafe(snapshot panel.Snapshot) {
	state := snapshot.Presentation
	if state.Disabled {
		if overlay.visible {
			overlay.window.Hide()
			overlay.visible = false
		}
		return
	}

	overlay.headline.Text = headline(snapshot)
	overlay.headline.Refresh()
	overlay.session = snapshot.Focus
	overlay.countdown = snapshot.Countdown

	if snapshot.AlarmRinging || snapshot.FocusRinging {
		overlay.stopButton.Show()
	} else {
		overlay.stopButton.Hide()
	}

	if state.Expanded {
		overlay.details.SetText(strings.Join(details(snapshot), "\n"))
		shown := controlsFor(state.Mode)
		overlay.renderNotes(snapshot.Notes, shown.notes)
		overlay.renderFocus(snapshot.Focus, shown.focus)
		overlay.renderCountdown(snapshot.Countdown, shown.timer)
		overlay.expanded.Show()
		overlay.window.Resize(expandedSize)
	} else {
		overlay.expanded.Hide()
		overlay.window.Resize(collapsedSize)
	}

	if !overlay.visible {
		overlay.window.Show()
		overlay.window.CenterOnScreen()
		overlay.visible = true
	}
}

func (overlay *Window) renderNotes(notes []model.Note, shown bool) {
	if !shown {
		overlay.noteRow.Hide()
		return
	}
	if !sameNotes(notes, overlay.notes) {
		overlay.notes = append([]model.Note(nil), notes...)
		if overlay.editingID != "" && indexOfNote(notes, overlay.editingID) < 0 {
			overlay.cancelEdit()
		}
		overlay.noteList.RemoveAll()
		for index, note := range notes {
			if index == maxNoteRows {
				break
			}
			id := note.ID
			overlay.noteList.Add(container.NewBorder(nil, nil, nil,
				newHoverButton("Delete", func() { overlay.deleteNote(id) }, overlay.controller.Hover),
				newHoverButton(truncate(note.Content, noteRowLength), func() { overlay.beginEdit(id) }, overlay.controller.Hover),
			))
		}
	}
	overlay.noteRow.Show()
}

func (overlay *Window) renderFocus(session model.FocusSession, shown bool) {
	if !shown {
		overlay.focusRow.Hide()
		return
	}
	if session.Running {
		overlay.focusToggle.SetText("Pause")
	} else {
		overlay.focusToggle.SetText("Start")
	}
	overlay.focusRow.Show()
}

func (overlay *Window) renderCountdown(timer model.CountdownTimer, shown bool) {
	if !shown {
		overlay.timerRow.Hide()
		return
	}
	if timer.Running {
		overlay.timerToggle.SetText("Pause")
	} else {
		overlay.timerToggle.SetText("Resume")
	}
	if timer.Total == 0 {
		overlay.timerToggle.Disable()
		overlay.timerReset.Disable()
	} else {
		overlay.timerToggle.Enable()
		overlay.timerReset.Enable()
	}
	overlay.timerRow.Show()
}

func (overlay *Window) stopRinging() {
	overlay.controller.StopAlarm()
	overlay.controller.StopFocusRinging()
}

func (overlay *Window) stepFocus(delta int) {
	overlay.controller.SetFocusDuration(adjustMinutes(phaseDuration(overlay.session), delta))
}

func (overlay *Window) toggleCountdown() {
	if overlay.countdown.Running {
		overlay.controller.PauseCountdown()
		return
	}
	overlay.controller.ResumeCountdown()
}

func (overlay *Window) beginEdit(id string) {
	index := indexOfNote(overlay.notes, id)
	if index < 0 {
		return
	}
	overlay.editingID = id
	overlay.noteEntry.SetText(overlay.notes[index].Content)
	overlay.noteSubmit.SetText("Save")
	overlay.noteCancel.Show()
}

func (overlay *Window) cancelEdit() {
	overlay.editingID = ""
	overlay.noteEntry.SetText("")
	overlay.noteSubmit.SetText("Add")
	overlay.noteCancel.Hide()
}

func (overlay *Window) deleteNote(id string) {
	if index := indexOfNote(overlay.notes, id); index >= 0 {
		overlay.controller.DeleteNote(index)
	}
	if id == overlay.editingID {
		overlay.cancelEdit()
	}
}

func (overlay *Window) submitNote(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if overlay.editingID != "" {
		if index := indexOfNote(overlay.notes, overlay.editingID); index >= 0 {
			overlay.controller.SaveNote(index, text)
		}
		overlay.cancelEdit()
		return
	}
	overlay.controller.AddNote(text)
	overlay.noteEntry.SetText("")
}
