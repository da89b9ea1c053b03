// Package preferences implements the settings window.
package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"notchpanel/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   model.Settings
	onSave     func(model.Settings) error
	accent     *widget.Entry
	language   *widget.Select
	pinned     *widget.CheckGroup
	collapse   *widget.Entry
	work       *widget.Entry
	shortBreak *widget.Entry
	longBreak  *widget.Entry
	alarmSound *widget.Check
	notesDir   *widget.Entry
	calendar   *widget.Entry
	status     *widget.Label
}

// New creates a preferences window. onSave persists and applies the edited
// settings; a returned error keeps the window open.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings) error) *Window {
	window := app.NewWindow("Notch Panel Settings")

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		accent:     widget.NewEntry(),
		language:   widget.NewSelect(Languages, nil),
		pinned:     widget.NewCheckGroup(Widgets, nil),
		collapse:   widget.NewEntry(),
		work:       widget.NewEntry(),
		shortBreak: widget.NewEntry(),
		longBreak:  widget.NewEntry(),
		alarmSound: widget.NewCheck("Play alarm sound", nil),
		notesDir:   widget.NewEntry(),
		calendar:   widget.NewEntry(),
		status:     widget.NewLabel(""),
	}
	prefs.pinned.Horizontal = true
	prefs.notesDir.SetPlaceHolder("default")
	prefs.calendar.SetPlaceHolder("path to .ics file")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Appearance", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Accent color", prefs.accent),
			widget.NewFormItem("Language", prefs.language),
			widget.NewFormItem("Collapse after (sec)", prefs.collapse),
		),
		widget.NewLabel("Pinned widgets"),
		prefs.pinned,
		widget.NewLabelWithStyle("Focus", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Work (min)", prefs.work),
			widget.NewFormItem("Short break (min)", prefs.shortBreak),
			widget.NewFormItem("Long break (min)", prefs.longBreak),
		),
		prefs.alarmSound,
		widget.NewLabelWithStyle("Sources", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Notes folder", prefs.notesDir),
			widget.NewFormItem("Calendar", prefs.calendar),
		),
		prefs.status,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(520, 560))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.status.SetText("")
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	values := formFromSettings(settings)
	prefs.accent.SetText(values.Accent)
	prefs.language.SetSelected(values.Language)
	prefs.pinned.SetSelected(values.Pinned)
	prefs.collapse.SetText(values.CollapseDelay)
	prefs.work.SetText(values.Work)
	prefs.shortBreak.SetText(values.ShortBreak)
	prefs.longBreak.SetText(values.LongBreak)
	prefs.alarmSound.SetChecked(values.AlarmSound)
	prefs.notesDir.SetText(values.NotesDir)
	prefs.calendar.SetText(values.CalendarPath)
}

// UpdateFocus replaces the focus durations, leaving other pending edits.
func (prefs *Window) UpdateFocus(config model.FocusConfig) {
	prefs.settings.Focus = config
	values := formFromSettings(prefs.settings)
	prefs.work.SetText(values.Work)
	prefs.shortBreak.SetText(values.ShortBreak)
	prefs.longBreak.SetText(values.LongBreak)
}

func (prefs *Window) handleSave() {
	values := form{
		Accent:        prefs.accent.Text,
		Language:      prefs.language.Selected,
		Pinned:        prefs.pinned.Selected,
		CollapseDelay: prefs.collapse.Text,
		Work:          prefs.work.Text,
		ShortBreak:    prefs.shortBreak.Text,
		LongBreak:     prefs.longBreak.Text,
		AlarmSound:    prefs.alarmSound.Checked,
		NotesDir:      prefs.notesDir.Text,
		CalendarPath:  prefs.calendar.Text,
	}
	settings, err := values.apply(prefs.settings)
	if err != nil {
		prefs.status.SetText(err.Error())
		return
	}
	if prefs.onSave != nil {
		if err := prefs.onSave(settings); err != nil {
			prefs.status.SetText("Save failed: " + err.Error())
			return
		}
	}
	prefs.UpdateSettings(settings)
	prefs.window.Hide()
}
