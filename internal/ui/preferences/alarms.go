package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"notchpanel/internal/core/model"
)

// AlarmActions apply edits made in the alarms window. A returned error is
// shown in the window.
type AlarmActions struct {
	Add        func(model.Alarm) error
	Update     func(model.Alarm) error
	Delete     func(id string) error
	SetEnabled func(id string, enabled bool) error
}

// AlarmsWindow lists alarms and edits them.
type AlarmsWindow struct {
	window    fyne.Window
	actions   AlarmActions
	list      *fyne.Container
	timeEntry *widget.Entry
	label     *widget.Entry
	days      *widget.CheckGroup
	submit    *widget.Button
	cancel    *widget.Button
	status    *widget.Label
	alarms    []model.Alarm
	editingID string
}

// NewAlarms creates the alarms window.
func NewAlarms(app fyne.App, actions AlarmActions) *AlarmsWindow {
	window := app.NewWindow("Notch Panel Alarms")
	editor := &AlarmsWindow{
		window:    window,
		actions:   actions,
		list:      container.NewVBox(),
		timeEntry: widget.NewEntry(),
		label:     widget.NewEntry(),
		days:      widget.NewCheckGroup(Days, nil),
		status:    widget.NewLabel(""),
	}
	editor.timeEntry.SetPlaceHolder("07:30")
	editor.label.SetPlaceHolder("label")
	editor.days.Horizontal = true
	editor.submit = widget.NewButton("Add", editor.handleSubmit)
	editor.cancel = widget.NewButton("Cancel", editor.resetForm)
	editor.cancel.Hide()

	form := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Time", editor.timeEntry),
			widget.NewFormItem("Label", editor.label),
		),
		widget.NewLabel("Repeat (none means once)"),
		editor.days,
		container.NewHBox(editor.submit, editor.cancel, layout.NewSpacer()),
		editor.status,
	)
	window.SetContent(container.NewBorder(nil, form, nil, nil, container.NewVScroll(editor.list)))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(460, 420))
	return editor
}

// Show displays the window.
func (editor *AlarmsWindow) Show() {
	editor.status.SetText("")
	editor.window.Show()
	editor.window.RequestFocus()
}

// SetAlarms replaces the listed alarms. Call it on the UI thread.
func (editor *AlarmsWindow) SetAlarms(alarms []model.Alarm) {
	if sameAlarms(alarms, editor.alarms) {
		return
	}
	editor.alarms = append([]model.Alarm(nil), alarms...)
	editor.list.RemoveAll()
	for _, alarm := range alarms {
		editor.list.Add(editor.row(alarm))
	}
	if editor.editingID != "" && editor.find(editor.editingID) < 0 {
		editor.resetForm()
	}
}

func (editor *AlarmsWindow) row(alarm model.Alarm) fyne.CanvasObject {
	id := alarm.ID
	enabled := widget.NewCheck(alarmLine(alarm), nil)
	enabled.SetChecked(alarm.Enabled)
	enabled.OnChanged = func(on bool) {
		editor.report(call2(editor.actions.SetEnabled, id, on))
	}
	return container.NewBorder(nil, nil, nil,
		container.NewHBox(
			widget.NewButton("Edit", func() { editor.beginEdit(id) }),
			widget.NewButton("Delete", func() { editor.report(call1(editor.actions.Delete, id)) }),
		),
		enabled,
	)
}

func (editor *AlarmsWindow) beginEdit(id string) {
	index := editor.find(id)
	if index < 0 {
		return
	}
	values := alarmFormFrom(editor.alarms[index])
	editor.editingID = id
	editor.timeEntry.SetText(values.Time)
	editor.label.SetText(values.Label)
	editor.days.SetSelected(values.Days)
	editor.submit.SetText("Save")
	editor.cancel.Show()
}

func (editor *AlarmsWindow) resetForm() {
	editor.editingID = ""
	editor.timeEntry.SetText("")
	editor.label.SetText("")
	editor.days.SetSelected(nil)
	editor.submit.SetText("Add")
	editor.cancel.Hide()
}

func (editor *AlarmsWindow) handleSubmit() {
	values := alarmForm{Time: editor.timeEntry.Text, Label: editor.label.Text, Days: editor.days.Selected}
	alarm, err := values.alarm()
	if err != nil {
		editor.status.SetText(err.Error())
		return
	}
	if index := editor.find(editor.editingID); index >= 0 {
		alarm.ID = editor.alarms[index].ID
		alarm.Enabled = editor.alarms[index].Enabled
		err = call1(editor.actions.Update, alarm)
	} else {
		err = call1(editor.actions.Add, alarm)
	}
	if err != nil {
		editor.report(err)
		return
	}
	editor.resetForm()
	editor.status.SetText("")
}

func (editor *AlarmsWindow) report(err error) {
	if err != nil {
		editor.status.SetText("Alarm not saved: " + err.Error())
	}
}

func (editor *AlarmsWindow) find(id string) int {
	if id == "" {
		return -1
	}
	for index, alarm := range editor.alarms {
		if alarm.ID == id {
			return index
		}
	}
	return -1
}

func sameAlarms(a, b []model.Alarm) bool {
	if len(a) != len(b) {
		return false
	}
	for index := range a {
		if a[index] != b[index] {
			return false
		}
	}
	return true
}

func call1[T any](action func(T) error, value T) error {
	if action == nil {
		return nil
	}
	return action(value)
}

func call2[A, B any](action func(A, B) error, first A, second B) error {
	if action == nil {
		return nil
	}
	return action(first, second)
}
