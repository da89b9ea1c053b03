package overlay

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"notchpanel/internal/core/model"
	"notchpanel/internal/core/panel"
)

type savedNote struct {
	index   int
	content string
}

type recordingController struct {
	hovers  []bool
	toggles int
	modes   []model.DisplayMode
	added   []string
	saved   []savedNote
	deleted []int
	minutes []int
	stops   int
}

func (c *recordingController) Hover(hovering bool)                { c.hovers = append(c.hovers, hovering) }
func (c *recordingController) Toggle()                            { c.toggles++ }
func (c *recordingController) ShowMode(mode model.DisplayMode)    { c.modes = append(c.modes, mode) }
func (c *recordingController) StopAlarm()                         { c.stops++ }
func (c *recordingController) StopFocusRinging()                  { c.stops++ }
func (c *recordingController) ToggleFocus()                       {}
func (c *recordingController) ResetFocus()                        {}
func (c *recordingController) SelectFocusMode(model.FocusMode)    {}
func (c *recordingController) SetFocusDuration(minutes int)       { c.minutes = append(c.minutes, minutes) }
func (c *recordingController) PauseCountdown()                    {}
func (c *recordingController) ResumeCountdown()                   {}
func (c *recordingController) ResetCountdown()                    {}
func (c *recordingController) AddNote(content string)             { c.added = append(c.added, content) }
func (c *recordingController) SaveNote(index int, content string) { c.saved = append(c.saved, savedNote{index, content}) }
func (c *recordingController) DeleteNote(index int)               { c.deleted = append(c.deleted, index) }

var _ Controller = (*panel.Panel)(nil)

func notesSnapshot(notes ...model.Note) panel.Snapshot {
	snapshot := panel.Snapshot{Notes: notes}
	snapshot.Presentation = model.PresentationState{Mode: model.ModeNotes, Expanded: true}
	return snapshot
}

func TestWindowEditsNotesByID(t *testing.T) {
	app := test.NewTempApp(t)
	controller := &recordingController{}
	window := New(app, controller, defaultAccent)

	window.renderUnsafe(notesSnapshot(model.Note{ID: "n-2", Content: "second"}, model.Note{ID: "n-1", Content: "first"}))
	if window.noteRow.Hidden || len(window.noteList.Objects) != 2 {
		t.Fatalf("note rows = %d hidden=%v, want 2 shown", len(window.noteList.Objects), window.noteRow.Hidden)
	}

	window.beginEdit("n-1")
	if window.noteEntry.Text != "first" || window.noteSubmit.Text != "Save" {
		t.Fatalf("entry = %q, submit = %q; want editing first", window.noteEntry.Text, window.noteSubmit.Text)
	}
	// A new note arrives on top while editing; the edit follows the id.
	window.renderUnsafe(notesSnapshot(
		model.Note{ID: "n-3", Content: "third"},
		model.Note{ID: "n-2", Content: "second"},
		model.Note{ID: "n-1", Content: "first"},
	))
	window.submitNote("first edited")
	if len(controller.saved) != 1 || controller.saved[0] != (savedNote{2, "first edited"}) {
		t.Fatalf("saved = %+v, want index 2", controller.saved)
	}
	if window.editingID != "" || window.noteSubmit.Text != "Add" {
		t.Fatal("edit state not cleared after save")
	}

	window.deleteNote("n-2")
	window.submitNote("  fresh  ")
	window.submitNote("   ")
	if len(controller.deleted) != 1 || controller.deleted[0] != 1 {
		t.Fatalf("deleted = %v, want [1]", controller.deleted)
	}
	if len(controller.added) != 1 || controller.added[0] != "fresh" {
		t.Fatalf("added = %q, want [fresh]", controller.added)
	}
}

func TestWindowShowsModeControls(t *testing.T) {
	app := test.NewTempApp(t)
	controller := &recordingController{}
	window := New(app, controller, defaultAccent)

	snapshot := panel.Snapshot{Focus: model.FocusSession{Mode: model.FocusWork, WorkDuration: 25 * time.Minute}}
	snapshot.Presentation = model.PresentationState{Mode: model.ModeProductivity, Expanded: true}
	window.renderUnsafe(snapshot)
	if window.focusRow.Hidden || !window.noteRow.Hidden || !window.timerRow.Hidden {
		t.Fatal("productivity mode should show only the focus row")
	}
	window.stepFocus(minuteStep)
	if len(controller.minutes) != 1 || controller.minutes[0] != 30 {
		t.Fatalf("focus minutes = %v, want [30]", controller.minutes)
	}

	snapshot.Presentation.Mode = model.ModeTimer
	window.renderUnsafe(snapshot)
	if window.timerRow.Hidden || !window.timerToggle.Disabled() {
		t.Fatal("timer row should show with controls disabled before a countdown starts")
	}
}

func TestHoverTargetsForwardPointer(t *testing.T) {
	test.NewTempApp(t)
	controller := &recordingController{}

	area := newHoverArea(nil, controller.Hover)
	area.MouseIn(&desktop.MouseEvent{})
	area.MouseMoved(&desktop.MouseEvent{})
	area.MouseOut()

	button := newHoverButton("Notes", nil, controller.Hover)
	button.MouseIn(&desktop.MouseEvent{})
	button.MouseOut()

	entry := newHoverEntry(controller.Hover)
	entry.MouseIn(&desktop.MouseEvent{})
	entry.MouseOut()

	want := []bool{true, false, true, false, true, false}
	if len(controller.hovers) != len(want) {
		t.Fatalf("hovers = %v, want %v", controller.hovers, want)
	}
	for index := range want {
		if controller.hovers[index] != want[index] {
			t.Fatalf("hovers = %v, want %v", controller.hovers, want)
		}
	}

	pill := newTapArea(nil, controller.Toggle)
	pill.Tapped(nil)
	if controller.toggles != 1 {
		t.Fatalf("toggles = %d, want 1", controller.toggles)
	}
}
