package overlay

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// hoverArea reports pointer enter/leave for the whole panel. Interactive
// children are hover targets of their own, so they report presence too.
type hoverArea struct {
	widget.BaseWidget
	content fyne.CanvasObject
	hover   func(bool)
}

var _ desktop.Hoverable = (*hoverArea)(nil)

func newHoverArea(content fyne.CanvasObject, hover func(bool)) *hoverArea {
	area := &hoverArea{content: content, hover: hover}
	area.ExtendBaseWidget(area)
	return area
}

func (area *hoverArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(area.content)
}

func (area *hoverArea) MouseIn(*desktop.MouseEvent) {
	area.hover(true)
}

func (area *hoverArea) MouseMoved(*desktop.MouseEvent) {}

func (area *hoverArea) MouseOut() {
	area.hover(false)
}

// tapArea toggles the panel when the collapsed pill is tapped.
type tapArea struct {
	widget.BaseWidget
	content fyne.CanvasObject
	tapped  func()
}

var _ fyne.Tappable = (*tapArea)(nil)

func newTapArea(content fyne.CanvasObject, tapped func()) *tapArea {
	area := &tapArea{content: content, tapped: tapped}
	area.ExtendBaseWidget(area)
	return area
}

func (area *tapArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(area.content)
}

func (area *tapArea) Tapped(*fyne.PointEvent) {
	area.tapped()
}

type hoverButton struct {
	widget.Button
	hover func(bool)
}

func newHoverButton(label string, tapped func(), hover func(bool)) *hoverButton {
	button := &hoverButton{hover: hover}
	button.Text = label
	button.OnTapped = tapped
	button.ExtendBaseWidget(button)
	return button
}

func (button *hoverButton) MouseIn(event *desktop.MouseEvent) {
	button.Button.MouseIn(event)
	button.hover(true)
}

func (button *hoverButton) MouseOut() {
	button.Button.MouseOut()
	button.hover(false)
}

type hoverEntry struct {
	widget.Entry
	hover func(bool)
}

func newHoverEntry(hover func(bool)) *hoverEntry {
	entry := &hoverEntry{hover: hover}
	entry.ExtendBaseWidget(entry)
	return entry
}

func (entry *hoverEntry) MouseIn(event *desktop.MouseEvent) {
	if inner, ok := any(&entry.Entry).(desktop.Hoverable); ok {
		inner.MouseIn(event)
	}
	entry.hover(true)
}

func (entry *hoverEntry) MouseMoved(event *desktop.MouseEvent) {
	if inner, ok := any(&entry.Entry).(desktop.Hoverable); ok {
		inner.MouseMoved(event)
	}
}

func (entry *hoverEntry) MouseOut() {
	if inner, ok := any(&entry.Entry).(desktop.Hoverable); ok {
		inner.MouseOut()
	}
	entry.hover(false)
}
