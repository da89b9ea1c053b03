// Package resources holds the application's bundled icons.
package resources

import (
	"fmt"

	"fyne.io/fyne/v2"
)

const iconTemplate = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
<rect x="4" y="18" width="56" height="28" rx="14" fill="%s"/>
<circle cx="46" cy="32" r="6" fill="%s"/>
</svg>`

var (
	activeIcon   = fyne.NewStaticResource("notch-active.svg", []byte(fmt.Sprintf(iconTemplate, "#1c1c1e", "#0a84ff")))
	disabledIcon = fyne.NewStaticResource("notch-disabled.svg", []byte(fmt.Sprintf(iconTemplate, "#8e8e93", "#c7c7cc")))
	ringingIcon  = fyne.NewStaticResource("notch-ringing.svg", []byte(fmt.Sprintf(iconTemplate, "#1c1c1e", "#ff453a")))
)

// Icon returns the tray icon for the panel state. Ringing wins over disabled.
func Icon(disabled, ringing bool) fyne.Resource {
	switch {
	case ringing:
		return ringingIcon
	case disabled:
		return disabledIcon
	default:
		return activeIcon
	}
}
