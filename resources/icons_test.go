package resources

import "testing"

func TestIconPerState(t *testing.T) {
	tests := []struct {
		disabled, ringing bool
		want              string
	}{
		{false, false, "notch-active.svg"},
		{true, false, "notch-disabled.svg"},
		{false, true, "notch-ringing.svg"},
		{true, true, "notch-ringing.svg"},
	}
	for _, tt := range tests {
		icon := Icon(tt.disabled, tt.ringing)
		if icon.Name() != tt.want {
			t.Fatalf("Icon(%v, %v) = %s, want %s", tt.disabled, tt.ringing, icon.Name(), tt.want)
		}
		if len(icon.Content()) == 0 {
			t.Fatalf("Icon(%v, %v) is empty", tt.disabled, tt.ringing)
		}
	}
}
