package shared

import "testing"

func TestFormatSignificantDuration(t *testing.T) {
	tests := []struct {
		name  string
		secs  uint64
		want  string
	}{
		{"days and hours", 2*86_400 + 4*3_600, "2d 4h"},
		{"hours and minutes", 5*3_600 + 5*60, "5h 5m"},
		{"minutes and seconds", 20*60 + 1, "20m 1s"},
		{"zero", 0, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSignificantDuration(tt.secs); got != tt.want {
				t.Errorf("FormatSignificantDuration(%d) = %q, want %q", tt.secs, got, tt.want)
			}
		})
	}
}

func TestIsPluralKitProxy(t *testing.T) {
	pk := PluralKitApplicationID
	other := uint64(1)

	if !IsPluralKitProxy(&pk) {
		t.Error("expected PluralKit application id to be recognized")
	}
	if IsPluralKitProxy(&other) {
		t.Error("expected unrelated application id to not be recognized")
	}
	if IsPluralKitProxy(nil) {
		t.Error("expected nil application id to not be recognized")
	}
}
