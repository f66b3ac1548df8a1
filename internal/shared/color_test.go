package shared

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"#EEEEEE", 0xEEEEEE, false},
		{"EEEEEE", 0xEEEEEE, false},
		{"#not-hex", 0, true},
		{"zzzzzz", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %#x, want %#x", tt.input, uint32(got), uint32(tt.want))
			}
		})
	}
}

func TestColorString(t *testing.T) {
	if got := Color(15658734).String(); got != "#EEEEEE" {
		t.Errorf("Color(15658734).String() = %q, want %q", got, "#EEEEEE")
	}
}
