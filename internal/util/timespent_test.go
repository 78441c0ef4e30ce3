package util

import "testing"

func TestParseTimeSpent(t *testing.T) {
	tests := []struct {
		input   string
		seconds int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"01:30", 90, false},
		{"12:05", 725, false},
		{"120:00", 7200, false},
		{"1:5", 65, false},
		{"", 0, true},
		{"90", 0, true},
		{"01:60", 0, true},
		{"-1:30", 0, true},
		{"aa:bb", 0, true},
		{"01:30:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seconds, err := ParseTimeSpent(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimeSpent(%q) = %d, want error", tt.input, seconds)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeSpent(%q): %v", tt.input, err)
			}
			if seconds != tt.seconds {
				t.Errorf("ParseTimeSpent(%q) = %d, want %d", tt.input, seconds, tt.seconds)
			}
		})
	}
}

func TestFormatTimeSpent(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{90, "01:30"},
		{725, "12:05"},
		{7200, "120:00"},
		{-5, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatTimeSpent(tt.seconds); got != tt.want {
			t.Errorf("FormatTimeSpent(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
