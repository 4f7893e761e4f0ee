package core

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "05:00", want: 300},
		{in: "09:15", want: 555},
		{in: "23:59", want: 1439},
		{in: " 12:30 ", want: 750},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAddClock(t *testing.T) {
	tests := []struct {
		in    string
		delta int
		want  string
	}{
		{in: "09:00", delta: 30, want: "09:30"},
		{in: "09:45", delta: 30, want: "10:15"},
		{in: "23:30", delta: 30, want: "00:00"},
		// Midnight rollover is deliberate, matching the native date math of
		// the system this replaces.
		{in: "23:45", delta: 30, want: "00:15"},
	}

	for _, tt := range tests {
		got, err := AddClock(tt.in, tt.delta)
		if err != nil {
			t.Errorf("AddClock(%q, %d) unexpected error: %v", tt.in, tt.delta, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AddClock(%q, %d) = %s, want %s", tt.in, tt.delta, got, tt.want)
		}
	}

	if _, err := AddClock("nope", 30); err == nil {
		t.Error("AddClock with malformed clock should fail")
	}
}
