package output

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00:00"},
		{45, "00:00:45"},
		{125, "00:02:05"},
		{3599, "00:59:59"},
		{3661, "1:01:01"},
		{36061, "10:01:01"},
		{90000, "25:00:00"}, // hours have no upper bound
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSecondsTotal(t *testing.T) {
	if got := SecondsTotal(10, 5, 20); got != 40 {
		t.Errorf("SecondsTotal(10, 5, 20) = %d, want 40", got)
	}
	// Integer division truncates.
	if got := SecondsTotal(10, 3, 20); got != 66 {
		t.Errorf("SecondsTotal(10, 3, 20) = %d, want 66", got)
	}
}

func TestSecondsRemain(t *testing.T) {
	if got := SecondsRemain(40, 10); got != 30 {
		t.Errorf("SecondsRemain(40, 10) = %d, want 30", got)
	}
}
