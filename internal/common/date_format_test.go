package common

import "testing"

func TestValidateISO8601(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2020-01-01", true},
		{"2019-12-31", true},
		{"", false},
		{"2020-13-01", false},
		{"01/02/2020", false},
		{"2020-1-1", false},
	}

	for _, tt := range tests {
		if got := ValidateISO8601(tt.in); got != tt.want {
			t.Errorf("ValidateISO8601(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := DisplayLabel("2020-01-02"); got != "Jan 02, 2020" {
		t.Errorf("DisplayLabel = %q", got)
	}
	if got := DisplayLabel("spring"); got != "spring" {
		t.Errorf("non-ISO key should pass through, got %q", got)
	}
}

func TestIsChronological(t *testing.T) {
	if !IsChronological([]string{"2019-05-01", "2020-01-01", "2020-01-02"}) {
		t.Error("expected ascending dates to be chronological")
	}
	if IsChronological([]string{"2020-01-02", "2020-01-01"}) {
		t.Error("expected descending dates to be reported")
	}
	if !IsChronological(nil) {
		t.Error("empty list is trivially ordered")
	}
}
