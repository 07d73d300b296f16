package types

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2024-06-15", true},
		{"2024-12-01", true},
		{"2024-13-01", false},
		{"15/06/2024", false},
		{"not-a-date", false},
		{"", false},
	}

	for _, tt := range tests {
		_, ok := ParseDate(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
		}
	}
}

func TestMonthKey_NotZeroPadded(t *testing.T) {
	m := Month{Year: 2024, Month: time.June}
	if got := m.Key(); got != "2024-6" {
		t.Errorf("Key() = %q, want %q", got, "2024-6")
	}

	m = Month{Year: 2024, Month: time.December}
	if got := m.Key(); got != "2024-12" {
		t.Errorf("Key() = %q, want %q", got, "2024-12")
	}
}

func TestMonthLabel(t *testing.T) {
	m := Month{Year: 2024, Month: time.June}
	if got := m.Label(); got != "June 2024" {
		t.Errorf("Label() = %q, want %q", got, "June 2024")
	}
}

func TestParseMonthKey(t *testing.T) {
	tests := []struct {
		input   string
		want    Month
		wantErr bool
	}{
		{"2024-6", Month{Year: 2024, Month: time.June}, false},
		{"2024-12", Month{Year: 2024, Month: time.December}, false},
		{"2024-0", Month{}, true},
		{"2024-13", Month{}, true},
		{"2024", Month{}, true},
		{"abcd-6", Month{}, true},
		{"", Month{}, true},
	}

	for _, tt := range tests {
		got, err := ParseMonthKey(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMonthKey(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMonthKey(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMonthKey(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	m := Month{Year: 2024, Month: time.February} // leap year
	first, last := m.Window()

	if first.Day() != 1 || first.Month() != time.February {
		t.Errorf("window start = %v, want 2024-02-01", first)
	}
	if last.Day() != 29 || last.Month() != time.February {
		t.Errorf("window end = %v, want 2024-02-29", last)
	}
}

func TestMonthContains_RequiresSameYear(t *testing.T) {
	m := Month{Year: 2024, Month: time.June}

	in, _ := ParseDate("2024-06-15")
	if !m.Contains(in) {
		t.Error("expected 2024-06-15 to be contained in 2024-6")
	}

	otherYear, _ := ParseDate("2023-06-15")
	if m.Contains(otherYear) {
		t.Error("expected 2023-06-15 to be excluded from 2024-6")
	}

	otherMonth, _ := ParseDate("2024-07-01")
	if m.Contains(otherMonth) {
		t.Error("expected 2024-07-01 to be excluded from 2024-6")
	}
}
