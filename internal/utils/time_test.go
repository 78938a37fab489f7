package utils

import (
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"mon", time.Monday, false},
		{"Friday", time.Friday, false},
		{" sun ", time.Sunday, false},
		{"3", time.Wednesday, false},
		{"7", 0, true},
		{"someday", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDue(t *testing.T) {
	loc := time.UTC

	got, err := ParseDue("2026-03-04", loc)
	if err != nil {
		t.Fatalf("ParseDue(date) failed: %v", err)
	}
	if want := time.Date(2026, 3, 4, 23, 59, 0, 0, loc); !got.Equal(want) {
		t.Errorf("ParseDue(date) = %v, want %v", got, want)
	}

	got, err = ParseDue("2026-03-04 09:30", loc)
	if err != nil {
		t.Fatalf("ParseDue(datetime) failed: %v", err)
	}
	if want := time.Date(2026, 3, 4, 9, 30, 0, 0, loc); !got.Equal(want) {
		t.Errorf("ParseDue(datetime) = %v, want %v", got, want)
	}

	if _, err := ParseDue("next week", loc); err == nil {
		t.Error("expected error for unparseable due date")
	}
}

func TestResolveDate(t *testing.T) {
	if got, err := ResolveDate("2026-01-15", "UTC"); err != nil || got != "2026-01-15" {
		t.Errorf("ResolveDate(explicit) = %q, %v", got, err)
	}
	if _, err := ResolveDate("15/01/2026", "UTC"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	today, err := ResolveDate("today", "UTC")
	if err != nil {
		t.Fatalf("ResolveDate(today) failed: %v", err)
	}
	if today != time.Now().UTC().Format("2006-01-02") {
		t.Errorf("ResolveDate(today) = %q", today)
	}
}

func TestLoadLocation(t *testing.T) {
	if loc, err := LoadLocation(""); err != nil || loc != time.UTC {
		t.Errorf("LoadLocation(\"\") = %v, %v; want UTC", loc, err)
	}
	if loc, err := LoadLocation("Local"); err != nil || loc != time.Local {
		t.Errorf("LoadLocation(Local) = %v, %v; want Local", loc, err)
	}
	if ValidateTimezone("Not/AZone") {
		t.Error("ValidateTimezone accepted an invalid zone")
	}
}
