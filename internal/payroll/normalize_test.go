package payroll

import "testing"

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9:00", "09:00"},
		{"09:00", "09:00"},
		{" 17:30 ", "17:30"},
		{"0.375", "09:00"},
		{"0.5", "12:00"},
		{"0", "00:00"},
		{"0.999", "23:59"},
		{"1.5", "1.5"},
		{"noon", "noon"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeTime(tc.in); got != tc.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-03-01", "2026-03-01"},
		{"2026/3/1", "2026-03-01"},
		{"2026/12/25", "2026-12-25"},
		{"46082", "2026-03-01"},
		{"45000", "2023-03-15"},
		{"46082.75", "2026-03-01"},
		{"39999", "39999"},
		{"60000", "60000"},
		{"2026-03-01T08:00:00Z", "2026-03-01"},
		{"2026.3.1", "2026-03-01"},
		{"not a date", "not a date"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDate(tc.in); got != tc.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeCanonicalValuesUnchanged(t *testing.T) {
	for _, d := range []string{"2024-02-29", "1999-12-31", "2026-01-01"} {
		if got := NormalizeDate(d); got != d {
			t.Fatalf("canonical date %q changed to %q", d, got)
		}
	}
	for _, tm := range []string{"00:00", "09:05", "23:59"} {
		if got := NormalizeTime(tm); got != tm {
			t.Fatalf("canonical time %q changed to %q", tm, got)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2026-03-01", "2024-02-29"}
	invalid := []string{"2026/03/01", "2026-3-1", "26-03-01", "2026-02-30", "2026-13-01", ""}
	for _, v := range valid {
		if !IsValidDate(v) {
			t.Errorf("IsValidDate(%q) = false", v)
		}
	}
	for _, v := range invalid {
		if IsValidDate(v) {
			t.Errorf("IsValidDate(%q) = true", v)
		}
	}
}

func TestIsValidTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "19:59", "23:59"}
	invalid := []string{"24:00", "9:30", "12:60", "12:5", "noon", ""}
	for _, v := range valid {
		if !IsValidTime(v) {
			t.Errorf("IsValidTime(%q) = false", v)
		}
	}
	for _, v := range invalid {
		if IsValidTime(v) {
			t.Errorf("IsValidTime(%q) = true", v)
		}
	}
}
