package payroll

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRawRowTextAliases(t *testing.T) {
	row := RawRow{
		"員工姓名":  " 王小明 ",
		"日期":    float64(46082),
		"集合時間":  0.375,
		"備註":    "",
		"notes": nil,
	}

	if got := row.Text(StaffNameAliases...); got != "王小明" {
		t.Fatalf("staff name = %q", got)
	}
	if got := row.Text(DateAliases...); got != "46082" {
		t.Fatalf("date = %q", got)
	}
	if got := row.Text(ClockInAliases...); got != "0.375" {
		t.Fatalf("clock in = %q", got)
	}
	if got := row.Text(NotesAliases...); got != "" {
		t.Fatalf("notes = %q", got)
	}
}

func TestRawRowTextPrefersFirstNonEmptyAlias(t *testing.T) {
	row := RawRow{"clockIn": "", "startTime": "08:30", "上班時間": "09:00"}
	if got := row.Text(ClockInAliases...); got != "08:30" {
		t.Fatalf("clock in = %q, want 08:30", got)
	}
}

func TestRawRowDecimal(t *testing.T) {
	def := decimal.NewFromInt(50)
	cases := []struct {
		name    string
		row     RawRow
		want    string
		wantErr bool
	}{
		{"missing uses default", RawRow{}, "50", false},
		{"number", RawRow{"allowance": 120.5}, "120.5", false},
		{"text with separator", RawRow{"補助": "1,200"}, "1200", false},
		{"json number", RawRow{"allowance": json.Number("30")}, "30", false},
		{"garbage", RawRow{"allowance": "abc"}, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.row.Decimal(def, AllowanceAliases...)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decimal: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
