package payroll

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Column aliases accepted for each import field, English keys first, then
// the headers used by the staff attendance sheets.
var (
	StaffNameAliases    = []string{"staffName", "name", "員工姓名", "姓名"}
	StaffIDAliases      = []string{"staffId", "員工編號"}
	DateAliases         = []string{"date", "日期"}
	ClockInAliases      = []string{"clockIn", "startTime", "集合時間", "上班時間"}
	ClockOutAliases     = []string{"clockOut", "endTime", "下班時間"}
	AllowanceAliases    = []string{"allowance", "補助", "雜費"}
	OvertimeRateAliases = []string{"overtimeRate", "加班費率"}
	NotesAliases        = []string{"notes", "備註"}
)

// RawRow is one loosely typed spreadsheet row keyed by column header.
type RawRow map[string]any

// Text returns the first non-empty alias value as trimmed text.
func (r RawRow) Text(aliases ...string) string {
	for _, key := range aliases {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(stringify(v)); s != "" {
			return s
		}
	}
	return ""
}

// Decimal parses the first non-empty alias as an amount, returning def when
// every alias is blank.
func (r RawRow) Decimal(def decimal.Decimal, aliases ...string) (decimal.Decimal, error) {
	s := r.Text(aliases...)
	if s == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return def, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case decimal.Decimal:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
