package payroll

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	minutesPerDay = 24 * 60

	// Spreadsheet day serials outside this window are treated as plain text.
	minDateSerial = 40000
	maxDateSerial = 60000
)

var (
	shortTimePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	slashDatePattern = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	datePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern      = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

	fallbackDateLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006.01.02",
		"2006.1.2",
		"2006-1-2",
		"1/2/2006",
		"01/02/2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
	}
)

// NormalizeTime converts H:mm and fractional-day serials to HH:mm. Anything
// else is returned trimmed but otherwise untouched.
func NormalizeTime(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}

	if shortTimePattern.MatchString(v) {
		if len(v) == 4 {
			return "0" + v
		}
		return v
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f < 1 {
		total := int(math.Round(f * minutesPerDay))
		return fmt.Sprintf("%02d:%02d", total/60, total%60)
	}

	return v
}

// NormalizeDate converts the date shapes seen in attendance sheets to
// YYYY-MM-DD. Unrecognized input is returned unchanged.
func NormalizeDate(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}

	if datePattern.MatchString(v) {
		return v
	}

	if m := slashDatePattern.FindStringSubmatch(v); m != nil {
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial > minDateSerial && serial < maxDateSerial {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t.Format(DateLayout)
			}
		}
		return v
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(DateLayout)
		}
	}

	return v
}

// IsValidDate reports whether value is a canonical YYYY-MM-DD calendar date.
func IsValidDate(value string) bool {
	if !datePattern.MatchString(value) {
		return false
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// IsValidTime reports whether value is a canonical HH:mm time of day.
func IsValidTime(value string) bool {
	return timePattern.MatchString(value)
}

func minutesOfDay(value string) (int, error) {
	m := timePattern.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h*60 + min, nil
}
