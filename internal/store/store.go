package store

import "github.com/shopspring/decimal"

// ScheduledShift is one event assignment flattened with its event, as seen
// by the import and availability lookups.
type ScheduledShift struct {
	Date         string              `gorm:"column:date"`
	StaffID      string              `gorm:"column:staff_id"`
	EventID      string              `gorm:"column:event_id"`
	EventName    string              `gorm:"column:event_name"`
	AssemblyTime *string             `gorm:"column:assembly_time"`
	AssignedRate decimal.NullDecimal `gorm:"column:assigned_rate"`
}

// WorkLogFilter narrows WorkLog listings. Empty fields do not filter.
type WorkLogFilter struct {
	StaffID   string
	StartDate string
	EndDate   string
	// Ascending orders by date then start time; otherwise newest first.
	Ascending bool
	Limit     int
}

type WorkLogUpdate struct {
	OvertimePay *decimal.Decimal
	Allowance   *decimal.Decimal
	Notes       *string
}
