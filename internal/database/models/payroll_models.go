package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SourceImport = "IMPORT"
	SourceManual = "MANUAL"
	SourceSystem = "SYSTEM"
)

func IsWorkLogSource(s string) bool {
	return s == SourceImport || s == SourceManual || s == SourceSystem
}

// WorkLog is one persisted payroll record. TotalSalary always equals
// BaseSalary + OvertimePay + Allowance.
type WorkLog struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	StaffID       string          `gorm:"type:varchar(36);not null;index:idx_work_logs_staff_date" json:"staffId"`
	Date          string          `gorm:"type:varchar(10);not null;index:idx_work_logs_staff_date;index" json:"date"`
	StartTime     string          `gorm:"type:varchar(5);not null" json:"startTime"`
	EndTime       string          `gorm:"type:varchar(5);not null" json:"endTime"`
	Hours         decimal.Decimal `gorm:"type:decimal(6,1);not null;default:0" json:"hours"`
	EventID       *string         `gorm:"type:varchar(36);index" json:"eventId"`
	BaseSalary    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"baseSalary"`
	OvertimePay   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"overtimePay"`
	Allowance     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"allowance"`
	TotalSalary   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"totalSalary"`
	Source        string          `gorm:"type:varchar(10);not null;default:MANUAL" json:"source"`
	ImportBatchID *string         `gorm:"type:varchar(36);index" json:"importBatchId,omitempty"`
	Notes         *string         `gorm:"type:text" json:"notes"`
	CreatedAt     *time.Time      `gorm:"autoCreateTime" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time      `gorm:"autoUpdateTime" json:"updatedAt,omitempty"`

	Staff *Staff `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (WorkLog) TableName() string { return "work_logs" }

func (w *WorkLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// Recompute restores the total invariant after an adjustment.
func (w *WorkLog) Recompute() {
	w.TotalSalary = w.BaseSalary.Add(w.OvertimePay).Add(w.Allowance)
}
