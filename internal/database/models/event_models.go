package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EventStatusPending    = "PENDING"
	EventStatusConfirmed  = "CONFIRMED"
	EventStatusInProgress = "IN_PROGRESS"
	EventStatusCompleted  = "COMPLETED"
	EventStatusCancelled  = "CANCELLED"

	RoleFront = "FRONT"
	RoleHot   = "HOT"
	RoleDeck  = "DECK"

	AttendanceScheduled = "SCHEDULED"
	AttendanceConfirmed = "CONFIRMED"
	AttendanceAttended  = "ATTENDED"
	AttendanceLate      = "LATE"
	AttendanceAbsent    = "ABSENT"
	AttendanceCancelled = "CANCELLED"
)

type Event struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(200);not null" json:"name"`
	Date      string     `gorm:"type:varchar(10);index;not null" json:"date"`
	StartTime *string    `gorm:"type:varchar(5)" json:"startTime,omitempty"`
	EndTime   *string    `gorm:"type:varchar(5)" json:"endTime,omitempty"`
	Location  string     `gorm:"type:varchar(200)" json:"location"`
	Status    string     `gorm:"type:varchar(20);not null;default:PENDING" json:"status"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"createdAt,omitempty"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updatedAt,omitempty"`

	Assignments []EventAssignment `gorm:"foreignKey:EventID" json:"assignments,omitempty"`
}

func (Event) TableName() string { return "events" }

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type EventAssignment struct {
	ID               string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID          string              `gorm:"type:varchar(36);not null;uniqueIndex:uk_event_staff" json:"eventId"`
	StaffID          string              `gorm:"type:varchar(36);not null;uniqueIndex:uk_event_staff;index" json:"staffId"`
	Role             string              `gorm:"type:varchar(10);not null;default:FRONT" json:"role"`
	Salary           decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"salary"`
	AttendanceStatus string              `gorm:"type:varchar(20);not null;default:SCHEDULED" json:"attendanceStatus"`
	Notes            *string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        *time.Time          `gorm:"autoCreateTime" json:"createdAt,omitempty"`
	UpdatedAt        *time.Time          `gorm:"autoUpdateTime" json:"updatedAt,omitempty"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Staff *Staff `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

func (EventAssignment) TableName() string { return "event_assignments" }

func (a *EventAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// EffectiveSalary is the pay owed for the assignment given its attendance:
// absent or cancelled assignments earn nothing.
func (a EventAssignment) EffectiveSalary(base decimal.Decimal) decimal.Decimal {
	switch a.AttendanceStatus {
	case AttendanceAbsent, AttendanceCancelled:
		return decimal.Zero
	}
	if a.Salary.Valid {
		return a.Salary.Decimal
	}
	return base
}

func IsAttendanceStatus(s string) bool {
	switch s {
	case AttendanceScheduled, AttendanceConfirmed, AttendanceAttended,
		AttendanceLate, AttendanceAbsent, AttendanceCancelled:
		return true
	}
	return false
}

func IsRole(s string) bool {
	return s == RoleFront || s == RoleHot || s == RoleDeck
}
