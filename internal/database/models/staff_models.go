package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StaffStatusActive   = "ACTIVE"
	StaffStatusInactive = "INACTIVE"

	SkillFront = "FRONT"
	SkillHot   = "HOT"
	SkillBoth  = "BOTH"
)

// IsSkill reports whether s names a staff skill.
func IsSkill(s string) bool {
	return s == SkillFront || s == SkillHot || s == SkillBoth
}

type Staff struct {
	ID             string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(100);index;not null" json:"name"`
	Phone          string          `gorm:"type:varchar(30)" json:"phone"`
	Skill          string          `gorm:"type:varchar(10);not null;default:FRONT" json:"skill"`
	PerEventSalary decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"perEventSalary"`
	Status         string          `gorm:"type:varchar(10);index;not null;default:ACTIVE" json:"status"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      *time.Time      `gorm:"autoCreateTime" json:"createdAt,omitempty"`
	UpdatedAt      *time.Time      `gorm:"autoUpdateTime" json:"updatedAt,omitempty"`
}

func (Staff) TableName() string { return "staff" }

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StaffAvailability overrides the default "available" state of one staff
// member on one date.
type StaffAvailability struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	StaffID   string     `gorm:"type:varchar(36);not null;uniqueIndex:uk_staff_date" json:"staffId"`
	Date      string     `gorm:"type:varchar(10);not null;uniqueIndex:uk_staff_date;index" json:"date"`
	Available bool       `gorm:"not null" json:"available"`
	Reason    *string    `gorm:"type:varchar(255)" json:"reason,omitempty"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"createdAt,omitempty"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updatedAt,omitempty"`
}

func (StaffAvailability) TableName() string { return "staff_availability" }

func (a *StaffAvailability) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
