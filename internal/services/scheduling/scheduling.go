package scheduling

import (
	"context"
	"fmt"

	"catering-backoffice/internal/database/models"
	"catering-backoffice/internal/logger"
	"catering-backoffice/internal/payroll"
	"catering-backoffice/internal/store"

	"github.com/shopspring/decimal"
)

type Store interface {
	GetStaff(ctx context.Context, id string) (models.Staff, error)
	GetEvent(ctx context.Context, id string) (models.Event, error)
	ListStaffAvailability(ctx context.Context, staffID, from, to string) ([]models.StaffAvailability, error)
	UpsertAvailability(ctx context.Context, rec models.StaffAvailability) (models.StaffAvailability, error)
	DeleteAvailability(ctx context.Context, staffID, date string) error
	ListScheduledShifts(ctx context.Context, dates []string) ([]store.ScheduledShift, error)
	CreateAssignment(ctx context.Context, a models.EventAssignment) (models.EventAssignment, error)
	UpdateAttendance(ctx context.Context, eventID, staffID, status string) (models.EventAssignment, error)
	DeleteAssignment(ctx context.Context, eventID, staffID string) error
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type AvailabilityInput struct {
	Date      string  `json:"date" binding:"required"`
	Available *bool   `json:"available"`
	Reason    *string `json:"reason"`
}

type AssignInput struct {
	StaffID string           `json:"staffId" binding:"required"`
	Role    string           `json:"role"`
	Salary  *decimal.Decimal `json:"salary"`
	Notes   *string          `json:"notes"`
}

// Conflict is another event the staff member already works on the same day.
type Conflict struct {
	EventID   string `json:"eventId"`
	EventName string `json:"eventName"`
	Date      string `json:"date"`
}

type Assignment struct {
	models.EventAssignment
	Conflicts []Conflict `json:"conflicts"`
}

type Attendance struct {
	models.EventAssignment
	EffectiveSalary decimal.Decimal `json:"effectiveSalary"`
}

type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

func checkDates(dates ...string) error {
	for _, d := range dates {
		if d != "" && !payroll.IsValidDate(d) {
			return invalid("invalid date %q, expected YYYY-MM-DD", d)
		}
	}
	return nil
}

func (s *Service) ListAvailability(ctx context.Context, staffID, from, to string) ([]models.StaffAvailability, error) {
	if err := checkDates(from, to); err != nil {
		return nil, err
	}
	return s.store.ListStaffAvailability(ctx, staffID, from, to)
}

// SetAvailability records whether staffID can work on a date. Omitting
// available marks the day as free.
func (s *Service) SetAvailability(ctx context.Context, staffID string, in AvailabilityInput) (models.StaffAvailability, error) {
	date := payroll.NormalizeDate(in.Date)
	if !payroll.IsValidDate(date) {
		return models.StaffAvailability{}, invalid("invalid date %q", in.Date)
	}
	if _, err := s.store.GetStaff(ctx, staffID); err != nil {
		return models.StaffAvailability{}, err
	}

	rec := models.StaffAvailability{
		StaffID:   staffID,
		Date:      date,
		Available: true,
		Reason:    in.Reason,
	}
	if in.Available != nil {
		rec.Available = *in.Available
	}
	return s.store.UpsertAvailability(ctx, rec)
}

func (s *Service) DeleteAvailability(ctx context.Context, staffID, date string) error {
	if date == "" {
		return invalid("date is required")
	}
	date = payroll.NormalizeDate(date)
	if err := checkDates(date); err != nil {
		return err
	}
	return s.store.DeleteAvailability(ctx, staffID, date)
}

// Assign puts a staff member on an event. Same-day work on other events is
// reported, not refused.
func (s *Service) Assign(ctx context.Context, eventID string, in AssignInput) (Assignment, error) {
	role := in.Role
	if role == "" {
		role = models.RoleFront
	}
	if !models.IsRole(role) {
		return Assignment{}, invalid("invalid role %q", in.Role)
	}
	if in.Salary != nil && in.Salary.IsNegative() {
		return Assignment{}, invalid("salary must not be negative")
	}

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return Assignment{}, err
	}
	staff, err := s.store.GetStaff(ctx, in.StaffID)
	if err != nil {
		return Assignment{}, err
	}

	a := models.EventAssignment{
		EventID:          event.ID,
		StaffID:          staff.ID,
		Role:             role,
		AttendanceStatus: models.AttendanceScheduled,
		Notes:            in.Notes,
	}
	if in.Salary != nil {
		a.Salary = decimal.NewNullDecimal(*in.Salary)
	}

	shifts, err := s.store.ListScheduledShifts(ctx, []string{event.Date})
	if err != nil {
		return Assignment{}, err
	}

	created, err := s.store.CreateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, err
	}
	created.Staff = &staff

	conflicts := []Conflict{}
	for _, sh := range shifts {
		if sh.StaffID == staff.ID && sh.EventID != event.ID {
			conflicts = append(conflicts, Conflict{EventID: sh.EventID, EventName: sh.EventName, Date: sh.Date})
		}
	}
	if len(conflicts) > 0 {
		logger.Warn("staff assigned with same-day conflicts", "event_id", event.ID, "staff_id", staff.ID, "conflicts", len(conflicts))
	}
	return Assignment{EventAssignment: created, Conflicts: conflicts}, nil
}

// UpdateAttendance sets the attendance status and reports the pay the
// assignment now earns.
func (s *Service) UpdateAttendance(ctx context.Context, eventID, staffID, status string) (Attendance, error) {
	if !models.IsAttendanceStatus(status) {
		return Attendance{}, invalid("invalid attendance status %q", status)
	}
	staff, err := s.store.GetStaff(ctx, staffID)
	if err != nil {
		return Attendance{}, err
	}
	a, err := s.store.UpdateAttendance(ctx, eventID, staffID, status)
	if err != nil {
		return Attendance{}, err
	}
	a.Staff = &staff
	return Attendance{EventAssignment: a, EffectiveSalary: a.EffectiveSalary(staff.PerEventSalary)}, nil
}

func (s *Service) Unassign(ctx context.Context, eventID, staffID string) error {
	return s.store.DeleteAssignment(ctx, eventID, staffID)
}
