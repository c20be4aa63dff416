package availability

import (
	"context"
	"fmt"
	"sort"

	"catering-backoffice/internal/database/models"
	"catering-backoffice/internal/payroll"
	"catering-backoffice/internal/store"

	"github.com/shopspring/decimal"
)

type Store interface {
	ListActiveStaff(ctx context.Context, skill string) ([]models.Staff, error)
	ListAvailabilityOn(ctx context.Context, date string) ([]models.StaffAvailability, error)
	ListScheduledShifts(ctx context.Context, dates []string) ([]store.ScheduledShift, error)
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Conflict struct {
	EventID    string  `json:"eventId"`
	EventTitle string  `json:"eventTitle"`
	StartTime  *string `json:"startTime"`
}

type StaffStatus struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	Skill             string          `json:"skill"`
	PerEventSalary    decimal.Decimal `json:"perEventSalary"`
	IsAvailable       bool            `json:"isAvailable"`
	UnavailableReason *string         `json:"unavailableReason"`
	HasConflict       bool            `json:"hasConflict"`
	Conflicts         []Conflict      `json:"conflicts"`
}

type Summary struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Conflicting int `json:"conflicting"`
}

type Result struct {
	Date        string        `json:"date"`
	Available   []StaffStatus `json:"available"`
	Unavailable []StaffStatus `json:"unavailable"`
	Conflicting []StaffStatus `json:"conflicting"`
	Summary     Summary       `json:"summary"`
}

type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

// Query partitions the active roster for date. Unknown skill values are
// ignored rather than rejected.
func (s *Service) Query(ctx context.Context, date, skill string) (Result, error) {
	if date == "" {
		return Result{}, &ValidationError{Message: "date is required"}
	}
	if !payroll.IsValidDate(date) {
		return Result{}, &ValidationError{Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date)}
	}
	if !models.IsSkill(skill) {
		skill = ""
	}

	staff, err := s.store.ListActiveStaff(ctx, skill)
	if err != nil {
		return Result{}, err
	}
	records, err := s.store.ListAvailabilityOn(ctx, date)
	if err != nil {
		return Result{}, err
	}
	shifts, err := s.store.ListScheduledShifts(ctx, []string{date})
	if err != nil {
		return Result{}, err
	}

	return Partition(date, staff, records, shifts), nil
}

// Partition places every staff member in exactly one of available,
// unavailable or conflicting. Explicit unavailability outranks a conflict.
func Partition(date string, staff []models.Staff, records []models.StaffAvailability, shifts []store.ScheduledShift) Result {
	byStaff := make(map[string]models.StaffAvailability, len(records))
	for _, r := range records {
		byStaff[r.StaffID] = r
	}
	conflicts := map[string][]Conflict{}
	for _, sh := range shifts {
		if sh.Date != date {
			continue
		}
		conflicts[sh.StaffID] = append(conflicts[sh.StaffID], Conflict{
			EventID:    sh.EventID,
			EventTitle: sh.EventName,
			StartTime:  sh.AssemblyTime,
		})
	}

	sorted := make([]models.Staff, len(staff))
	copy(sorted, staff)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	res := Result{
		Date:        date,
		Available:   []StaffStatus{},
		Unavailable: []StaffStatus{},
		Conflicting: []StaffStatus{},
	}
	for _, st := range sorted {
		status := StaffStatus{
			ID:             st.ID,
			Name:           st.Name,
			Phone:          st.Phone,
			Skill:          st.Skill,
			PerEventSalary: st.PerEventSalary,
			IsAvailable:    true,
			Conflicts:      conflicts[st.ID],
		}
		if status.Conflicts == nil {
			status.Conflicts = []Conflict{}
		}
		if rec, ok := byStaff[st.ID]; ok {
			status.IsAvailable = rec.Available
			if !rec.Available {
				status.UnavailableReason = rec.Reason
			}
		}
		status.HasConflict = len(status.Conflicts) > 0

		switch {
		case !status.IsAvailable:
			res.Unavailable = append(res.Unavailable, status)
		case status.HasConflict:
			res.Conflicting = append(res.Conflicting, status)
		default:
			res.Available = append(res.Available, status)
		}
	}

	res.Summary = Summary{
		Total:       len(sorted),
		Available:   len(res.Available),
		Unavailable: len(res.Unavailable),
		Conflicting: len(res.Conflicting),
	}
	return res
}
