package worklogs

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
	CreateWorkLog(ctx context.Context, log models.WorkLog) (models.WorkLog, error)
	GetWorkLog(ctx context.Context, id string) (models.WorkLog, error)
	ListWorkLogs(ctx context.Context, f store.WorkLogFilter) ([]models.WorkLog, error)
	UpdateWorkLog(ctx context.Context, id string, upd store.WorkLogUpdate) (models.WorkLog, error)
	DeleteWorkLog(ctx context.Context, id string) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ManualEntry is a work log keyed in by hand rather than imported.
type ManualEntry struct {
	StaffID      string           `json:"staffId" binding:"required"`
	Date         string           `json:"date" binding:"required"`
	StartTime    string           `json:"startTime" binding:"required"`
	EndTime      string           `json:"endTime" binding:"required"`
	EventID      *string          `json:"eventId"`
	Allowance    *decimal.Decimal `json:"allowance"`
	OvertimeRate *decimal.Decimal `json:"overtimeRate"`
	Notes        string           `json:"notes"`
	Source       string           `json:"source"`
}

// Adjustment changes the pay components of an existing log. Nil fields are
// left alone.
type Adjustment struct {
	OvertimePay *decimal.Decimal `json:"overtimePay"`
	Allowance   *decimal.Decimal `json:"allowance"`
	Notes       *string          `json:"notes"`
}

type Service struct {
	store  Store
	cache  CacheInvalidator
	config payroll.SalaryConfig
}

// NewService builds the work log service. cache may be nil.
func NewService(st Store, cache CacheInvalidator, cfg payroll.SalaryConfig) *Service {
	return &Service{store: st, cache: cache, config: cfg}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *Service) List(ctx context.Context, f store.WorkLogFilter) ([]models.WorkLog, error) {
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d != "" && !payroll.IsValidDate(d) {
			return nil, invalid("invalid date %q, expected YYYY-MM-DD", d)
		}
	}
	f.Ascending = false
	return s.store.ListWorkLogs(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (models.WorkLog, error) {
	return s.store.GetWorkLog(ctx, id)
}

// Create prices a manual entry with the staff member's base rate and the
// same calculator used by imports.
func (s *Service) Create(ctx context.Context, in ManualEntry) (models.WorkLog, error) {
	date := payroll.NormalizeDate(in.Date)
	start := payroll.NormalizeTime(in.StartTime)
	end := payroll.NormalizeTime(in.EndTime)

	if in.StaffID == "" {
		return models.WorkLog{}, invalid("staffId is required")
	}
	if !payroll.IsValidDate(date) {
		return models.WorkLog{}, invalid("invalid date %q", in.Date)
	}
	if !payroll.IsValidTime(start) {
		return models.WorkLog{}, invalid("invalid start time %q", in.StartTime)
	}
	if !payroll.IsValidTime(end) {
		return models.WorkLog{}, invalid("invalid end time %q", in.EndTime)
	}

	source := in.Source
	if source == "" {
		source = models.SourceManual
	}
	if !models.IsWorkLogSource(source) {
		return models.WorkLog{}, invalid("invalid source %q", in.Source)
	}

	allowance := decimal.Zero
	if in.Allowance != nil {
		allowance = *in.Allowance
	}
	if allowance.IsNegative() {
		return models.WorkLog{}, invalid("allowance must not be negative")
	}

	cfg := s.config
	if in.OvertimeRate != nil {
		cfg = cfg.WithOvertimeRate(*in.OvertimeRate)
	}
	if err := cfg.Validate(); err != nil {
		return models.WorkLog{}, invalid("%v", err)
	}

	staff, err := s.store.GetStaff(ctx, in.StaffID)
	if err != nil {
		return models.WorkLog{}, err
	}
	if in.EventID != nil && *in.EventID != "" {
		if _, err := s.store.GetEvent(ctx, *in.EventID); err != nil {
			return models.WorkLog{}, err
		}
	}

	res, err := payroll.Calculate(cfg, payroll.Shift{
		StartTime:  start,
		EndTime:    end,
		BaseSalary: staff.PerEventSalary,
		Allowance:  allowance,
	})
	if err != nil {
		return models.WorkLog{}, invalid("%v", err)
	}

	log := models.WorkLog{
		StaffID:     staff.ID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Hours:       res.Hours,
		EventID:     in.EventID,
		BaseSalary:  res.BaseSalary,
		OvertimePay: res.OvertimePay,
		Allowance:   res.Allowance,
		TotalSalary: res.TotalSalary,
		Source:      source,
	}
	if in.Notes != "" {
		notes := in.Notes
		log.Notes = &notes
	}

	created, err := s.store.CreateWorkLog(ctx, log)
	if err != nil {
		return models.WorkLog{}, err
	}
	s.invalidate(ctx)
	created.Staff = &staff
	return created, nil
}

// Adjust overrides overtime pay, allowance or notes. The total is always
// recomputed from the stored base salary.
func (s *Service) Adjust(ctx context.Context, id string, adj Adjustment) (models.WorkLog, error) {
	if adj.OvertimePay != nil && adj.OvertimePay.IsNegative() {
		return models.WorkLog{}, invalid("overtimePay must not be negative")
	}
	if adj.Allowance != nil && adj.Allowance.IsNegative() {
		return models.WorkLog{}, invalid("allowance must not be negative")
	}

	updated, err := s.store.UpdateWorkLog(ctx, id, store.WorkLogUpdate{
		OvertimePay: adj.OvertimePay,
		Allowance:   adj.Allowance,
		Notes:       adj.Notes,
	})
	if err != nil {
		return models.WorkLog{}, err
	}
	s.invalidate(ctx)
	logger.Info("work log adjusted", "id", id, "total_salary", updated.TotalSalary.StringFixed(2))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteWorkLog(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
