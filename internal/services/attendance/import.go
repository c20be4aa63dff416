package attendance

import (
	"context"
	"errors"
	"fmt"

	"catering-backoffice/internal/database/models"
	"catering-backoffice/internal/logger"
	"catering-backoffice/internal/payroll"
	"catering-backoffice/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusValid = "VALID"
	StatusError = "ERROR"

	StartFromSchedule = "SCHEDULE"
	StartFromClockIn  = "CLOCK_IN"
)

// Row error codes. Any of them blocks a confirm.
const (
	CodeMissingStaffName  = "MissingStaffName"
	CodeUnknownStaff      = "UnknownStaff"
	CodeAmbiguousStaff    = "AmbiguousStaff"
	CodeInvalidDate       = "InvalidDate"
	CodeInvalidTime       = "InvalidTime"
	CodeMissingShiftStart = "MissingShiftStart"
	CodeInvalidAmount     = "InvalidAmount"
)

// Row warning codes.
const (
	CodeNoMatchingSchedule = "NoMatchingSchedule"
	CodeNoAssemblyTime     = "NoAssemblyTime"
)

var ErrBatchRejected = errors.New("import batch has invalid rows")

type Store interface {
	ListStaff(ctx context.Context) ([]models.Staff, error)
	ListScheduledShifts(ctx context.Context, dates []string) ([]store.ScheduledShift, error)
	CreateWorkLogs(ctx context.Context, logs []models.WorkLog) error
}

// CacheInvalidator is told whenever new work logs are committed.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RejectedError carries the per-row detail of a batch refused at confirm.
type RejectedError struct {
	Evaluation Evaluation
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %d of %d rows", ErrBatchRejected, e.Evaluation.Summary.Errors, e.Evaluation.Summary.Total)
}

func (e *RejectedError) Unwrap() error { return ErrBatchRejected }

type Batch struct {
	Rows []payroll.RawRow
	// OvertimeRate replaces the configured default for every row that does
	// not carry its own rate.
	OvertimeRate *decimal.Decimal
}

type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PreviewRow struct {
	Row               int             `json:"row"`
	Status            string          `json:"status"`
	StaffName         string          `json:"staffName"`
	StaffID           string          `json:"staffId,omitempty"`
	Date              string          `json:"date"`
	StartTime         string          `json:"startTime"`
	EndTime           string          `json:"endTime"`
	StartSource       string          `json:"startSource,omitempty"`
	EventID           *string         `json:"eventId"`
	EventName         string          `json:"eventName,omitempty"`
	Hours             decimal.Decimal `json:"hours"`
	OvertimeMinutes   int             `json:"overtimeMinutes"`
	OvertimeIntervals int             `json:"overtimeIntervals"`
	OvertimeRate      decimal.Decimal `json:"overtimeRate"`
	BaseSalary        decimal.Decimal `json:"baseSalary"`
	OvertimePay       decimal.Decimal `json:"overtimePay"`
	Allowance         decimal.Decimal `json:"allowance"`
	TotalSalary       decimal.Decimal `json:"totalSalary"`
	Notes             string          `json:"notes,omitempty"`
	Error             *Issue          `json:"error,omitempty"`
	Warning           *Issue          `json:"warning,omitempty"`
}

func (r PreviewRow) Valid() bool { return r.Status == StatusValid }

type Summary struct {
	Total       int             `json:"total"`
	Valid       int             `json:"valid"`
	Errors      int             `json:"errors"`
	Warnings    int             `json:"warnings"`
	TotalSalary decimal.Decimal `json:"totalSalary"`
}

type Evaluation struct {
	Results []PreviewRow         `json:"results"`
	Summary Summary              `json:"summary"`
	Config  payroll.SalaryConfig `json:"config"`
}

type Receipt struct {
	BatchID     string          `json:"batchId"`
	Imported    int             `json:"imported"`
	TotalSalary decimal.Decimal `json:"totalSalary"`
}

type Service struct {
	store  Store
	cache  CacheInvalidator
	config payroll.SalaryConfig
}

// NewService builds the import service. cache may be nil.
func NewService(st Store, cache CacheInvalidator, cfg payroll.SalaryConfig) *Service {
	return &Service{store: st, cache: cache, config: cfg}
}

// Preview evaluates every row without persisting anything.
func (s *Service) Preview(ctx context.Context, b Batch) (Evaluation, error) {
	ev, err := s.evaluate(ctx, b)
	if err != nil {
		return Evaluation{}, err
	}
	logger.Debug("import batch previewed",
		"rows", ev.Summary.Total, "valid", ev.Summary.Valid, "errors", ev.Summary.Errors)
	return ev, nil
}

// Confirm re-evaluates the batch and, only when every row is valid, writes
// all rows as work logs in one atomic unit.
func (s *Service) Confirm(ctx context.Context, b Batch) (Receipt, error) {
	ev, err := s.evaluate(ctx, b)
	if err != nil {
		return Receipt{}, err
	}
	if ev.Summary.Errors > 0 {
		return Receipt{}, &RejectedError{Evaluation: ev}
	}

	batchID := uuid.NewString()
	logs := make([]models.WorkLog, 0, len(ev.Results))
	for _, r := range ev.Results {
		logs = append(logs, toWorkLog(r, batchID))
	}

	if err := s.store.CreateWorkLogs(ctx, logs); err != nil {
		return Receipt{}, fmt.Errorf("persist import batch: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	logger.Info("import batch committed",
		"batch_id", batchID,
		"rows", len(logs),
		"total_salary", ev.Summary.TotalSalary.StringFixed(2))

	return Receipt{BatchID: batchID, Imported: len(logs), TotalSalary: ev.Summary.TotalSalary}, nil
}

func toWorkLog(r PreviewRow, batchID string) models.WorkLog {
	l := models.WorkLog{
		StaffID:       r.StaffID,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Hours:         r.Hours,
		EventID:       r.EventID,
		BaseSalary:    r.BaseSalary,
		OvertimePay:   r.OvertimePay,
		Allowance:     r.Allowance,
		TotalSalary:   r.TotalSalary,
		Source:        models.SourceImport,
		ImportBatchID: &batchID,
	}
	if r.Notes != "" {
		notes := r.Notes
		l.Notes = &notes
	}
	return l
}

// parsedRow is an import row after field aliasing and normalization.
type parsedRow struct {
	staffName string
	staffID   string
	rawDate   string
	date      string
	clockIn   string
	clockOut  string
	allowance decimal.Decimal
	rate      decimal.Decimal
	amountErr *Issue
	notes     string
}

func parseRow(raw payroll.RawRow, defaultRate decimal.Decimal) parsedRow {
	p := parsedRow{
		staffName: raw.Text(payroll.StaffNameAliases...),
		staffID:   raw.Text(payroll.StaffIDAliases...),
		rawDate:   raw.Text(payroll.DateAliases...),
		clockIn:   payroll.NormalizeTime(raw.Text(payroll.ClockInAliases...)),
		clockOut:  payroll.NormalizeTime(raw.Text(payroll.ClockOutAliases...)),
		notes:     raw.Text(payroll.NotesAliases...),
	}
	p.date = payroll.NormalizeDate(p.rawDate)

	allowance, err := raw.Decimal(decimal.Zero, payroll.AllowanceAliases...)
	switch {
	case err != nil:
		p.amountErr = issue(CodeInvalidAmount, "allowance: %v", err)
	case allowance.IsNegative():
		p.amountErr = issue(CodeInvalidAmount, "allowance must not be negative: %s", allowance)
	}
	p.allowance = allowance

	rate, err := raw.Decimal(defaultRate, payroll.OvertimeRateAliases...)
	if p.amountErr == nil {
		switch {
		case err != nil:
			p.amountErr = issue(CodeInvalidAmount, "overtime rate: %v", err)
		case rate.IsNegative():
			p.amountErr = issue(CodeInvalidAmount, "overtime rate must not be negative: %s", rate)
		}
	}
	p.rate = rate
	return p
}

// evaluate is the single pipeline behind both Preview and Confirm.
func (s *Service) evaluate(ctx context.Context, b Batch) (Evaluation, error) {
	if len(b.Rows) == 0 {
		return Evaluation{}, &ValidationError{Message: "rows are required"}
	}

	cfg := s.config
	if b.OvertimeRate != nil {
		cfg = cfg.WithOvertimeRate(*b.OvertimeRate)
	}
	if err := cfg.Validate(); err != nil {
		return Evaluation{}, &ValidationError{Message: err.Error()}
	}

	staff, err := s.store.ListStaff(ctx)
	if err != nil {
		return Evaluation{}, fmt.Errorf("load staff: %w", err)
	}
	directory := newStaffDirectory(staff)

	parsed := make([]parsedRow, len(b.Rows))
	var dates []string
	seen := map[string]bool{}
	for i, raw := range b.Rows {
		parsed[i] = parseRow(raw, cfg.OvertimeRate)
		if d := parsed[i].date; payroll.IsValidDate(d) && !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}

	shifts, err := s.store.ListScheduledShifts(ctx, dates)
	if err != nil {
		return Evaluation{}, fmt.Errorf("load schedule: %w", err)
	}
	schedule := newScheduleIndex(shifts)

	ev := Evaluation{
		Results: make([]PreviewRow, len(parsed)),
		Summary: Summary{Total: len(parsed), TotalSalary: decimal.Zero},
		Config:  cfg,
	}
	for i, p := range parsed {
		row := evaluateRow(i+1, p, cfg, directory, schedule)
		ev.Results[i] = row
		if row.Valid() {
			ev.Summary.Valid++
			ev.Summary.TotalSalary = ev.Summary.TotalSalary.Add(row.TotalSalary)
		} else {
			ev.Summary.Errors++
		}
		if row.Warning != nil {
			ev.Summary.Warnings++
		}
	}
	return ev, nil
}

func evaluateRow(n int, p parsedRow, cfg payroll.SalaryConfig, directory staffDirectory, schedule scheduleIndex) PreviewRow {
	row := PreviewRow{
		Row:          n,
		StaffName:    p.staffName,
		Date:         p.date,
		EndTime:      p.clockOut,
		OvertimeRate: p.rate,
		Allowance:    p.allowance,
		Notes:        p.notes,
	}
	fail := func(is *Issue) PreviewRow {
		row.Status = StatusError
		row.Error = is
		return row
	}

	if p.staffName == "" && p.staffID == "" {
		return fail(issue(CodeMissingStaffName, "staff name is required"))
	}

	staff, is := directory.resolve(p.staffName, p.staffID)
	if is != nil {
		return fail(is)
	}
	row.StaffID = staff.ID
	row.StaffName = staff.Name

	if !payroll.IsValidDate(p.date) {
		return fail(issue(CodeInvalidDate, "invalid date: %q", p.rawDate))
	}
	if p.amountErr != nil {
		return fail(p.amountErr)
	}

	baseRate := staff.PerEventSalary
	sh, scheduled := schedule.lookup(p.date, staff.ID)
	if scheduled {
		eventID := sh.EventID
		row.EventID = &eventID
		row.EventName = sh.EventName
		if sh.AssignedRate.Valid {
			baseRate = sh.AssignedRate.Decimal
		}
	}

	switch {
	case scheduled && sh.assemblyTime != "":
		row.StartTime = sh.assemblyTime
		row.StartSource = StartFromSchedule
	default:
		if scheduled {
			row.Warning = issue(CodeNoAssemblyTime, "event %s has no assembly time, using clock-in", sh.EventName)
		} else {
			row.Warning = issue(CodeNoMatchingSchedule, "no matching schedule found, using clock-in")
		}
		if p.clockIn == "" {
			return fail(issue(CodeMissingShiftStart, "no scheduled assembly time and no clock-in"))
		}
		if !payroll.IsValidTime(p.clockIn) {
			return fail(issue(CodeInvalidTime, "invalid clock-in time: %q", p.clockIn))
		}
		row.StartTime = p.clockIn
		row.StartSource = StartFromClockIn
	}

	if p.clockOut == "" {
		return fail(issue(CodeInvalidTime, "clock-out time is required"))
	}
	if !payroll.IsValidTime(p.clockOut) {
		return fail(issue(CodeInvalidTime, "invalid clock-out time: %q", p.clockOut))
	}

	res, err := payroll.Calculate(cfg.WithOvertimeRate(p.rate), payroll.Shift{
		StartTime:  row.StartTime,
		EndTime:    p.clockOut,
		BaseSalary: baseRate,
		Allowance:  p.allowance,
	})
	if err != nil {
		return fail(issue(CodeInvalidTime, "%v", err))
	}

	row.Status = StatusValid
	row.Hours = res.Hours
	row.OvertimeMinutes = res.OvertimeMinutes
	row.OvertimeIntervals = res.OvertimeIntervals
	row.BaseSalary = res.BaseSalary
	row.OvertimePay = res.OvertimePay
	row.TotalSalary = res.TotalSalary
	return row
}
