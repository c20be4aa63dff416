package reports

import (
	"context"
	"fmt"

	"catering-backoffice/internal/database/models"
	"catering-backoffice/internal/payroll"
	"catering-backoffice/internal/store"

	"github.com/shopspring/decimal"
)

const (
	GroupByStaff = "staff"
	GroupByDate  = "date"
	GroupByMonth = "month"
)

type Store interface {
	ListWorkLogs(ctx context.Context, f store.WorkLogFilter) ([]models.WorkLog, error)
}

// Cache stores rendered reports. Implementations must be safe for
// concurrent use.
//
// Load returns the cached report for q on a hit. On a miss it returns the key
// a freshly computed report must be saved under; the key is fixed before the
// work logs are read, so an Invalidate that lands mid-query orphans the
// result. An empty key means the report must not be saved.
type Cache interface {
	Load(ctx context.Context, q Query) (r Report, key string, ok bool)
	Save(ctx context.Context, key string, r Report)
	Invalidate(ctx context.Context)
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Query struct {
	StartDate string `form:"startDate" json:"startDate"`
	EndDate   string `form:"endDate" json:"endDate"`
	StaffID   string `form:"staffId" json:"staffId"`
	GroupBy   string `form:"groupBy" json:"groupBy"`
}

type Item struct {
	ID          string          `json:"id"`
	StaffID     string          `json:"staffId"`
	StaffName   string          `json:"staffName"`
	StaffSkill  string          `json:"staffSkill"`
	Date        string          `json:"date"`
	StartTime   string          `json:"startTime"`
	EndTime     string          `json:"endTime"`
	Hours       decimal.Decimal `json:"hours"`
	EventID     *string         `json:"eventId"`
	EventName   *string         `json:"eventName"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	OvertimePay decimal.Decimal `json:"overtimePay"`
	Allowance   decimal.Decimal `json:"allowance"`
	TotalSalary decimal.Decimal `json:"totalSalary"`
	Source      string          `json:"source"`
	Notes       *string         `json:"notes"`
}

type Totals struct {
	Count            int             `json:"count"`
	TotalHours       decimal.Decimal `json:"totalHours"`
	TotalBaseSalary  decimal.Decimal `json:"totalBaseSalary"`
	TotalOvertimePay decimal.Decimal `json:"totalOvertimePay"`
	TotalAllowance   decimal.Decimal `json:"totalAllowance"`
	TotalSalary      decimal.Decimal `json:"totalSalary"`
}

type Group struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Totals
	Items []Item `json:"items"`
}

type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type Report struct {
	GroupBy    string    `json:"groupBy"`
	Groups     []Group   `json:"groups"`
	GrandTotal Totals    `json:"grandTotal"`
	DateRange  DateRange `json:"dateRange"`
}

type Service struct {
	store Store
	cache Cache
}

// NewService builds the report service. cache may be nil.
func NewService(st Store, cache Cache) *Service {
	return &Service{store: st, cache: cache}
}

func (q Query) normalized() (Query, error) {
	if q.GroupBy == "" {
		q.GroupBy = GroupByStaff
	}
	switch q.GroupBy {
	case GroupByStaff, GroupByDate, GroupByMonth:
	default:
		return q, &ValidationError{Message: fmt.Sprintf("groupBy must be one of staff, date, month; got %q", q.GroupBy)}
	}
	for _, d := range []string{q.StartDate, q.EndDate} {
		if d != "" && !payroll.IsValidDate(d) {
			return q, &ValidationError{Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", d)}
		}
	}
	return q, nil
}

// Salary groups the work logs matching q and totals every group.
func (s *Service) Salary(ctx context.Context, q Query) (Report, error) {
	q, err := q.normalized()
	if err != nil {
		return Report{}, err
	}

	var key string
	if s.cache != nil {
		r, k, ok := s.cache.Load(ctx, q)
		if ok {
			return r, nil
		}
		key = k
	}

	logs, err := s.store.ListWorkLogs(ctx, store.WorkLogFilter{
		StaffID:   q.StaffID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Ascending: true,
	})
	if err != nil {
		return Report{}, err
	}

	report := Aggregate(q.GroupBy, logs)
	report.DateRange = DateRange{Start: optional(q.StartDate), End: optional(q.EndDate)}

	if s.cache != nil && key != "" {
		s.cache.Save(ctx, key, report)
	}
	return report, nil
}

// Aggregate buckets logs by groupBy keeping first-seen group order. logs are
// expected in date then start time order.
func Aggregate(groupBy string, logs []models.WorkLog) Report {
	groups := []Group{}
	index := map[string]int{}
	grand := newTotals()

	for _, l := range logs {
		item := toItem(l)
		key := groupKey(groupBy, item)

		i, ok := index[key]
		if !ok {
			label := key
			if groupBy == GroupByStaff {
				label = item.StaffName
			}
			groups = append(groups, Group{Key: key, Label: label, Totals: newTotals(), Items: []Item{}})
			i = len(groups) - 1
			index[key] = i
		}

		groups[i].add(item)
		grand.add(item)
	}

	for i := range groups {
		groups[i].TotalHours = groups[i].TotalHours.Round(1)
	}
	grand.TotalHours = grand.TotalHours.Round(1)

	return Report{GroupBy: groupBy, Groups: groups, GrandTotal: grand}
}

func groupKey(groupBy string, item Item) string {
	switch groupBy {
	case GroupByDate:
		return item.Date
	case GroupByMonth:
		if len(item.Date) >= 7 {
			return item.Date[:7]
		}
		return item.Date
	default:
		return item.StaffID
	}
}

func newTotals() Totals {
	return Totals{
		TotalHours:       decimal.Zero,
		TotalBaseSalary:  decimal.Zero,
		TotalOvertimePay: decimal.Zero,
		TotalAllowance:   decimal.Zero,
		TotalSalary:      decimal.Zero,
	}
}

func (t *Totals) add(item Item) {
	t.Count++
	t.TotalHours = t.TotalHours.Add(item.Hours)
	t.TotalBaseSalary = t.TotalBaseSalary.Add(item.BaseSalary)
	t.TotalOvertimePay = t.TotalOvertimePay.Add(item.OvertimePay)
	t.TotalAllowance = t.TotalAllowance.Add(item.Allowance)
	t.TotalSalary = t.TotalSalary.Add(item.TotalSalary)
}

func (g *Group) add(item Item) {
	g.Totals.add(item)
	g.Items = append(g.Items, item)
}

func toItem(l models.WorkLog) Item {
	item := Item{
		ID:          l.ID,
		StaffID:     l.StaffID,
		Date:        l.Date,
		StartTime:   l.StartTime,
		EndTime:     l.EndTime,
		Hours:       l.Hours,
		EventID:     l.EventID,
		BaseSalary:  l.BaseSalary,
		OvertimePay: l.OvertimePay,
		Allowance:   l.Allowance,
		TotalSalary: l.TotalSalary,
		Source:      l.Source,
		Notes:       l.Notes,
	}
	if l.Staff != nil {
		item.StaffName = l.Staff.Name
		item.StaffSkill = l.Staff.Skill
	}
	if l.Event != nil {
		name := l.Event.Name
		item.EventName = &name
	}
	return item
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
