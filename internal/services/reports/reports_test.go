package reports

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"catering-backoffice/internal/database/models"
	"catering-backoffice/internal/store"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	listFn func(ctx context.Context, f store.WorkLogFilter) ([]models.WorkLog, error)
}

func (f fakeStore) ListWorkLogs(ctx context.Context, filter store.WorkLogFilter) ([]models.WorkLog, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, filter)
}

// memoryCache mirrors RedisCache: keys carry a generation counter that
// Invalidate bumps.
type memoryCache struct {
	entries     map[string]Report
	generation  int
	invalidated int
}

func (m *memoryCache) key(q Query) string {
	return fmt.Sprintf("%d:%s:%s:%s:%s", m.generation, q.GroupBy, q.StartDate, q.EndDate, q.StaffID)
}

func (m *memoryCache) Load(_ context.Context, q Query) (Report, string, bool) {
	key := m.key(q)
	r, ok := m.entries[key]
	return r, key, ok
}

func (m *memoryCache) Save(_ context.Context, key string, r Report) {
	if m.entries == nil {
		m.entries = map[string]Report{}
	}
	m.entries[key] = r
}

func (m *memoryCache) Invalidate(context.Context) {
	m.generation++
	m.invalidated++
}

func workLog(id, staffID, name, date, hours, base, ot, allowance string) models.WorkLog {
	l := models.WorkLog{
		ID:          id,
		StaffID:     staffID,
		Date:        date,
		StartTime:   "09:00",
		EndTime:     "14:00",
		Hours:       decimal.RequireFromString(hours),
		BaseSalary:  decimal.RequireFromString(base),
		OvertimePay: decimal.RequireFromString(ot),
		Allowance:   decimal.RequireFromString(allowance),
		Source:      models.SourceImport,
		Staff:       &models.Staff{ID: staffID, Name: name, Skill: models.SkillFront},
	}
	l.Recompute()
	return l
}

func sampleLogs() []models.WorkLog {
	return []models.WorkLog{
		workLog("w1", "s1", "王小明", "2026-03-01", "5", "2000", "300", "0"),
		workLog("w2", "s2", "李大華", "2026-03-01", "4.3", "1800", "50", "100"),
		workLog("w3", "s1", "王小明", "2026-03-15", "6.1", "2000", "600", "0"),
		workLog("w4", "s2", "李大華", "2026-04-02", "3.2", "1800", "0", "0"),
	}
}

func TestAggregateGroupTotalsMatchGrandTotal(t *testing.T) {
	for _, groupBy := range []string{GroupByStaff, GroupByDate, GroupByMonth} {
		t.Run(groupBy, func(t *testing.T) {
			r := Aggregate(groupBy, sampleLogs())

			sum := decimal.Zero
			count := 0
			for _, g := range r.Groups {
				sum = sum.Add(g.TotalSalary)
				count += g.Count
				if len(g.Items) != g.Count {
					t.Fatalf("group %s has %d items but count %d", g.Key, len(g.Items), g.Count)
				}
			}
			if !sum.Equal(r.GrandTotal.TotalSalary) {
				t.Fatalf("sum of groups %s != grand total %s", sum, r.GrandTotal.TotalSalary)
			}
			if count != 4 || r.GrandTotal.Count != 4 {
				t.Fatalf("counts = %d/%d, want 4", count, r.GrandTotal.Count)
			}
		})
	}
}

func TestAggregateKeysAndLabels(t *testing.T) {
	byStaff := Aggregate(GroupByStaff, sampleLogs())
	if len(byStaff.Groups) != 2 {
		t.Fatalf("staff groups = %d, want 2", len(byStaff.Groups))
	}
	first := byStaff.Groups[0]
	if first.Key != "s1" || first.Label != "王小明" {
		t.Fatalf("first staff group = %s/%s", first.Key, first.Label)
	}
	if !first.TotalSalary.Equal(decimal.RequireFromString("4900")) {
		t.Fatalf("s1 total = %s, want 4900", first.TotalSalary)
	}
	if !first.TotalHours.Equal(decimal.RequireFromString("11.1")) {
		t.Fatalf("s1 hours = %s, want 11.1", first.TotalHours)
	}

	byMonth := Aggregate(GroupByMonth, sampleLogs())
	if len(byMonth.Groups) != 2 || byMonth.Groups[0].Key != "2026-03" || byMonth.Groups[0].Label != "2026-03" {
		t.Fatalf("unexpected month groups: %+v", byMonth.Groups)
	}
	if byMonth.Groups[0].Count != 3 {
		t.Fatalf("march count = %d, want 3", byMonth.Groups[0].Count)
	}

	byDate := Aggregate(GroupByDate, sampleLogs())
	if len(byDate.Groups) != 3 || byDate.Groups[0].Key != "2026-03-01" {
		t.Fatalf("unexpected date groups: %+v", byDate.Groups)
	}
}

func TestSalaryDefaultsAndFilters(t *testing.T) {
	var got store.WorkLogFilter
	svc := NewService(fakeStore{listFn: func(_ context.Context, f store.WorkLogFilter) ([]models.WorkLog, error) {
		got = f
		return sampleLogs(), nil
	}}, nil)

	r, err := svc.Salary(context.Background(), Query{StartDate: "2026-03-01", StaffID: "s1"})
	if err != nil {
		t.Fatalf("salary: %v", err)
	}
	if r.GroupBy != GroupByStaff {
		t.Fatalf("groupBy = %q, want staff", r.GroupBy)
	}
	if !got.Ascending || got.StaffID != "s1" || got.StartDate != "2026-03-01" || got.EndDate != "" {
		t.Fatalf("unexpected filter %+v", got)
	}
	if r.DateRange.Start == nil || *r.DateRange.Start != "2026-03-01" || r.DateRange.End != nil {
		t.Fatalf("unexpected date range %+v", r.DateRange)
	}
}

func TestSalaryRejectsBadQuery(t *testing.T) {
	svc := NewService(fakeStore{}, nil)
	for _, q := range []Query{{GroupBy: "week"}, {StartDate: "2026/03/01"}} {
		_, err := svc.Salary(context.Background(), q)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("query %+v: expected validation error, got %v", q, err)
		}
	}
}

func TestSalaryServesFromCache(t *testing.T) {
	calls := 0
	cache := &memoryCache{}
	svc := NewService(fakeStore{listFn: func(context.Context, store.WorkLogFilter) ([]models.WorkLog, error) {
		calls++
		return sampleLogs(), nil
	}}, cache)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.Salary(ctx, Query{GroupBy: GroupByMonth}); err != nil {
			t.Fatalf("salary: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("store called %d times, want 1", calls)
	}

	cache.Invalidate(ctx)
	if _, err := svc.Salary(ctx, Query{GroupBy: GroupByMonth}); err != nil {
		t.Fatalf("salary: %v", err)
	}
	if calls != 2 {
		t.Fatalf("store called %d times after invalidation, want 2", calls)
	}
}

func TestSalaryEmpty(t *testing.T) {
	svc := NewService(fakeStore{}, nil)
	r, err := svc.Salary(context.Background(), Query{GroupBy: GroupByDate})
	if err != nil {
		t.Fatalf("salary: %v", err)
	}
	if len(r.Groups) != 0 || r.GrandTotal.Count != 0 || !r.GrandTotal.TotalSalary.IsZero() {
		t.Fatalf("expected empty report, got %+v", r)
	}
}

func TestSalaryIgnoresReportComputedBeforeInvalidation(t *testing.T) {
	cache := &memoryCache{}
	ctx := context.Background()
	logs := []models.WorkLog{workLog("w1", "s1", "王小明", "2026-03-01", "5", "2000", "300", "0")}
	committed := false

	svc := NewService(fakeStore{listFn: func(context.Context, store.WorkLogFilter) ([]models.WorkLog, error) {
		snapshot := append([]models.WorkLog(nil), logs...)
		if !committed {
			// a confirm commits and invalidates while this query is running
			committed = true
			logs = append(logs, workLog("w2", "s2", "李大華", "2026-03-02", "4", "1800", "0", "200"))
			cache.Invalidate(ctx)
		}
		return snapshot, nil
	}}, cache)

	first, err := svc.Salary(ctx, Query{})
	if err != nil {
		t.Fatalf("salary: %v", err)
	}
	if first.GrandTotal.Count != 1 {
		t.Fatalf("in-flight report count = %d, want 1", first.GrandTotal.Count)
	}

	second, err := svc.Salary(ctx, Query{})
	if err != nil {
		t.Fatalf("salary: %v", err)
	}
	if second.GrandTotal.Count != 2 || !second.GrandTotal.TotalSalary.Equal(decimal.NewFromInt(4300)) {
		t.Fatalf("report after commit = count %d total %s, want 2 / 4300",
			second.GrandTotal.Count, second.GrandTotal.TotalSalary)
	}
}
