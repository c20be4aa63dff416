package worklogs

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"catering-backoffice/internal/database/models"
	"catering-backoffice/internal/payroll"
	"catering-backoffice/internal/store"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	staff   map[string]models.Staff
	events  map[string]models.Event
	logs    map[string]models.WorkLog
	filter  store.WorkLogFilter
	nextID  int
	updates []store.WorkLogUpdate
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		staff: map[string]models.Staff{
			"s1": {ID: "s1", Name: "王小明", PerEventSalary: decimal.NewFromInt(2000)},
		},
		events: map[string]models.Event{
			"e1": {ID: "e1", Name: "林府喜宴", Date: "2026-03-05"},
		},
		logs: map[string]models.WorkLog{},
	}
}

func (f *fakeStore) GetEvent(_ context.Context, id string) (models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return models.Event{}, store.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeStore) GetStaff(_ context.Context, id string) (models.Staff, error) {
	s, ok := f.staff[id]
	if !ok {
		return models.Staff{}, store.ErrStaffNotFound
	}
	return s, nil
}

func (f *fakeStore) CreateWorkLog(_ context.Context, log models.WorkLog) (models.WorkLog, error) {
	f.nextID++
	log.ID = "w" + strconv.Itoa(f.nextID)
	f.logs[log.ID] = log
	return log, nil
}

func (f *fakeStore) GetWorkLog(_ context.Context, id string) (models.WorkLog, error) {
	l, ok := f.logs[id]
	if !ok {
		return models.WorkLog{}, store.ErrWorkLogNotFound
	}
	return l, nil
}

func (f *fakeStore) ListWorkLogs(_ context.Context, filter store.WorkLogFilter) ([]models.WorkLog, error) {
	f.filter = filter
	return nil, nil
}

func (f *fakeStore) UpdateWorkLog(_ context.Context, id string, upd store.WorkLogUpdate) (models.WorkLog, error) {
	f.updates = append(f.updates, upd)
	l, ok := f.logs[id]
	if !ok {
		return models.WorkLog{}, store.ErrWorkLogNotFound
	}
	if upd.OvertimePay != nil {
		l.OvertimePay = *upd.OvertimePay
	}
	if upd.Allowance != nil {
		l.Allowance = *upd.Allowance
	}
	if upd.Notes != nil {
		l.Notes = upd.Notes
	}
	l.Recompute()
	f.logs[id] = l
	return l, nil
}

func (f *fakeStore) DeleteWorkLog(_ context.Context, id string) error {
	if _, ok := f.logs[id]; !ok {
		return store.ErrWorkLogNotFound
	}
	delete(f.logs, id)
	return nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestCreateManualEntry(t *testing.T) {
	st := newFakeStore()
	inv := &countingInvalidator{}
	svc := NewService(st, inv, payroll.DefaultSalaryConfig())

	log, err := svc.Create(context.Background(), ManualEntry{
		StaffID:   "s1",
		Date:      "2026/3/5",
		StartTime: "8:00",
		EndTime:   "13:10",
		Allowance: dp("200"),
		Notes:     "補登",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if log.Source != models.SourceManual || log.Date != "2026-03-05" || log.StartTime != "08:00" {
		t.Fatalf("unexpected log %+v", log)
	}
	// 310 minutes: 70 overtime minutes, 7 intervals at 50.
	if !log.OvertimePay.Equal(decimal.NewFromInt(350)) || !log.TotalSalary.Equal(decimal.NewFromInt(2550)) {
		t.Fatalf("overtime %s total %s", log.OvertimePay, log.TotalSalary)
	}
	if inv.calls != 1 {
		t.Fatalf("cache invalidated %d times", inv.calls)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore(), nil, payroll.DefaultSalaryConfig())
	cases := []ManualEntry{
		{Date: "2026-03-05", StartTime: "08:00", EndTime: "12:00"},
		{StaffID: "s1", Date: "yesterday", StartTime: "08:00", EndTime: "12:00"},
		{StaffID: "s1", Date: "2026-03-05", StartTime: "8am", EndTime: "12:00"},
		{StaffID: "s1", Date: "2026-03-05", StartTime: "08:00", EndTime: "12:00", Source: "ROBOT"},
		{StaffID: "s1", Date: "2026-03-05", StartTime: "08:00", EndTime: "12:00", Allowance: dp("-1")},
	}
	for i, in := range cases {
		_, err := svc.Create(context.Background(), in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}

	_, err := svc.Create(context.Background(), ManualEntry{StaffID: "ghost", Date: "2026-03-05", StartTime: "08:00", EndTime: "12:00"})
	if !errors.Is(err, store.ErrStaffNotFound) {
		t.Fatalf("expected staff not found, got %v", err)
	}
}

func TestCreateChecksEvent(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st, nil, payroll.DefaultSalaryConfig())

	ghost := "e404"
	_, err := svc.Create(context.Background(), ManualEntry{StaffID: "s1", Date: "2026-03-05", StartTime: "08:00", EndTime: "12:00", EventID: &ghost})
	if !errors.Is(err, store.ErrEventNotFound) {
		t.Fatalf("expected event not found, got %v", err)
	}
	if len(st.logs) != 0 {
		t.Fatalf("work log stored for a missing event: %+v", st.logs)
	}

	known := "e1"
	created, err := svc.Create(context.Background(), ManualEntry{StaffID: "s1", Date: "2026-03-05", StartTime: "08:00", EndTime: "12:00", EventID: &known})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.EventID == nil || *created.EventID != "e1" {
		t.Fatalf("event id = %v", created.EventID)
	}
}

func TestAdjustRecomputesTotal(t *testing.T) {
	st := newFakeStore()
	inv := &countingInvalidator{}
	svc := NewService(st, inv, payroll.DefaultSalaryConfig())
	st.logs["w9"] = models.WorkLog{
		ID:          "w9",
		BaseSalary:  decimal.NewFromInt(2000),
		OvertimePay: decimal.NewFromInt(300),
		Allowance:   decimal.Zero,
		TotalSalary: decimal.NewFromInt(2300),
	}

	got, err := svc.Adjust(context.Background(), "w9", Adjustment{OvertimePay: dp("150"), Allowance: dp("80")})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !got.TotalSalary.Equal(decimal.NewFromInt(2230)) {
		t.Fatalf("total = %s, want 2230", got.TotalSalary)
	}
	if inv.calls != 1 {
		t.Fatalf("cache invalidated %d times", inv.calls)
	}

	if _, err := svc.Adjust(context.Background(), "w9", Adjustment{OvertimePay: dp("-10")}); err == nil {
		t.Fatal("expected negative overtime to be rejected")
	}
	if len(st.updates) != 1 {
		t.Fatalf("rejected adjustment reached the store")
	}
	if _, err := svc.Adjust(context.Background(), "missing", Adjustment{}); !errors.Is(err, store.ErrWorkLogNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	st := newFakeStore()
	svc := NewService(st, nil, payroll.DefaultSalaryConfig())
	if _, err := svc.List(context.Background(), store.WorkLogFilter{StaffID: "s1", StartDate: "2026-03-01", Ascending: true}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if st.filter.Ascending || st.filter.StaffID != "s1" {
		t.Fatalf("filter = %+v", st.filter)
	}
	if _, err := svc.List(context.Background(), store.WorkLogFilter{EndDate: "3/1"}); err == nil {
		t.Fatal("expected invalid end date to be rejected")
	}
}

func TestDeleteInvalidatesCache(t *testing.T) {
	st := newFakeStore()
	inv := &countingInvalidator{}
	svc := NewService(st, inv, payroll.DefaultSalaryConfig())
	st.logs["w1"] = models.WorkLog{ID: "w1"}

	if err := svc.Delete(context.Background(), "w1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "w1"); !errors.Is(err, store.ErrWorkLogNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if inv.calls != 1 {
		t.Fatalf("cache invalidated %d times", inv.calls)
	}
}
