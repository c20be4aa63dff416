package availability

import (
	"context"
	"errors"
	"testing"

	"catering-backoffice/internal/database/models"
	"catering-backoffice/internal/store"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	staffFn  func(ctx context.Context, skill string) ([]models.Staff, error)
	recordFn func(ctx context.Context, date string) ([]models.StaffAvailability, error)
	shiftFn  func(ctx context.Context, dates []string) ([]store.ScheduledShift, error)
}

func (f fakeStore) ListActiveStaff(ctx context.Context, skill string) ([]models.Staff, error) {
	if f.staffFn == nil {
		return nil, nil
	}
	return f.staffFn(ctx, skill)
}

func (f fakeStore) ListAvailabilityOn(ctx context.Context, date string) ([]models.StaffAvailability, error) {
	if f.recordFn == nil {
		return nil, nil
	}
	return f.recordFn(ctx, date)
}

func (f fakeStore) ListScheduledShifts(ctx context.Context, dates []string) ([]store.ScheduledShift, error) {
	if f.shiftFn == nil {
		return nil, nil
	}
	return f.shiftFn(ctx, dates)
}

func strPtr(s string) *string { return &s }

func roster() []models.Staff {
	return []models.Staff{
		{ID: "a", Name: "Dana", Skill: models.SkillFront, PerEventSalary: decimal.NewFromInt(1800)},
		{ID: "b", Name: "Alex", Skill: models.SkillHot, PerEventSalary: decimal.NewFromInt(2000)},
		{ID: "c", Name: "Casey", Skill: models.SkillBoth, PerEventSalary: decimal.NewFromInt(1900)},
		{ID: "d", Name: "Blair", Skill: models.SkillFront, PerEventSalary: decimal.NewFromInt(1700)},
	}
}

func TestPartitionIsDisjointAndExhaustive(t *testing.T) {
	date := "2026-03-01"
	records := []models.StaffAvailability{
		{StaffID: "b", Date: date, Available: false, Reason: strPtr("考試")},
		{StaffID: "c", Date: date, Available: false},
		{StaffID: "a", Date: date, Available: true},
	}
	shifts := []store.ScheduledShift{
		{Date: date, StaffID: "c", EventID: "e1", EventName: "喜宴", AssemblyTime: strPtr("09:00")},
		{Date: date, StaffID: "d", EventID: "e1", EventName: "喜宴", AssemblyTime: strPtr("09:00")},
		{Date: date, StaffID: "d", EventID: "e2", EventName: "尾牙"},
	}

	res := Partition(date, roster(), records, shifts)

	seen := map[string]int{}
	for _, list := range [][]StaffStatus{res.Available, res.Unavailable, res.Conflicting} {
		for _, s := range list {
			seen[s.ID]++
		}
	}
	for _, st := range roster() {
		if seen[st.ID] != 1 {
			t.Fatalf("staff %s appears %d times", st.ID, seen[st.ID])
		}
	}
	if res.Summary.Total != res.Summary.Available+res.Summary.Unavailable+res.Summary.Conflicting {
		t.Fatalf("summary does not add up: %+v", res.Summary)
	}

	if len(res.Available) != 1 || res.Available[0].ID != "a" {
		t.Fatalf("available = %+v", res.Available)
	}
	if len(res.Unavailable) != 2 || res.Unavailable[0].Name != "Alex" || res.Unavailable[1].Name != "Casey" {
		t.Fatalf("unavailable = %+v", res.Unavailable)
	}
	if r := res.Unavailable[0].UnavailableReason; r == nil || *r != "考試" {
		t.Fatalf("reason = %v", r)
	}
	if !res.Unavailable[1].HasConflict {
		t.Fatal("unavailable staff should still report its conflict")
	}
	if len(res.Conflicting) != 1 || res.Conflicting[0].ID != "d" || len(res.Conflicting[0].Conflicts) != 2 {
		t.Fatalf("conflicting = %+v", res.Conflicting)
	}
	if c := res.Conflicting[0].Conflicts[0]; c.EventID != "e1" || c.EventTitle != "喜宴" || c.StartTime == nil {
		t.Fatalf("conflict detail = %+v", c)
	}
}

func TestQueryFiltersBySkill(t *testing.T) {
	var gotSkill string
	var gotDates []string
	svc := NewService(fakeStore{
		staffFn: func(_ context.Context, skill string) ([]models.Staff, error) {
			gotSkill = skill
			return roster()[:1], nil
		},
		shiftFn: func(_ context.Context, dates []string) ([]store.ScheduledShift, error) {
			gotDates = dates
			return nil, nil
		},
	})

	res, err := svc.Query(context.Background(), "2026-03-01", "HOT")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if gotSkill != "HOT" || len(gotDates) != 1 || gotDates[0] != "2026-03-01" {
		t.Fatalf("skill %q dates %v", gotSkill, gotDates)
	}
	if res.Summary.Total != 1 || res.Summary.Available != 1 {
		t.Fatalf("summary = %+v", res.Summary)
	}

	if _, err := svc.Query(context.Background(), "2026-03-01", "CHEF"); err != nil {
		t.Fatalf("query: %v", err)
	}
	if gotSkill != "" {
		t.Fatalf("unknown skill should be ignored, store saw %q", gotSkill)
	}
}

func TestQueryValidatesDate(t *testing.T) {
	svc := NewService(fakeStore{})
	for _, date := range []string{"", "2026/03/01", "tomorrow"} {
		_, err := svc.Query(context.Background(), date, "")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("date %q: expected validation error, got %v", date, err)
		}
	}
}

func TestQueryPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(fakeStore{recordFn: func(context.Context, string) ([]models.StaffAvailability, error) {
		return nil, boom
	}})
	if _, err := svc.Query(context.Background(), "2026-03-01", ""); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
