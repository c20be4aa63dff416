package attendance

import (
	"catering-backoffice/internal/payroll"
	"catering-backoffice/internal/store"
)

type shiftKey struct {
	date    string
	staffID string
}

// scheduledShift is the schedule's view of one staff member on one date.
// assemblyTime is canonical HH:mm or empty.
type scheduledShift struct {
	store.ScheduledShift
	assemblyTime string
}

// scheduleIndex maps (date, staff) to the assignment whose assembly time is
// earliest that day.
type scheduleIndex map[shiftKey]scheduledShift

func newScheduleIndex(shifts []store.ScheduledShift) scheduleIndex {
	idx := make(scheduleIndex, len(shifts))
	for _, sh := range shifts {
		cand := scheduledShift{ScheduledShift: sh}
		if sh.AssemblyTime != nil {
			if t := payroll.NormalizeTime(*sh.AssemblyTime); payroll.IsValidTime(t) {
				cand.assemblyTime = t
			}
		}

		key := shiftKey{date: sh.Date, staffID: sh.StaffID}
		cur, ok := idx[key]
		if !ok || earlier(cand.assemblyTime, cur.assemblyTime) {
			idx[key] = cand
		}
	}
	return idx
}

// earlier orders canonical times, with a missing time last.
func earlier(a, b string) bool {
	if a == "" {
		return false
	}
	if b == "" {
		return true
	}
	return a < b
}

func (idx scheduleIndex) lookup(date, staffID string) (scheduledShift, bool) {
	sh, ok := idx[shiftKey{date: date, staffID: staffID}]
	return sh, ok
}
