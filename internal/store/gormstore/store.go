package gormstore

import (
	"context"
	"errors"
	"fmt"

	"catering-backoffice/internal/database/models"
	"catering-backoffice/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const createBatchSize = 100

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// --- Staff & events ---

func (s *Store) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

func (s *Store) ListActiveStaff(ctx context.Context, skill string) ([]models.Staff, error) {
	q := s.db.WithContext(ctx).Where("status = ?", models.StaffStatusActive)
	if skill != "" {
		q = q.Where("skill = ?", skill)
	}
	var staff []models.Staff
	if err := q.Order("name ASC").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("list active staff: %w", err)
	}
	return staff, nil
}

func (s *Store) GetStaff(ctx context.Context, id string) (models.Staff, error) {
	var staff models.Staff
	if err := s.db.WithContext(ctx).First(&staff, "id = ?", id).Error; err != nil {
		return models.Staff{}, notFound(err, store.ErrStaffNotFound)
	}
	return staff, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return models.Event{}, notFound(err, store.ErrEventNotFound)
	}
	return event, nil
}

// ListScheduledShifts returns every assignment whose event falls on one of
// dates, ordered by date and assembly time.
func (s *Store) ListScheduledShifts(ctx context.Context, dates []string) ([]store.ScheduledShift, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	var shifts []store.ScheduledShift
	err := s.db.WithContext(ctx).
		Table("event_assignments AS ea").
		Select(`e.date AS date, ea.staff_id AS staff_id, e.id AS event_id,
			e.name AS event_name, e.start_time AS assembly_time, ea.salary AS assigned_rate`).
		Joins("JOIN events AS e ON e.id = ea.event_id").
		Where("e.date IN ?", dates).
		Order("e.date ASC, e.start_time ASC, e.id ASC").
		Scan(&shifts).Error
	if err != nil {
		return nil, fmt.Errorf("list scheduled shifts: %w", err)
	}
	return shifts, nil
}

// --- Availability ---

func (s *Store) ListAvailabilityOn(ctx context.Context, date string) ([]models.StaffAvailability, error) {
	var records []models.StaffAvailability
	if err := s.db.WithContext(ctx).Where("date = ?", date).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return records, nil
}

func (s *Store) ListStaffAvailability(ctx context.Context, staffID, from, to string) ([]models.StaffAvailability, error) {
	q := s.db.WithContext(ctx).Where("staff_id = ?", staffID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var records []models.StaffAvailability
	if err := q.Order("date ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list staff availability: %w", err)
	}
	return records, nil
}

// UpsertAvailability relies on the (staff_id, date) unique key so concurrent
// writers for the same day collapse into one record.
func (s *Store) UpsertAvailability(ctx context.Context, rec models.StaffAvailability) (models.StaffAvailability, error) {
	err := s.db.WithContext(ctx).Clauses(availabilityUpsert()).Create(&rec).Error
	if err != nil {
		return models.StaffAvailability{}, fmt.Errorf("upsert availability: %w", err)
	}

	var stored models.StaffAvailability
	if err := s.db.WithContext(ctx).
		Where("staff_id = ? AND date = ?", rec.StaffID, rec.Date).
		First(&stored).Error; err != nil {
		return models.StaffAvailability{}, fmt.Errorf("reload availability: %w", err)
	}
	return stored, nil
}

// availabilityUpsert overwrites the stored flag and reason of an existing
// (staff_id, date) record.
func availabilityUpsert() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "staff_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"available", "reason", "updated_at"}),
	}
}

func (s *Store) DeleteAvailability(ctx context.Context, staffID, date string) error {
	res := s.db.WithContext(ctx).
		Where("staff_id = ? AND date = ?", staffID, date).
		Delete(&models.StaffAvailability{})
	if res.Error != nil {
		return fmt.Errorf("delete availability: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Assignments ---

func (s *Store) CreateAssignment(ctx context.Context, a models.EventAssignment) (models.EventAssignment, error) {
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.EventAssignment{}, store.ErrAlreadyAssigned
		}
		return models.EventAssignment{}, fmt.Errorf("create assignment: %w", err)
	}
	return a, nil
}

func (s *Store) GetAssignment(ctx context.Context, eventID, staffID string) (models.EventAssignment, error) {
	var a models.EventAssignment
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND staff_id = ?", eventID, staffID).
		First(&a).Error
	if err != nil {
		return models.EventAssignment{}, notFound(err, store.ErrNotFound)
	}
	return a, nil
}

func (s *Store) UpdateAttendance(ctx context.Context, eventID, staffID, status string) (models.EventAssignment, error) {
	var a models.EventAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ? AND staff_id = ?", eventID, staffID).
			First(&a).Error; err != nil {
			return notFound(err, store.ErrNotFound)
		}
		a.AttendanceStatus = status
		return tx.Model(&a).Update("attendance_status", status).Error
	})
	if err != nil {
		return models.EventAssignment{}, err
	}
	return a, nil
}

func (s *Store) DeleteAssignment(ctx context.Context, eventID, staffID string) error {
	res := s.db.WithContext(ctx).
		Where("event_id = ? AND staff_id = ?", eventID, staffID).
		Delete(&models.EventAssignment{})
	if res.Error != nil {
		return fmt.Errorf("delete assignment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Work logs ---

// CreateWorkLogs writes every log or none of them.
func (s *Store) CreateWorkLogs(ctx context.Context, logs []models.WorkLog) error {
	if len(logs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&logs, createBatchSize).Error; err != nil {
			return fmt.Errorf("create work logs: %w", err)
		}
		return nil
	})
}

func (s *Store) CreateWorkLog(ctx context.Context, log models.WorkLog) (models.WorkLog, error) {
	if err := s.db.WithContext(ctx).Create(&log).Error; err != nil {
		return models.WorkLog{}, fmt.Errorf("create work log: %w", err)
	}
	return log, nil
}

func (s *Store) GetWorkLog(ctx context.Context, id string) (models.WorkLog, error) {
	var log models.WorkLog
	if err := s.db.WithContext(ctx).Preload("Staff").First(&log, "id = ?", id).Error; err != nil {
		return models.WorkLog{}, notFound(err, store.ErrWorkLogNotFound)
	}
	return log, nil
}

func (s *Store) ListWorkLogs(ctx context.Context, f store.WorkLogFilter) ([]models.WorkLog, error) {
	q := s.db.WithContext(ctx).Preload("Staff").Preload("Event")
	if f.StaffID != "" {
		q = q.Where("staff_id = ?", f.StaffID)
	}
	if f.StartDate != "" {
		q = q.Where("date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("date <= ?", f.EndDate)
	}
	if f.Ascending {
		q = q.Order("date ASC, start_time ASC")
	} else {
		q = q.Order("date DESC, start_time DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var logs []models.WorkLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list work logs: %w", err)
	}
	return logs, nil
}

// UpdateWorkLog applies an adjustment under a row lock and recomputes the
// total before saving.
func (s *Store) UpdateWorkLog(ctx context.Context, id string, upd store.WorkLogUpdate) (models.WorkLog, error) {
	var log models.WorkLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&log, "id = ?", id).Error; err != nil {
			return notFound(err, store.ErrWorkLogNotFound)
		}
		if upd.OvertimePay != nil {
			log.OvertimePay = *upd.OvertimePay
		}
		if upd.Allowance != nil {
			log.Allowance = *upd.Allowance
		}
		if upd.Notes != nil {
			log.Notes = upd.Notes
		}
		log.Recompute()
		return tx.Model(&log).Select("overtime_pay", "allowance", "notes", "total_salary", "updated_at").Updates(&log).Error
	})
	if err != nil {
		return models.WorkLog{}, err
	}
	return log, nil
}

func (s *Store) DeleteWorkLog(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.WorkLog{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete work log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrWorkLogNotFound
	}
	return nil
}
