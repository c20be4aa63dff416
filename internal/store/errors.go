package store

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrStaffNotFound   = errors.New("staff not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrWorkLogNotFound = errors.New("work log not found")
	ErrAlreadyAssigned = errors.New("staff already assigned to event")
)
