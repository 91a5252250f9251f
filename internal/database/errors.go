package database

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidDateRange = errors.New("end date must be after start date")
)

// Resource names used in OpError.
const (
	EntityProject  = "project"
	EntityStage    = "stage"
	EntitySprint   = "sprint"
	EntityEpic     = "epic"
	EntityTask     = "task"
	EntityActivity = "activity"
)

type OpError struct {
	Op       string
	Resource string
	ID       int64
	Err      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID > 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapErr(resource, op string, id int64, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: resource, ID: id, Err: err}
}

func wrapProjectErr(op string, id int64, err error) error {
	return wrapErr(EntityProject, op, id, err)
}

func wrapStageErr(op string, id int64, err error) error {
	return wrapErr(EntityStage, op, id, err)
}

func wrapSprintErr(op string, id int64, err error) error {
	return wrapErr(EntitySprint, op, id, err)
}

func wrapEpicErr(op string, id int64, err error) error {
	return wrapErr(EntityEpic, op, id, err)
}

func wrapTaskErr(op string, id int64, err error) error {
	return wrapErr(EntityTask, op, id, err)
}
