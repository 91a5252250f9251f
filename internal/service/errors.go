package service

import (
	"errors"

	"github.com/akyairhashvil/sprintctl/internal/database"
)

// Validation errors returned by sprint actions. Callers detect them with
// errors.Is; the wrapped message carries the detail shown to the user.
var (
	ErrActiveSprintExists   = errors.New("another sprint is already active in this project")
	ErrInvalidTransition    = errors.New("invalid sprint state transition")
	ErrTargetSprintRequired = errors.New("please select a target sprint")
	ErrInvalidTarget        = errors.New("invalid target sprint")
	ErrInvalidAction        = errors.New("invalid close action")
	ErrInvalidDuration      = errors.New("invalid sprint duration")
	ErrMixedProjects        = errors.New("all selected tasks must be from the same project")
	ErrForeignReference     = errors.New("belongs to another project")
	ErrNoTasksSelected      = errors.New("no tasks selected")
	ErrNoActiveSprint       = errors.New("no active sprint")
	ErrSprintManagementOff  = errors.New("project does not use sprint management")
	ErrInvalidDates         = database.ErrInvalidDateRange
)
