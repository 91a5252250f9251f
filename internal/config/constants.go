package config

import "time"

// Sprint durations.
const (
	Week                  = 7 * 24 * time.Hour
	DefaultPlanWeeks      = 2
	SuccessorSprintWeeks  = 4
	SuccessorSprintLength = SuccessorSprintWeeks * Week
)

// Duration choices offered by the create and start wizards.
const (
	DurationOneWeek   = "1"
	DurationTwoWeeks  = "2"
	DurationFourWeeks = "4"
	DurationCustom    = "custom"
)

// Default board stages created when a project turns on sprint management.
type StageSeed struct {
	Name     string
	Sequence int
	Fold     bool
}

var DefaultSprintStages = []StageSeed{
	{Name: "To Do", Sequence: 10},
	{Name: "In Progress", Sequence: 20},
	{Name: "Blocked", Sequence: 30},
	{Name: "Done", Sequence: 40, Fold: true},
}

// Database/application settings.
const (
	AppName         = "sprintctl"
	DBFileName      = "sprints.db"
	EnvPrefix       = "SPRINTCTL"
	DefaultLocale   = "tr"
	DefaultLogLevel = "info"
	DBQueryTimeout  = 5 * time.Second
)

// Sequence defaults for new epics and stages.
const (
	DefaultEpicSequence  = 10
	DefaultStageSequence = 10
)
