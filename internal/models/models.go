package models

import (
	"math"
	"time"
)

// SprintState enumerates the lifecycle states of a sprint.
type SprintState string

const (
	StateWaiting SprintState = "waiting"
	StateActive  SprintState = "active"
	StateClosed  SprintState = "closed"
)

// Open reports whether a sprint in this state can still receive tasks.
func (s SprintState) Open() bool {
	return s == StateWaiting || s == StateActive
}

// CanTransition reports whether the lifecycle allows moving from s to next.
// Transitions only go forward: waiting -> active -> closed.
func (s SprintState) CanTransition(next SprintState) bool {
	switch s {
	case StateWaiting:
		return next == StateActive
	case StateActive:
		return next == StateClosed
	default:
		return false
	}
}

// ActivityResource names the entity an activity entry is attached to.
type ActivityResource string

const (
	ResourceSprint ActivityResource = "sprint"
	ResourceTask   ActivityResource = "task"
)

// Project is a container of tasks that may opt into sprint management.
type Project struct {
	ID                  int64
	Name                string
	UseSprintManagement bool
	CreatedAt           time.Time
}

// Stage is a kanban column of a project.
type Stage struct {
	ID               int64
	ProjectID        int64
	Name             string
	Sequence         int
	Fold             bool
	IsClosed         bool
	UseInSprintBoard bool
}

// Done reports whether tasks in this stage count as completed.
func (s Stage) Done() bool {
	return s.IsClosed || s.Fold
}

// Snapshot holds completion metrics frozen when a sprint closes.
type Snapshot struct {
	TaskCount            int
	DoneCount            int
	CompletionPercentage float64
}

// Sprint is a time-boxed container of tasks.
type Sprint struct {
	ID        int64
	ProjectID int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Goal      *string
	State     SprintState
	Snapshot  Snapshot
	CreatedAt time.Time
}

// Epic groups tasks larger than a sprint.
type Epic struct {
	ID          int64
	ProjectID   int64
	Name        string
	Sequence    int
	Description *string
	Color       int
}

// Task is a unit of work. Nil SprintID means backlog.
type Task struct {
	ID               int64
	ProjectID        int64
	Name             string
	StageID          *int64
	SprintID         *int64
	EpicID           *int64
	PreviousSprintID *int64
	CreatedAt        time.Time

	// Stage flags joined from the stage row; false when StageID is nil.
	StageFold   bool
	StageClosed bool
}

// Done reports whether the task sits in a closed or folded stage.
func (t Task) Done() bool {
	return t.StageID != nil && (t.StageClosed || t.StageFold)
}

// Activity is an audit note attached to a sprint or task.
type Activity struct {
	ID         int64
	Resource   ActivityResource
	ResourceID int64
	BatchID    *string
	Body       string
	CreatedAt  time.Time
}

// Metrics is the displayed completion state of a sprint or epic.
type Metrics struct {
	TaskCount            int
	DoneCount            int
	CompletionPercentage float64
	FromSnapshot         bool
}

// Completion returns done/total as a percentage rounded to two decimals,
// halves to even.
func Completion(done, total int) float64 {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done > total {
		done = total
	}
	return math.RoundToEven(float64(done)/float64(total)*100*100) / 100
}

// CountDone returns the number of completed tasks.
func CountDone(tasks []Task) int {
	done := 0
	for _, t := range tasks {
		if t.Done() {
			done++
		}
	}
	return done
}

// LiveMetrics computes metrics from the current task set.
func LiveMetrics(tasks []Task) Metrics {
	done := CountDone(tasks)
	return Metrics{
		TaskCount:            len(tasks),
		DoneCount:            done,
		CompletionPercentage: Completion(done, len(tasks)),
	}
}

// TakeSnapshot freezes the completion state of tasks.
func TakeSnapshot(tasks []Task) Snapshot {
	m := LiveMetrics(tasks)
	return Snapshot{
		TaskCount:            m.TaskCount,
		DoneCount:            m.DoneCount,
		CompletionPercentage: m.CompletionPercentage,
	}
}

// DisplayMetrics returns the snapshot for closed sprints that recorded one and
// the live figures otherwise.
func (s Sprint) DisplayMetrics(tasks []Task) Metrics {
	if s.State == StateClosed && s.Snapshot.TaskCount > 0 {
		return Metrics{
			TaskCount:            s.Snapshot.TaskCount,
			DoneCount:            s.Snapshot.DoneCount,
			CompletionPercentage: s.Snapshot.CompletionPercentage,
			FromSnapshot:         true,
		}
	}
	return LiveMetrics(tasks)
}

// Incomplete returns the tasks not yet done.
func Incomplete(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if !t.Done() {
			out = append(out, t)
		}
	}
	return out
}
