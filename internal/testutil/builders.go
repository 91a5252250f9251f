package testutil

import (
	"time"

	"github.com/akyairhashvil/sprintctl/internal/models"
)

// Epoch is the fixed start date used by builders.
var Epoch = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

// TaskBuilder provides fluent API for creating test tasks.
type TaskBuilder struct {
	task models.Task
}

func NewTask(id int64) *TaskBuilder {
	return &TaskBuilder{
		task: models.Task{
			ID:        id,
			ProjectID: 1,
			Name:      "Test Task",
			CreatedAt: Epoch,
		},
	}
}

func (b *TaskBuilder) WithName(name string) *TaskBuilder {
	b.task.Name = name
	return b
}

func (b *TaskBuilder) WithProject(id int64) *TaskBuilder {
	b.task.ProjectID = id
	return b
}

// InStage places the task in a stage; fold or closed stages mark it done.
func (b *TaskBuilder) InStage(s models.Stage) *TaskBuilder {
	id := s.ID
	b.task.StageID = &id
	b.task.StageFold = s.Fold
	b.task.StageClosed = s.IsClosed
	return b
}

func (b *TaskBuilder) InSprint(id int64) *TaskBuilder {
	b.task.SprintID = &id
	return b
}

func (b *TaskBuilder) MovedFrom(id int64) *TaskBuilder {
	b.task.PreviousSprintID = &id
	return b
}

func (b *TaskBuilder) Build() models.Task {
	return b.task
}

// SprintBuilder provides fluent API for creating test sprints.
type SprintBuilder struct {
	sprint models.Sprint
}

func NewSprint(id int64) *SprintBuilder {
	return &SprintBuilder{
		sprint: models.Sprint{
			ID:        id,
			ProjectID: 1,
			Name:      "Test Sprint",
			StartDate: Epoch,
			EndDate:   Epoch.AddDate(0, 0, 14),
			State:     models.StateWaiting,
		},
	}
}

func (b *SprintBuilder) WithName(name string) *SprintBuilder {
	b.sprint.Name = name
	return b
}

func (b *SprintBuilder) WithState(s models.SprintState) *SprintBuilder {
	b.sprint.State = s
	return b
}

func (b *SprintBuilder) WithWindow(start time.Time, days int) *SprintBuilder {
	b.sprint.StartDate = start
	b.sprint.EndDate = start.AddDate(0, 0, days)
	return b
}

func (b *SprintBuilder) WithSnapshot(s models.Snapshot) *SprintBuilder {
	b.sprint.Snapshot = s
	return b
}

func (b *SprintBuilder) Build() models.Sprint {
	return b.sprint
}
