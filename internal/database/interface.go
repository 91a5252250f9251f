package database

import (
	"context"
	"time"

	"github.com/akyairhashvil/sprintctl/internal/models"
)

// ProjectRepository defines project-related database operations.
type ProjectRepository interface {
	CreateProject(ctx context.Context, name string, useSprintManagement bool) (int64, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	SetSprintManagement(ctx context.Context, projectID int64, enabled bool) error
}

// StageRepository defines stage-related database operations.
type StageRepository interface {
	CreateStage(ctx context.Context, projectID int64, seed StageSeed) (int64, error)
	GetStage(ctx context.Context, id int64) (models.Stage, error)
	ListStages(ctx context.Context, projectID int64) ([]models.Stage, error)
	EnsureSprintStages(ctx context.Context, projectID int64) (bool, error)
}

// SprintRepository defines sprint-related database operations.
type SprintRepository interface {
	CreateSprint(ctx context.Context, seed SprintSeed) (int64, error)
	GetSprint(ctx context.Context, id int64) (models.Sprint, error)
	ListSprints(ctx context.Context, projectID int64) ([]models.Sprint, error)
	ActiveSprint(ctx context.Context, projectID int64) (models.Sprint, bool, error)
	FindActiveSprint(ctx context.Context, projectID, excludeID int64) (models.Sprint, bool, error)
	NextSprint(ctx context.Context, projectID, excludeID int64, after time.Time) (models.Sprint, bool, error)
	UpdateSprintPlan(ctx context.Context, sprintID int64, plan SprintPlan) error
	SetSprintState(ctx context.Context, sprintID int64, state models.SprintState) error
	WriteSnapshot(ctx context.Context, sprintID int64, snap models.Snapshot) error
	CountSprints(ctx context.Context, projectID int64) (int, error)
}

// EpicRepository defines epic-related database operations.
type EpicRepository interface {
	CreateEpic(ctx context.Context, seed EpicSeed) (int64, error)
	GetEpic(ctx context.Context, id int64) (models.Epic, error)
	ListEpics(ctx context.Context, projectID int64) ([]models.Epic, error)
	CountEpics(ctx context.Context, projectID int64) (int, error)
}

// TaskRepository defines task-related database operations.
type TaskRepository interface {
	CreateTask(ctx context.Context, seed TaskSeed) (int64, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	GetTasks(ctx context.Context, ids []int64) ([]models.Task, error)
	ListTasks(ctx context.Context, q *TaskQuery) ([]models.Task, error)
	TasksForSprint(ctx context.Context, sprintID int64) ([]models.Task, error)
	BacklogTasks(ctx context.Context, projectID int64) ([]models.Task, error)
	TasksForEpic(ctx context.Context, epicID int64) ([]models.Task, error)
	AssignSprint(ctx context.Context, taskIDs []int64, sprintID int64) error
	MoveToSprint(ctx context.Context, taskIDs []int64, targetSprintID, previousSprintID int64) error
	SetTaskStage(ctx context.Context, taskID, stageID int64) error
	SetTaskEpic(ctx context.Context, taskID, epicID int64) error
	CountBacklog(ctx context.Context, projectID int64) (int, error)
}

// ActivityRepository defines audit-note operations.
type ActivityRepository interface {
	PostActivity(ctx context.Context, resource models.ActivityResource, resourceID int64, batchID, body string) error
	ListActivity(ctx context.Context, resource models.ActivityResource, resourceID int64) ([]models.Activity, error)
}

// Repository combines all repository interfaces.
type Repository interface {
	ProjectRepository
	StageRepository
	SprintRepository
	EpicRepository
	TaskRepository
	ActivityRepository
}

var _ Repository = (*Database)(nil)
