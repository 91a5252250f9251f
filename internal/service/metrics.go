package service

import (
	"context"

	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
)

// EpicProgress is the completion state of one epic.
type EpicProgress struct {
	Epic    models.Epic
	Metrics models.Metrics
}

// ProjectOverview holds the derived counters of a project.
type ProjectOverview struct {
	Project      models.Project
	SprintCount  int
	EpicCount    int
	BacklogCount int
	ActiveSprint *models.Sprint
}

// BoardColumn is one sprint board stage with its tasks.
type BoardColumn struct {
	Stage models.Stage
	Tasks []models.Task
}

// Board is the active sprint laid out by stage.
type Board struct {
	Project  models.Project
	Sprint   models.Sprint
	Columns  []BoardColumn
	Unstaged []models.Task
	Metrics  models.Metrics
}

// SprintMetrics returns the displayed metrics of a sprint: the snapshot for
// closed sprints that recorded one, live figures otherwise.
func (s *Service) SprintMetrics(ctx context.Context, sprintID int64) (models.Metrics, error) {
	sp, err := s.db.GetSprint(ctx, sprintID)
	if err != nil {
		return models.Metrics{}, err
	}
	tasks, err := s.db.TasksForSprint(ctx, sp.ID)
	if err != nil {
		return models.Metrics{}, err
	}
	return sp.DisplayMetrics(tasks), nil
}

func (s *Service) EpicProgress(ctx context.Context, epicID int64) (EpicProgress, error) {
	epic, err := s.db.GetEpic(ctx, epicID)
	if err != nil {
		return EpicProgress{}, err
	}
	tasks, err := s.db.TasksForEpic(ctx, epic.ID)
	if err != nil {
		return EpicProgress{}, err
	}
	return EpicProgress{Epic: epic, Metrics: models.LiveMetrics(tasks)}, nil
}

// ProjectOverview counts sprints, epics and backlog tasks. The backlog count
// is 0 for projects without sprint management.
func (s *Service) ProjectOverview(ctx context.Context, projectID int64) (ProjectOverview, error) {
	p, err := s.db.GetProject(ctx, projectID)
	if err != nil {
		return ProjectOverview{}, err
	}
	ov := ProjectOverview{Project: p}
	if ov.SprintCount, err = s.db.CountSprints(ctx, p.ID); err != nil {
		return ProjectOverview{}, err
	}
	if ov.EpicCount, err = s.db.CountEpics(ctx, p.ID); err != nil {
		return ProjectOverview{}, err
	}
	if p.UseSprintManagement {
		if ov.BacklogCount, err = s.db.CountBacklog(ctx, p.ID); err != nil {
			return ProjectOverview{}, err
		}
	}
	active, ok, err := s.db.ActiveSprint(ctx, p.ID)
	if err != nil {
		return ProjectOverview{}, err
	}
	if ok {
		ov.ActiveSprint = &active
	}
	return ov, nil
}

// SprintBoard lays out the project's active sprint by board stage. Tasks
// without a board stage land in Unstaged.
func (s *Service) SprintBoard(ctx context.Context, projectID int64) (Board, error) {
	p, err := s.db.GetProject(ctx, projectID)
	if err != nil {
		return Board{}, err
	}
	sp, ok, err := s.db.ActiveSprint(ctx, p.ID)
	if err != nil {
		return Board{}, err
	}
	if !ok {
		return Board{}, ErrNoActiveSprint
	}
	stages, err := s.db.ListStages(ctx, p.ID)
	if err != nil {
		return Board{}, err
	}
	tasks, err := s.db.TasksForSprint(ctx, sp.ID)
	if err != nil {
		return Board{}, err
	}
	return layoutBoard(p, sp, stages, tasks), nil
}

func layoutBoard(p models.Project, sp models.Sprint, stages []models.Stage, tasks []models.Task) Board {
	b := Board{Project: p, Sprint: sp, Metrics: sp.DisplayMetrics(tasks)}
	index := make(map[int64]int)
	for _, st := range stages {
		if !st.UseInSprintBoard {
			continue
		}
		index[st.ID] = len(b.Columns)
		b.Columns = append(b.Columns, BoardColumn{Stage: st})
	}
	for _, t := range tasks {
		if t.StageID != nil {
			if i, ok := index[*t.StageID]; ok {
				b.Columns[i].Tasks = append(b.Columns[i].Tasks, t)
				continue
			}
		}
		b.Unstaged = append(b.Unstaged, t)
	}
	return b
}

// SprintActivity returns the audit notes of a sprint, oldest first.
func (s *Service) SprintActivity(ctx context.Context, sprintID int64) ([]models.Activity, error) {
	return s.db.ListActivity(ctx, models.ResourceSprint, sprintID)
}

// GetSprint and SprintTasks expose the read side used by reports and the board.
func (s *Service) GetSprint(ctx context.Context, sprintID int64) (models.Sprint, error) {
	return s.db.GetSprint(ctx, sprintID)
}

func (s *Service) SprintTasks(ctx context.Context, sprintID int64) ([]models.Task, error) {
	return s.db.ListTasks(ctx, database.NewTaskQuery().WhereSprint(sprintID).OrderBy("t.stage_id IS NULL, t.stage_id, t.id"))
}
