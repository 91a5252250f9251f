package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
)

// MoveRequest is the input of the bulk move wizard.
type MoveRequest struct {
	TaskIDs  []int64
	SprintID int64
}

// MoveResult reports a bulk move.
type MoveResult struct {
	Moved   int
	Target  models.Sprint
	Message string
}

// MoveTasks reassigns the selected tasks to an open sprint of their project in
// one write. Selections that span projects are rejected before anything changes.
func (s *Service) MoveTasks(ctx context.Context, req MoveRequest) (MoveResult, error) {
	if len(req.TaskIDs) == 0 {
		return MoveResult{}, ErrNoTasksSelected
	}
	var res MoveResult
	err := s.db.WithTx(ctx, func(tx *database.Database) error {
		tasks, err := tx.GetTasks(ctx, req.TaskIDs)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			return ErrNoTasksSelected
		}
		projectID, err := singleProject(ctx, tx, tasks)
		if err != nil {
			return err
		}
		if req.SprintID == 0 {
			return ErrTargetSprintRequired
		}
		target, err := loadTarget(ctx, tx, req.SprintID)
		if err != nil {
			return err
		}
		if err := checkTarget(target, projectID, 0); err != nil {
			return err
		}
		if err := tx.AssignSprint(ctx, taskIDs(tasks), target.ID); err != nil {
			return err
		}
		res = MoveResult{
			Moved:   len(tasks),
			Target:  target,
			Message: fmt.Sprintf("%d task(s) moved to sprint \"%s\"", len(tasks), target.Name),
		}
		return nil
	})
	if err != nil {
		return MoveResult{}, err
	}
	s.logger.Info("tasks moved", zap.Int("tasks", res.Moved), zap.Int64("sprint_id", res.Target.ID))
	return res, nil
}

// singleProject returns the project shared by all tasks, or ErrMixedProjects
// naming every project involved.
func singleProject(ctx context.Context, tx *database.Database, tasks []models.Task) (int64, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, t := range tasks {
		if !seen[t.ProjectID] {
			seen[t.ProjectID] = true
			ids = append(ids, t.ProjectID)
		}
	}
	if len(ids) == 1 {
		return ids[0], nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		p, err := tx.GetProject(ctx, id)
		if err != nil {
			return 0, err
		}
		names = append(names, p.Name)
	}
	return 0, fmt.Errorf("%w. You have selected tasks from: %s", ErrMixedProjects, strings.Join(names, ", "))
}
