package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
)

// AddTask creates a task after checking that the referenced stage, sprint and
// epic belong to the task's project. Tasks can only join open sprints.
func (s *Service) AddTask(ctx context.Context, seed database.TaskSeed) (models.Task, error) {
	seed.Name = strings.TrimSpace(seed.Name)
	if seed.Name == "" {
		return models.Task{}, fmt.Errorf("task name is required")
	}
	var task models.Task
	err := s.db.WithTx(ctx, func(tx *database.Database) error {
		if _, err := tx.GetProject(ctx, seed.ProjectID); err != nil {
			return err
		}
		if seed.StageID != 0 {
			if err := checkStage(ctx, tx, seed.ProjectID, seed.StageID); err != nil {
				return err
			}
		}
		if seed.SprintID != 0 {
			sp, err := loadTarget(ctx, tx, seed.SprintID)
			if err != nil {
				return err
			}
			if err := checkTarget(sp, seed.ProjectID, 0); err != nil {
				return err
			}
		}
		if seed.EpicID != 0 {
			if err := checkEpic(ctx, tx, seed.ProjectID, seed.EpicID); err != nil {
				return err
			}
		}
		id, err := tx.CreateTask(ctx, seed)
		if err != nil {
			return err
		}
		task, err = tx.GetTask(ctx, id)
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	s.logger.Debug("task created", zap.Int64("task_id", task.ID), zap.Int64("project_id", task.ProjectID))
	return task, nil
}

// SetTaskStage moves a task to a stage of its own project; stageID 0 clears it.
func (s *Service) SetTaskStage(ctx context.Context, taskID, stageID int64) (models.Task, error) {
	var task models.Task
	err := s.db.WithTx(ctx, func(tx *database.Database) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if stageID != 0 {
			if err := checkStage(ctx, tx, t.ProjectID, stageID); err != nil {
				return err
			}
		}
		if err := tx.SetTaskStage(ctx, taskID, stageID); err != nil {
			return err
		}
		task, err = tx.GetTask(ctx, taskID)
		return err
	})
	if err != nil {
		return models.Task{}, err
	}
	s.logger.Debug("task stage changed", zap.Int64("task_id", taskID), zap.Int64("stage_id", stageID), zap.Bool("done", task.Done()))
	return task, nil
}

// SetTaskEpic links a task to an epic of its own project; epicID 0 clears it.
func (s *Service) SetTaskEpic(ctx context.Context, taskID, epicID int64) error {
	return s.db.WithTx(ctx, func(tx *database.Database) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if epicID != 0 {
			if err := checkEpic(ctx, tx, t.ProjectID, epicID); err != nil {
				return err
			}
		}
		return tx.SetTaskEpic(ctx, taskID, epicID)
	})
}

func checkStage(ctx context.Context, tx *database.Database, projectID, stageID int64) error {
	st, err := tx.GetStage(ctx, stageID)
	if err != nil {
		return err
	}
	if st.ProjectID != projectID {
		return fmt.Errorf("stage %q %w", st.Name, ErrForeignReference)
	}
	return nil
}

func checkEpic(ctx context.Context, tx *database.Database, projectID, epicID int64) error {
	e, err := tx.GetEpic(ctx, epicID)
	if err != nil {
		return err
	}
	if e.ProjectID != projectID {
		return fmt.Errorf("epic %q %w", e.Name, ErrForeignReference)
	}
	return nil
}
