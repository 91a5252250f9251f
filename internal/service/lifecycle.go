package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
	"github.com/akyairhashvil/sprintctl/internal/util"
)

const allCompletedMessage = "Sprint closed successfully. All tasks were completed!"

// CloseProposal describes the reconciliation a close needs when the sprint
// still has incomplete tasks.
type CloseProposal struct {
	SprintID          int64
	SprintName        string
	IncompleteCount   int
	IncompleteTaskIDs []int64
	NextSprint        *models.Sprint
	Action            CloseAction
}

// CloseOutcome is the result of CloseSprint. Either Closed is true or
// Proposal is set.
type CloseOutcome struct {
	Closed   bool
	Message  string
	Snapshot models.Snapshot
	Proposal *CloseProposal
}

func activeSprintError(active models.Sprint) error {
	return fmt.Errorf("%w: %q must be closed before starting a new one", ErrActiveSprintExists, active.Name)
}

func transitionError(sp models.Sprint, next models.SprintState) error {
	return fmt.Errorf("%w: sprint %q is %s, cannot become %s", ErrInvalidTransition, sp.Name, sp.State, next)
}

// guardNoOtherActive fails when a sprint of the project other than excludeID is active.
func guardNoOtherActive(ctx context.Context, tx *database.Database, projectID, excludeID int64) error {
	active, ok, err := tx.FindActiveSprint(ctx, projectID, excludeID)
	if err != nil {
		return err
	}
	if ok {
		return activeSprintError(active)
	}
	return nil
}

// StartSprint activates a waiting sprint.
func (s *Service) StartSprint(ctx context.Context, sprintID int64) (models.Sprint, error) {
	var started models.Sprint
	err := s.db.WithTx(ctx, func(tx *database.Database) error {
		sp, err := tx.GetSprint(ctx, sprintID)
		if err != nil {
			return err
		}
		if !sp.State.CanTransition(models.StateActive) {
			return transitionError(sp, models.StateActive)
		}
		if err := guardNoOtherActive(ctx, tx, sp.ProjectID, sp.ID); err != nil {
			return err
		}
		if _, err := tx.EnsureSprintStages(ctx, sp.ProjectID); err != nil {
			return err
		}
		if err := tx.SetSprintState(ctx, sp.ID, models.StateActive); err != nil {
			return err
		}
		if err := tx.PostActivity(ctx, models.ResourceSprint, sp.ID, "",
			fmt.Sprintf("Sprint %s has been activated.", sp.Name)); err != nil {
			return err
		}
		sp.State = models.StateActive
		started = sp
		return nil
	})
	if err != nil {
		return models.Sprint{}, err
	}
	s.logger.Info("sprint activated", zap.Int64("sprint_id", started.ID), zap.String("sprint", started.Name))
	return started, nil
}

// CloseSprint closes an active sprint right away when all of its tasks are
// done. Otherwise it returns a proposal for ReconcileClose and changes nothing.
func (s *Service) CloseSprint(ctx context.Context, sprintID int64) (CloseOutcome, error) {
	var out CloseOutcome
	err := s.db.WithTx(ctx, func(tx *database.Database) error {
		sp, err := tx.GetSprint(ctx, sprintID)
		if err != nil {
			return err
		}
		if !sp.State.CanTransition(models.StateClosed) {
			return transitionError(sp, models.StateClosed)
		}
		tasks, err := tx.TasksForSprint(ctx, sp.ID)
		if err != nil {
			return err
		}
		incomplete := models.Incomplete(tasks)
		if len(incomplete) > 0 {
			prop := &CloseProposal{
				SprintID:          sp.ID,
				SprintName:        sp.Name,
				IncompleteCount:   len(incomplete),
				IncompleteTaskIDs: taskIDs(incomplete),
				Action:            ActionMove,
			}
			next, ok, err := tx.NextSprint(ctx, sp.ProjectID, sp.ID, sp.EndDate)
			if err != nil {
				return err
			}
			if ok {
				prop.NextSprint = util.Ptr(next)
			}
			out.Proposal = prop
			return nil
		}

		snap := models.TakeSnapshot(tasks)
		if err := tx.WriteSnapshot(ctx, sp.ID, snap); err != nil {
			return err
		}
		if err := tx.SetSprintState(ctx, sp.ID, models.StateClosed); err != nil {
			return err
		}
		if err := tx.PostActivity(ctx, models.ResourceSprint, sp.ID, "", allCompletedMessage); err != nil {
			return err
		}
		out = CloseOutcome{Closed: true, Message: allCompletedMessage, Snapshot: snap}
		return nil
	})
	if err != nil {
		return CloseOutcome{}, err
	}
	if out.Closed {
		s.logger.Info("sprint closed", zap.Int64("sprint_id", sprintID), zap.Int("tasks", out.Snapshot.TaskCount))
	} else {
		s.logger.Debug("sprint close needs reconciliation",
			zap.Int64("sprint_id", sprintID), zap.Int("incomplete", out.Proposal.IncompleteCount))
	}
	return out, nil
}

func taskIDs(tasks []models.Task) []int64 {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
