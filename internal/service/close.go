package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
)

// CloseAction selects what happens to incomplete tasks when a sprint closes.
type CloseAction string

const (
	ActionMove    CloseAction = "move"
	ActionNew     CloseAction = "new"
	ActionBacklog CloseAction = "backlog"
)

// Label is the human-readable name used in the close summary.
func (a CloseAction) Label() string {
	switch a {
	case ActionMove:
		return "Move to Next Sprint"
	case ActionNew:
		return "Move to New Sprint"
	case ActionBacklog:
		return "Move to Backlog"
	default:
		return string(a)
	}
}

func (a CloseAction) Valid() bool {
	return a == ActionMove || a == ActionNew || a == ActionBacklog
}

const closeReason = "Reason: Sprint closed with incomplete work."

// CloseRequest is the input of the close wizard.
type CloseRequest struct {
	SprintID       int64
	Action         CloseAction
	TargetSprintID int64
}

// CloseResult reports what ReconcileClose did.
type CloseResult struct {
	Message  string
	Snapshot models.Snapshot
	Moved    int
	Target   *models.Sprint
	BatchID  string
}

// checkTarget enforces that tasks only move into an open sprint of their own project.
func checkTarget(target models.Sprint, projectID, closingID int64) error {
	switch {
	case target.ProjectID != projectID:
		return fmt.Errorf("%w: sprint %q %v", ErrInvalidTarget, target.Name, ErrForeignReference)
	case closingID != 0 && target.ID == closingID:
		return fmt.Errorf("%w: cannot move tasks into the sprint being closed", ErrInvalidTarget)
	case !target.State.Open():
		return fmt.Errorf("%w: sprint %q is %s", ErrInvalidTarget, target.Name, target.State)
	}
	return nil
}

func loadTarget(ctx context.Context, tx *database.Database, id int64) (models.Sprint, error) {
	target, err := tx.GetSprint(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.Sprint{}, fmt.Errorf("%w: sprint %d does not exist", ErrInvalidTarget, id)
	}
	return target, err
}

// successorSprintSeed returns the seed of the sprint created by ActionNew.
func (s *Service) successorSprintSeed(closing models.Sprint) database.SprintSeed {
	start := closing.EndDate
	if now := s.now(); now.After(start) {
		start = now
	}
	return database.SprintSeed{
		ProjectID: closing.ProjectID,
		Name:      s.sprintName(start),
		StartDate: start,
		EndDate:   start.Add(config.SuccessorSprintLength),
		State:     models.StateWaiting,
	}
}

// ReconcileClose closes an active sprint and redistributes its incomplete
// tasks. The snapshot is written before any task moves.
func (s *Service) ReconcileClose(ctx context.Context, req CloseRequest) (CloseResult, error) {
	action := req.Action
	if action == "" {
		action = ActionMove
	}
	if !action.Valid() {
		return CloseResult{}, fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}

	var res CloseResult
	err := s.db.WithTx(ctx, func(tx *database.Database) error {
		sp, err := tx.GetSprint(ctx, req.SprintID)
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

		var target *models.Sprint
		if len(incomplete) > 0 && action == ActionMove {
			if req.TargetSprintID == 0 {
				return ErrTargetSprintRequired
			}
			t, err := loadTarget(ctx, tx, req.TargetSprintID)
			if err != nil {
				return err
			}
			if err := checkTarget(t, sp.ProjectID, sp.ID); err != nil {
				return err
			}
			target = &t
		}

		snap := models.TakeSnapshot(tasks)
		if err := tx.WriteSnapshot(ctx, sp.ID, snap); err != nil {
			return err
		}

		batch := uuid.NewString()
		ids := taskIDs(incomplete)
		message := allCompletedMessage
		if len(incomplete) > 0 {
			switch action {
			case ActionNew:
				seed := s.successorSprintSeed(sp)
				id, err := tx.CreateSprint(ctx, seed)
				if err != nil {
					return err
				}
				t, err := tx.GetSprint(ctx, id)
				if err != nil {
					return err
				}
				target = &t
				fallthrough
			case ActionMove:
				if err := tx.MoveToSprint(ctx, ids, target.ID, sp.ID); err != nil {
					return err
				}
				note := fmt.Sprintf("Task moved from sprint %s to sprint %s. %s Original sprint statistics were preserved.",
					sp.Name, target.Name, closeReason)
				if err := postTaskNotes(ctx, tx, ids, batch, note); err != nil {
					return err
				}
				message = fmt.Sprintf("%d incomplete task(s) moved to sprint \"%s\"", len(ids), target.Name)
			case ActionBacklog:
				if err := tx.AssignSprint(ctx, ids, 0); err != nil {
					return err
				}
				note := fmt.Sprintf("Task moved from sprint %s to Backlog. %s", sp.Name, closeReason)
				if err := postTaskNotes(ctx, tx, ids, batch, note); err != nil {
					return err
				}
				message = fmt.Sprintf("%d incomplete task(s) moved to backlog", len(ids))
			}
		}

		if err := tx.SetSprintState(ctx, sp.ID, models.StateClosed); err != nil {
			return err
		}
		if err := tx.PostActivity(ctx, models.ResourceSprint, sp.ID, batch,
			closeSummary(snap, len(incomplete), action)); err != nil {
			return err
		}
		res = CloseResult{
			Message:  message,
			Snapshot: snap,
			Moved:    len(ids),
			Target:   target,
			BatchID:  batch,
		}
		return nil
	})
	if err != nil {
		return CloseResult{}, err
	}
	fields := []zap.Field{
		zap.Int64("sprint_id", req.SprintID),
		zap.String("action", string(action)),
		zap.Int("moved", res.Moved),
		zap.Float64("completion", res.Snapshot.CompletionPercentage),
		zap.String("batch_id", res.BatchID),
	}
	if res.Target != nil {
		fields = append(fields, zap.Int64("target_sprint_id", res.Target.ID))
	}
	s.logger.Info("sprint closed", fields...)
	return res, nil
}

func postTaskNotes(ctx context.Context, tx *database.Database, ids []int64, batch, body string) error {
	for _, id := range ids {
		if err := tx.PostActivity(ctx, models.ResourceTask, id, batch, body); err != nil {
			return err
		}
	}
	return nil
}

func closeSummary(snap models.Snapshot, incomplete int, action CloseAction) string {
	var b strings.Builder
	b.WriteString("Sprint Closed Summary:\n")
	fmt.Fprintf(&b, "- Total Tasks (Snapshot): %d\n", snap.TaskCount)
	fmt.Fprintf(&b, "- Done (Snapshot): %d\n", snap.DoneCount)
	fmt.Fprintf(&b, "- Incomplete at close: %d\n", incomplete)
	fmt.Fprintf(&b, "- Action Taken: %s", action.Label())
	return b.String()
}
