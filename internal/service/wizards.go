package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
	"github.com/akyairhashvil/sprintctl/internal/util"
)

// CreateSprintRequest is the input of the create wizard.
type CreateSprintRequest struct {
	ProjectID int64
	Name      string
	Start     time.Time
	Duration  string
	End       time.Time
	Goal      string
	TaskIDs   []int64
}

// StartSprintRequest is the input of the start wizard. A non-zero SprintID
// activates that waiting sprint instead of creating one.
type StartSprintRequest struct {
	ProjectID int64
	SprintID  int64
	Name      string
	Start     time.Time
	Duration  string
	End       time.Time
	Goal      string
	TaskIDs   []int64
}

// StartResult reports the sprint the start wizard activated.
type StartResult struct {
	Sprint   models.Sprint
	Assigned int
	Message  string
}

// SprintDefaults are the values the wizards offer before the user edits them.
type SprintDefaults struct {
	Name        string
	PlannedName string
	Start       time.Time
	Duration    string
	End         time.Time
}

// NewSprintDefaults returns the wizard defaults for a sprint starting at now.
func (s *Service) NewSprintDefaults(now time.Time) SprintDefaults {
	end, _ := ResolveEnd(now, s.defaultDuration, time.Time{})
	return SprintDefaults{
		Name:        s.sprintName(now),
		PlannedName: s.plannedSprintName(now),
		Start:       now,
		Duration:    s.defaultDuration,
		End:         end,
	}
}

// ResolveEnd computes the end date for a duration choice. The custom choice
// uses end, falling back to start when end is unset.
func ResolveEnd(start time.Time, duration string, end time.Time) (time.Time, error) {
	switch duration {
	case config.DurationOneWeek, config.DurationTwoWeeks, config.DurationFourWeeks:
		weeks, _ := strconv.Atoi(duration)
		return start.Add(time.Duration(weeks) * config.Week), nil
	case config.DurationCustom:
		if end.IsZero() {
			return start, nil
		}
		if start.After(end) {
			return time.Time{}, ErrInvalidDates
		}
		return end, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q (want 1, 2, 4 or custom)", ErrInvalidDuration, duration)
	}
}

func (s *Service) sprintWindow(start time.Time, duration string, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() {
		start = s.now()
	}
	if duration == "" {
		if !end.IsZero() {
			duration = config.DurationCustom
		} else {
			duration = s.defaultDuration
		}
	}
	end, err := ResolveEnd(start, duration, end)
	return start, end, err
}

// checkTaskSelection loads the tasks and verifies they belong to projectID.
// With backlogOnly, tasks already in a sprint are rejected too.
func checkTaskSelection(ctx context.Context, tx *database.Database, projectID int64, ids []int64, backlogOnly bool) ([]models.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tasks, err := tx.GetTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ProjectID != projectID {
			return nil, fmt.Errorf("task %d %w", t.ID, ErrForeignReference)
		}
		if backlogOnly && t.SprintID != nil {
			return nil, fmt.Errorf("task %d is already planned in sprint %d, not in the backlog", t.ID, *t.SprintID)
		}
	}
	return tasks, nil
}

func requireSprintProject(ctx context.Context, tx *database.Database, projectID int64) (models.Project, error) {
	p, err := tx.GetProject(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if !p.UseSprintManagement {
		return models.Project{}, fmt.Errorf("%w: %q", ErrSprintManagementOff, p.Name)
	}
	return p, nil
}

// CreateSprint plans a waiting sprint and assigns the selected backlog tasks.
func (s *Service) CreateSprint(ctx context.Context, req CreateSprintRequest) (models.Sprint, error) {
	start, end, err := s.sprintWindow(req.Start, req.Duration, req.End)
	if err != nil {
		return models.Sprint{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = s.plannedSprintName(start)
	}

	var created models.Sprint
	err = s.db.WithTx(ctx, func(tx *database.Database) error {
		if _, err := requireSprintProject(ctx, tx, req.ProjectID); err != nil {
			return err
		}
		tasks, err := checkTaskSelection(ctx, tx, req.ProjectID, req.TaskIDs, true)
		if err != nil {
			return err
		}
		id, err := tx.CreateSprint(ctx, database.SprintSeed{
			ProjectID: req.ProjectID,
			Name:      name,
			StartDate: start,
			EndDate:   end,
			Goal:      strings.TrimSpace(req.Goal),
			State:     models.StateWaiting,
		})
		if err != nil {
			return err
		}
		if err := tx.AssignSprint(ctx, taskIDs(tasks), id); err != nil {
			return err
		}
		created, err = tx.GetSprint(ctx, id)
		return err
	})
	if err != nil {
		return models.Sprint{}, err
	}
	s.logger.Info("sprint planned",
		zap.Int64("sprint_id", created.ID), zap.String("sprint", created.Name), zap.Int("tasks", len(req.TaskIDs)))
	return created, nil
}

// BeginSprint runs the start wizard: it either activates the chosen waiting
// sprint with the edited plan or creates an active one, then assigns tasks.
func (s *Service) BeginSprint(ctx context.Context, req StartSprintRequest) (StartResult, error) {
	var res StartResult
	err := s.db.WithTx(ctx, func(tx *database.Database) error {
		if _, err := requireSprintProject(ctx, tx, req.ProjectID); err != nil {
			return err
		}
		if err := guardNoOtherActive(ctx, tx, req.ProjectID, 0); err != nil {
			return err
		}
		tasks, err := checkTaskSelection(ctx, tx, req.ProjectID, req.TaskIDs, false)
		if err != nil {
			return err
		}
		if _, err := tx.EnsureSprintStages(ctx, req.ProjectID); err != nil {
			return err
		}

		var sprintID int64
		if req.SprintID != 0 {
			sprintID, err = s.activateExisting(ctx, tx, req)
		} else {
			sprintID, err = s.createActive(ctx, tx, req)
		}
		if err != nil {
			return err
		}

		if err := tx.AssignSprint(ctx, taskIDs(tasks), sprintID); err != nil {
			return err
		}
		sp, err := tx.GetSprint(ctx, sprintID)
		if err != nil {
			return err
		}
		if err := tx.PostActivity(ctx, models.ResourceSprint, sp.ID, "",
			fmt.Sprintf("Sprint %s has been started with %d tasks.", sp.Name, len(tasks))); err != nil {
			return err
		}
		res = StartResult{
			Sprint:   sp,
			Assigned: len(tasks),
			Message:  fmt.Sprintf("Sprint \"%s\" has been created and activated!", sp.Name),
		}
		return nil
	})
	if err != nil {
		return StartResult{}, err
	}
	s.logger.Info("sprint started",
		zap.Int64("sprint_id", res.Sprint.ID), zap.String("sprint", res.Sprint.Name), zap.Int("tasks", res.Assigned))
	return res, nil
}

func (s *Service) activateExisting(ctx context.Context, tx *database.Database, req StartSprintRequest) (int64, error) {
	sp, err := tx.GetSprint(ctx, req.SprintID)
	if err != nil {
		return 0, err
	}
	if sp.ProjectID != req.ProjectID {
		return 0, fmt.Errorf("sprint %q %w", sp.Name, ErrForeignReference)
	}
	if !sp.State.CanTransition(models.StateActive) {
		return 0, transitionError(sp, models.StateActive)
	}

	start, end := req.Start, req.End
	duration := req.Duration
	if start.IsZero() {
		start = sp.StartDate
	}
	if duration == "" && end.IsZero() {
		duration, end = config.DurationCustom, sp.EndDate
	}
	start, end, err = s.sprintWindow(start, duration, end)
	if err != nil {
		return 0, err
	}
	plan := database.SprintPlan{
		Name:      strings.TrimSpace(req.Name),
		StartDate: start,
		EndDate:   end,
		Goal:      strings.TrimSpace(req.Goal),
	}
	if plan.Name == "" {
		plan.Name = sp.Name
	}
	if plan.Goal == "" {
		plan.Goal = util.Deref(sp.Goal)
	}
	if err := tx.UpdateSprintPlan(ctx, sp.ID, plan); err != nil {
		return 0, err
	}
	return sp.ID, tx.SetSprintState(ctx, sp.ID, models.StateActive)
}

func (s *Service) createActive(ctx context.Context, tx *database.Database, req StartSprintRequest) (int64, error) {
	start, end, err := s.sprintWindow(req.Start, req.Duration, req.End)
	if err != nil {
		return 0, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = s.sprintName(start)
	}
	return tx.CreateSprint(ctx, database.SprintSeed{
		ProjectID: req.ProjectID,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Goal:      strings.TrimSpace(req.Goal),
		State:     models.StateActive,
	})
}
