package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/akyairhashvil/sprintctl/internal/models"
)

const sprintColumns = `id, project_id, name, start_date, end_date, goal, state,
	snapshot_task_count, snapshot_done_count, snapshot_completion_percentage, created_at`

// SprintSeed carries the fields of a new sprint.
type SprintSeed struct {
	ProjectID int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Goal      string
	State     models.SprintState
}

// SprintPlan holds the editable planning fields of a sprint.
type SprintPlan struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Goal      string
}

func scanSprint(row interface{ Scan(...interface{}) error }) (models.Sprint, error) {
	var s models.Sprint
	var state string
	err := row.Scan(
		&s.ID,
		&s.ProjectID,
		&s.Name,
		&s.StartDate,
		&s.EndDate,
		&s.Goal,
		&state,
		&s.Snapshot.TaskCount,
		&s.Snapshot.DoneCount,
		&s.Snapshot.CompletionPercentage,
		&s.CreatedAt,
	)
	s.State = models.SprintState(state)
	return s, err
}

func checkDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.New("start and end dates are required")
	}
	if start.After(end) {
		return ErrInvalidDateRange
	}
	return nil
}

func (d *Database) CreateSprint(ctx context.Context, seed SprintSeed) (int64, error) {
	if err := checkDates(seed.StartDate, seed.EndDate); err != nil {
		return 0, wrapSprintErr("create", 0, err)
	}
	state := seed.State
	if state == "" {
		state = models.StateWaiting
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	res, err := d.q.ExecContext(ctx, `INSERT INTO sprints (project_id, name, start_date, end_date, goal, state)
		VALUES (?, ?, ?, ?, ?, ?)`,
		seed.ProjectID, seed.Name, dbTime(seed.StartDate), dbTime(seed.EndDate), nullableString(seed.Goal), string(state))
	if err != nil {
		return 0, wrapSprintErr("create", 0, err)
	}
	id, err := res.LastInsertId()
	return id, wrapSprintErr("create", 0, err)
}

func (d *Database) GetSprint(ctx context.Context, id int64) (models.Sprint, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	s, err := scanSprint(d.q.QueryRowContext(ctx, "SELECT "+sprintColumns+" FROM sprints WHERE id = ?", id))
	if err != nil {
		return models.Sprint{}, wrapSprintErr("get", id, notFound(err))
	}
	return s, nil
}

func (d *Database) querySprints(ctx context.Context, op string, query string, args ...interface{}) ([]models.Sprint, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSprintErr(op, 0, err)
	}
	defer rows.Close()

	var sprints []models.Sprint
	for rows.Next() {
		s, err := scanSprint(rows)
		if err != nil {
			return nil, wrapSprintErr(op, 0, err)
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapSprintErr(op, 0, err)
	}
	return sprints, nil
}

// ListSprints returns the project's sprints, latest start first.
func (d *Database) ListSprints(ctx context.Context, projectID int64) ([]models.Sprint, error) {
	return d.querySprints(ctx, "list",
		"SELECT "+sprintColumns+" FROM sprints WHERE project_id = ? ORDER BY start_date DESC, id DESC", projectID)
}

// FindActiveSprint returns the active sprint of a project other than excludeID.
// ok is false when there is none.
func (d *Database) FindActiveSprint(ctx context.Context, projectID, excludeID int64) (models.Sprint, bool, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	s, err := scanSprint(d.q.QueryRowContext(ctx,
		"SELECT "+sprintColumns+" FROM sprints WHERE project_id = ? AND state = 'active' AND id != ? ORDER BY id ASC LIMIT 1",
		projectID, excludeID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sprint{}, false, nil
	}
	if err != nil {
		return models.Sprint{}, false, wrapSprintErr("find active", 0, err)
	}
	return s, true, nil
}

// ActiveSprint returns the project's active sprint, if any.
func (d *Database) ActiveSprint(ctx context.Context, projectID int64) (models.Sprint, bool, error) {
	return d.FindActiveSprint(ctx, projectID, 0)
}

// NextSprint returns the earliest open sprint of the project that starts at or
// after the given time, excluding excludeID.
func (d *Database) NextSprint(ctx context.Context, projectID, excludeID int64, after time.Time) (models.Sprint, bool, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	s, err := scanSprint(d.q.QueryRowContext(ctx,
		"SELECT "+sprintColumns+` FROM sprints
		WHERE project_id = ? AND state IN ('waiting', 'active') AND id != ? AND start_date >= ?
		ORDER BY start_date ASC, id ASC LIMIT 1`,
		projectID, excludeID, dbTime(after)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sprint{}, false, nil
	}
	if err != nil {
		return models.Sprint{}, false, wrapSprintErr("next", excludeID, err)
	}
	return s, true, nil
}

// UpdateSprintPlan rewrites the planning fields of a sprint.
func (d *Database) UpdateSprintPlan(ctx context.Context, sprintID int64, plan SprintPlan) error {
	if err := checkDates(plan.StartDate, plan.EndDate); err != nil {
		return wrapSprintErr("update plan", sprintID, err)
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	res, err := d.q.ExecContext(ctx,
		"UPDATE sprints SET name = ?, start_date = ?, end_date = ?, goal = ? WHERE id = ?",
		plan.Name, dbTime(plan.StartDate), dbTime(plan.EndDate), nullableString(plan.Goal), sprintID)
	return wrapSprintErr("update plan", sprintID, affectedOne(res, err))
}

// SetSprintState writes the lifecycle state. Transition rules are enforced by callers.
func (d *Database) SetSprintState(ctx context.Context, sprintID int64, state models.SprintState) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	res, err := d.q.ExecContext(ctx, "UPDATE sprints SET state = ? WHERE id = ?", string(state), sprintID)
	return wrapSprintErr("set state", sprintID, affectedOne(res, err))
}

// WriteSnapshot stores the close-time completion metrics.
func (d *Database) WriteSnapshot(ctx context.Context, sprintID int64, snap models.Snapshot) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	res, err := d.q.ExecContext(ctx, `UPDATE sprints
		SET snapshot_task_count = ?, snapshot_done_count = ?, snapshot_completion_percentage = ?
		WHERE id = ?`, snap.TaskCount, snap.DoneCount, snap.CompletionPercentage, sprintID)
	return wrapSprintErr("snapshot", sprintID, affectedOne(res, err))
}

func (d *Database) CountSprints(ctx context.Context, projectID int64) (int, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	var n int
	err := d.q.QueryRowContext(ctx, "SELECT COUNT(1) FROM sprints WHERE project_id = ?", projectID).Scan(&n)
	return n, wrapSprintErr("count", 0, err)
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
