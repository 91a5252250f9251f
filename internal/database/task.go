package database

import (
	"context"
	"fmt"

	"github.com/akyairhashvil/sprintctl/internal/models"
)

// TaskSeed carries the fields of a new task. Zero IDs mean unset.
type TaskSeed struct {
	ProjectID int64
	Name      string
	StageID   int64
	SprintID  int64
	EpicID    int64
}

func scanTask(row interface{ Scan(...interface{}) error }) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Name,
		&t.StageID,
		&t.SprintID,
		&t.EpicID,
		&t.PreviousSprintID,
		&t.CreatedAt,
		&t.StageFold,
		&t.StageClosed,
	)
	return t, err
}

func (d *Database) CreateTask(ctx context.Context, seed TaskSeed) (int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	res, err := d.q.ExecContext(ctx,
		"INSERT INTO tasks (project_id, name, stage_id, sprint_id, epic_id) VALUES (?, ?, ?, ?, ?)",
		seed.ProjectID, seed.Name, nullableInt64(seed.StageID), nullableInt64(seed.SprintID), nullableInt64(seed.EpicID))
	if err != nil {
		return 0, wrapTaskErr("create", 0, err)
	}
	id, err := res.LastInsertId()
	return id, wrapTaskErr("create", 0, err)
}

func (d *Database) GetTask(ctx context.Context, id int64) (models.Task, error) {
	query, args := NewTaskQuery().Where("t.id = ?", id).Build()
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	t, err := scanTask(d.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Task{}, wrapTaskErr("get", id, notFound(err))
	}
	return t, nil
}

// ListTasks runs a TaskQuery.
func (d *Database) ListTasks(ctx context.Context, q *TaskQuery) ([]models.Task, error) {
	query, args := q.Build()
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapTaskErr("list", 0, err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrapTaskErr("list", 0, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapTaskErr("list", 0, err)
	}
	return tasks, nil
}

// GetTasks loads the given tasks. Missing ids are reported as ErrNotFound.
func (d *Database) GetTasks(ctx context.Context, ids []int64) ([]models.Task, error) {
	ids = dedupeIDs(ids)
	tasks, err := d.ListTasks(ctx, NewTaskQuery().WhereIDs(ids))
	if err != nil {
		return nil, err
	}
	if len(tasks) != len(ids) {
		return nil, wrapTaskErr("get many", 0, fmt.Errorf("%w: %d of %d tasks", ErrNotFound, len(tasks), len(ids)))
	}
	return tasks, nil
}

func (d *Database) TasksForSprint(ctx context.Context, sprintID int64) ([]models.Task, error) {
	return d.ListTasks(ctx, NewTaskQuery().WhereSprint(sprintID))
}

func (d *Database) BacklogTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	return d.ListTasks(ctx, NewTaskQuery().WhereProject(projectID).WhereBacklog())
}

func (d *Database) TasksForEpic(ctx context.Context, epicID int64) ([]models.Task, error) {
	return d.ListTasks(ctx, NewTaskQuery().WhereEpic(epicID))
}

// AssignSprint sets the sprint of all given tasks in one statement.
// sprintID 0 moves them to the backlog.
func (d *Database) AssignSprint(ctx context.Context, taskIDs []int64, sprintID int64) error {
	ids := dedupeIDs(taskIDs)
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	args := append([]interface{}{nullableInt64(sprintID)}, int64Args(ids)...)
	_, err := d.q.ExecContext(ctx,
		fmt.Sprintf("UPDATE tasks SET sprint_id = ? WHERE id IN (%s)", placeholders(len(ids))), args...)
	return wrapTaskErr("assign sprint", 0, err)
}

// MoveToSprint reassigns tasks and records where they came from.
func (d *Database) MoveToSprint(ctx context.Context, taskIDs []int64, targetSprintID, previousSprintID int64) error {
	ids := dedupeIDs(taskIDs)
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	args := append([]interface{}{nullableInt64(targetSprintID), nullableInt64(previousSprintID)}, int64Args(ids)...)
	_, err := d.q.ExecContext(ctx,
		fmt.Sprintf("UPDATE tasks SET sprint_id = ?, previous_sprint_id = ? WHERE id IN (%s)", placeholders(len(ids))), args...)
	return wrapTaskErr("move", 0, err)
}

// SetTaskStage moves a task to a kanban stage; stageID 0 clears it.
func (d *Database) SetTaskStage(ctx context.Context, taskID, stageID int64) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	res, err := d.q.ExecContext(ctx, "UPDATE tasks SET stage_id = ? WHERE id = ?", nullableInt64(stageID), taskID)
	return wrapTaskErr("set stage", taskID, affectedOne(res, err))
}

// SetTaskEpic links a task to an epic; epicID 0 clears it.
func (d *Database) SetTaskEpic(ctx context.Context, taskID, epicID int64) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	res, err := d.q.ExecContext(ctx, "UPDATE tasks SET epic_id = ? WHERE id = ?", nullableInt64(epicID), taskID)
	return wrapTaskErr("set epic", taskID, affectedOne(res, err))
}

// CountBacklog counts the project's tasks without a sprint.
func (d *Database) CountBacklog(ctx context.Context, projectID int64) (int, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	var n int
	err := d.q.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM tasks WHERE project_id = ? AND sprint_id IS NULL", projectID).Scan(&n)
	return n, wrapTaskErr("count backlog", 0, err)
}
