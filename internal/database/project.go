package database

import (
	"context"

	"github.com/akyairhashvil/sprintctl/internal/models"
	"github.com/akyairhashvil/sprintctl/internal/util"
)

const projectColumns = `id, name, use_sprint_management, created_at`

func scanProject(row interface{ Scan(...interface{}) error }) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.UseSprintManagement, &p.CreatedAt)
	return p, err
}

// CreateProject inserts a project. Turning sprint management on creates the
// default board stages.
func (d *Database) CreateProject(ctx context.Context, name string, useSprintManagement bool) (int64, error) {
	var id int64
	err := d.WithTx(ctx, func(tx *Database) error {
		ctx, cancel := tx.withTimeout(ctx)
		defer cancel()
		res, err := tx.q.ExecContext(ctx,
			"INSERT INTO projects (name, use_sprint_management) VALUES (?, ?)",
			name, util.BoolToInt(useSprintManagement))
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		if useSprintManagement {
			_, err = tx.EnsureSprintStages(ctx, id)
		}
		return err
	})
	return id, wrapProjectErr("create", 0, err)
}

func (d *Database) GetProject(ctx context.Context, id int64) (models.Project, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	row := d.q.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if err != nil {
		return models.Project{}, wrapProjectErr("get", id, notFound(err))
	}
	return p, nil
}

func (d *Database) ListProjects(ctx context.Context) ([]models.Project, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	rows, err := d.q.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY id ASC")
	if err != nil {
		return nil, wrapProjectErr("list", 0, err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, wrapProjectErr("list", 0, err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapProjectErr("list", 0, err)
	}
	return projects, nil
}

// SetSprintManagement toggles the flag. Enabling it ensures board stages exist.
func (d *Database) SetSprintManagement(ctx context.Context, projectID int64, enabled bool) error {
	err := d.WithTx(ctx, func(tx *Database) error {
		ctx, cancel := tx.withTimeout(ctx)
		defer cancel()
		res, err := tx.q.ExecContext(ctx,
			"UPDATE projects SET use_sprint_management = ? WHERE id = ?",
			util.BoolToInt(enabled), projectID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
		if enabled {
			_, err = tx.EnsureSprintStages(ctx, projectID)
		}
		return err
	})
	return wrapProjectErr("set sprint management", projectID, err)
}
