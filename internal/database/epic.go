package database

import (
	"context"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/models"
)

const epicColumns = `id, project_id, name, sequence, description, color`

type EpicSeed struct {
	ProjectID   int64
	Name        string
	Sequence    int
	Description string
	Color       int
}

func scanEpic(row interface{ Scan(...interface{}) error }) (models.Epic, error) {
	var e models.Epic
	err := row.Scan(&e.ID, &e.ProjectID, &e.Name, &e.Sequence, &e.Description, &e.Color)
	return e, err
}

func (d *Database) CreateEpic(ctx context.Context, seed EpicSeed) (int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	seq := seed.Sequence
	if seq == 0 {
		seq = config.DefaultEpicSequence
	}
	res, err := d.q.ExecContext(ctx,
		"INSERT INTO epics (project_id, name, sequence, description, color) VALUES (?, ?, ?, ?, ?)",
		seed.ProjectID, seed.Name, seq, nullableString(seed.Description), seed.Color)
	if err != nil {
		return 0, wrapEpicErr("create", 0, err)
	}
	id, err := res.LastInsertId()
	return id, wrapEpicErr("create", 0, err)
}

func (d *Database) GetEpic(ctx context.Context, id int64) (models.Epic, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	e, err := scanEpic(d.q.QueryRowContext(ctx, "SELECT "+epicColumns+" FROM epics WHERE id = ?", id))
	if err != nil {
		return models.Epic{}, wrapEpicErr("get", id, notFound(err))
	}
	return e, nil
}

// ListEpics returns the project's epics ordered by sequence then name.
func (d *Database) ListEpics(ctx context.Context, projectID int64) ([]models.Epic, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	rows, err := d.q.QueryContext(ctx,
		"SELECT "+epicColumns+" FROM epics WHERE project_id = ? ORDER BY sequence ASC, name ASC", projectID)
	if err != nil {
		return nil, wrapEpicErr("list", 0, err)
	}
	defer rows.Close()

	var epics []models.Epic
	for rows.Next() {
		e, err := scanEpic(rows)
		if err != nil {
			return nil, wrapEpicErr("list", 0, err)
		}
		epics = append(epics, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapEpicErr("list", 0, err)
	}
	return epics, nil
}

func (d *Database) CountEpics(ctx context.Context, projectID int64) (int, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	var n int
	err := d.q.QueryRowContext(ctx, "SELECT COUNT(1) FROM epics WHERE project_id = ?", projectID).Scan(&n)
	return n, wrapEpicErr("count", 0, err)
}
