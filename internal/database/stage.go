package database

import (
	"context"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/models"
	"github.com/akyairhashvil/sprintctl/internal/util"
)

const stageColumns = `id, project_id, name, sequence, fold, is_closed, use_in_sprint_board`

// StageSeed carries the fields of a new stage.
type StageSeed struct {
	Name             string
	Sequence         int
	Fold             bool
	IsClosed         bool
	UseInSprintBoard bool
}

func scanStage(row interface{ Scan(...interface{}) error }) (models.Stage, error) {
	var s models.Stage
	err := row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Sequence, &s.Fold, &s.IsClosed, &s.UseInSprintBoard)
	return s, err
}

func (d *Database) CreateStage(ctx context.Context, projectID int64, seed StageSeed) (int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	seq := seed.Sequence
	if seq == 0 {
		seq = config.DefaultStageSequence
	}
	res, err := d.q.ExecContext(ctx, `INSERT INTO stages (project_id, name, sequence, fold, is_closed, use_in_sprint_board)
		VALUES (?, ?, ?, ?, ?, ?)`,
		projectID, seed.Name, seq, util.BoolToInt(seed.Fold), util.BoolToInt(seed.IsClosed), util.BoolToInt(seed.UseInSprintBoard))
	if err != nil {
		return 0, wrapStageErr("create", 0, err)
	}
	id, err := res.LastInsertId()
	return id, wrapStageErr("create", 0, err)
}

func (d *Database) GetStage(ctx context.Context, id int64) (models.Stage, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	s, err := scanStage(d.q.QueryRowContext(ctx, "SELECT "+stageColumns+" FROM stages WHERE id = ?", id))
	if err != nil {
		return models.Stage{}, wrapStageErr("get", id, notFound(err))
	}
	return s, nil
}

// ListStages returns the project's stages by sequence.
func (d *Database) ListStages(ctx context.Context, projectID int64) ([]models.Stage, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	rows, err := d.q.QueryContext(ctx,
		"SELECT "+stageColumns+" FROM stages WHERE project_id = ? ORDER BY sequence ASC, id ASC", projectID)
	if err != nil {
		return nil, wrapStageErr("list", 0, err)
	}
	defer rows.Close()

	var stages []models.Stage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, wrapStageErr("list", 0, err)
		}
		stages = append(stages, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStageErr("list", 0, err)
	}
	return stages, nil
}

// EnsureSprintStages creates the default board stages for a project that uses
// sprint management and has no stage yet. It reports whether stages were created.
func (d *Database) EnsureSprintStages(ctx context.Context, projectID int64) (bool, error) {
	created := false
	err := d.WithTx(ctx, func(tx *Database) error {
		ctx, cancel := tx.withTimeout(ctx)
		defer cancel()
		var enabled bool
		if err := tx.q.QueryRowContext(ctx,
			"SELECT use_sprint_management FROM projects WHERE id = ?", projectID).Scan(&enabled); err != nil {
			return notFound(err)
		}
		if !enabled {
			return nil
		}
		var count int
		if err := tx.q.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM stages WHERE project_id = ?", projectID).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, seed := range config.DefaultSprintStages {
			if _, err := tx.CreateStage(ctx, projectID, StageSeed{
				Name:             seed.Name,
				Sequence:         seed.Sequence,
				Fold:             seed.Fold,
				UseInSprintBoard: true,
			}); err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	return created, wrapProjectErr("ensure stages", projectID, err)
}
