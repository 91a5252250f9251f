package database

import (
	"context"

	"github.com/akyairhashvil/sprintctl/internal/models"
)

// PostActivity appends an audit note. batchID groups notes written by one
// action; empty means none.
func (d *Database) PostActivity(ctx context.Context, resource models.ActivityResource, resourceID int64, batchID, body string) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	_, err := d.q.ExecContext(ctx,
		"INSERT INTO activity (resource, resource_id, batch_id, body) VALUES (?, ?, ?, ?)",
		string(resource), resourceID, nullableString(batchID), body)
	return wrapErr(EntityActivity, "post", resourceID, err)
}

// ListActivity returns the notes of one resource, oldest first.
func (d *Database) ListActivity(ctx context.Context, resource models.ActivityResource, resourceID int64) ([]models.Activity, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	rows, err := d.q.QueryContext(ctx, `
		SELECT id, resource, resource_id, batch_id, body, created_at
		FROM activity
		WHERE resource = ? AND resource_id = ?
		ORDER BY id ASC`, string(resource), resourceID)
	if err != nil {
		return nil, wrapErr(EntityActivity, "list", resourceID, err)
	}
	defer rows.Close()

	var entries []models.Activity
	for rows.Next() {
		var a models.Activity
		var res string
		if err := rows.Scan(&a.ID, &res, &a.ResourceID, &a.BatchID, &a.Body, &a.CreatedAt); err != nil {
			return nil, wrapErr(EntityActivity, "list", resourceID, err)
		}
		a.Resource = models.ActivityResource(res)
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(EntityActivity, "list", resourceID, err)
	}
	return entries, nil
}
