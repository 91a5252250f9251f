package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
)

var fixedNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t   *testing.T
	ctx context.Context
	svc *Service
	db  *database.Database
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC)}, opts...)
	return &fixture{
		t:   t,
		ctx: ctx,
		svc: New(db, zaptest.NewLogger(t), opts...),
		db:  db,
	}
}

func (f *fixture) project(name string) int64 {
	f.t.Helper()
	id, err := f.db.CreateProject(f.ctx, name, true)
	require.NoError(f.t, err)
	return id
}

func (f *fixture) stage(projectID int64, name string) int64 {
	f.t.Helper()
	stages, err := f.db.ListStages(f.ctx, projectID)
	require.NoError(f.t, err)
	for _, st := range stages {
		if st.Name == name {
			return st.ID
		}
	}
	f.t.Fatalf("stage %q not found in project %d", name, projectID)
	return 0
}

// sprint inserts a two-week sprint directly, bypassing the wizards.
func (f *fixture) sprint(projectID int64, name string, start time.Time, state models.SprintState) models.Sprint {
	f.t.Helper()
	id, err := f.db.CreateSprint(f.ctx, database.SprintSeed{
		ProjectID: projectID,
		Name:      name,
		StartDate: start,
		EndDate:   start.Add(2 * config.Week),
		State:     state,
	})
	require.NoError(f.t, err)
	sp, err := f.db.GetSprint(f.ctx, id)
	require.NoError(f.t, err)
	return sp
}

func (f *fixture) tasks(projectID, sprintID int64, n int) []int64 {
	f.t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := f.db.CreateTask(f.ctx, database.TaskSeed{
			ProjectID: projectID,
			Name:      fmt.Sprintf("task %d", i+1),
			SprintID:  sprintID,
		})
		require.NoError(f.t, err)
		ids = append(ids, id)
	}
	return ids
}

func (f *fixture) markDone(projectID int64, ids ...int64) {
	f.t.Helper()
	done := f.stage(projectID, "Done")
	for _, id := range ids {
		_, err := f.svc.SetTaskStage(f.ctx, id, done)
		require.NoError(f.t, err)
	}
}

func (f *fixture) reload(id int64) models.Sprint {
	f.t.Helper()
	sp, err := f.db.GetSprint(f.ctx, id)
	require.NoError(f.t, err)
	return sp
}

func (f *fixture) task(id int64) models.Task {
	f.t.Helper()
	task, err := f.db.GetTask(f.ctx, id)
	require.NoError(f.t, err)
	return task
}

func (f *fixture) notes(resource models.ActivityResource, id int64) []models.Activity {
	f.t.Helper()
	notes, err := f.db.ListActivity(f.ctx, resource, id)
	require.NoError(f.t, err)
	return notes
}
