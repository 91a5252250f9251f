package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
)

func TestStartSprint(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	sp := f.sprint(pid, "S1", fixedNow, models.StateWaiting)

	started, err := f.svc.StartSprint(f.ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, started.State)
	assert.Equal(t, models.StateActive, f.reload(sp.ID).State)

	notes := f.notes(models.ResourceSprint, sp.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, "Sprint S1 has been activated.", notes[0].Body)
}

func TestStartSprintRejectsSecondActive(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	f.sprint(pid, "Running", fixedNow, models.StateActive)
	waiting := f.sprint(pid, "Next", fixedNow.Add(14*24*time.Hour), models.StateWaiting)

	_, err := f.svc.StartSprint(f.ctx, waiting.ID)
	require.ErrorIs(t, err, ErrActiveSprintExists)
	assert.Contains(t, err.Error(), `"Running"`)
	assert.Equal(t, models.StateWaiting, f.reload(waiting.ID).State)

	// A sprint of another project does not block.
	other := f.project("Beta")
	osp := f.sprint(other, "Beta 1", fixedNow, models.StateWaiting)
	_, err = f.svc.StartSprint(f.ctx, osp.ID)
	require.NoError(t, err)
}

func TestStartSprintEnsuresStages(t *testing.T) {
	f := newFixture(t)
	pid, err := f.db.CreateProject(f.ctx, "Late", false)
	require.NoError(t, err)
	sp := f.sprint(pid, "S1", fixedNow, models.StateWaiting)
	require.NoError(t, f.db.SetSprintManagement(f.ctx, pid, true))

	_, err = f.db.DB.ExecContext(f.ctx, "DELETE FROM stages WHERE project_id = ?", pid)
	require.NoError(t, err)

	_, err = f.svc.StartSprint(f.ctx, sp.ID)
	require.NoError(t, err)
	stages, err := f.db.ListStages(f.ctx, pid)
	require.NoError(t, err)
	assert.Len(t, stages, 4)
}

func TestNoReverseTransitions(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	active := f.sprint(pid, "A", fixedNow, models.StateActive)
	closed := f.sprint(pid, "C", fixedNow.Add(-30*24*time.Hour), models.StateClosed)
	waiting := f.sprint(pid, "W", fixedNow.Add(30*24*time.Hour), models.StateWaiting)

	_, err := f.svc.StartSprint(f.ctx, active.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.StartSprint(f.ctx, closed.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.CloseSprint(f.ctx, waiting.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.CloseSprint(f.ctx, closed.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.ReconcileClose(f.ctx, CloseRequest{SprintID: waiting.ID, Action: ActionBacklog})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.StartSprint(f.ctx, 999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCloseSprintAllDone(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	sp := f.sprint(pid, "S1", fixedNow, models.StateActive)
	ids := f.tasks(pid, sp.ID, 3)
	f.markDone(pid, ids...)

	out, err := f.svc.CloseSprint(f.ctx, sp.ID)
	require.NoError(t, err)
	require.True(t, out.Closed)
	assert.Nil(t, out.Proposal)
	assert.Equal(t, "Sprint closed successfully. All tasks were completed!", out.Message)

	got := f.reload(sp.ID)
	assert.Equal(t, models.StateClosed, got.State)
	assert.Equal(t, models.Snapshot{TaskCount: 3, DoneCount: 3, CompletionPercentage: 100}, got.Snapshot)
	notes := f.notes(models.ResourceSprint, sp.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, out.Message, notes[0].Body)
}

func TestCloseSprintEmpty(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	sp := f.sprint(pid, "Empty", fixedNow, models.StateActive)

	out, err := f.svc.CloseSprint(f.ctx, sp.ID)
	require.NoError(t, err)
	assert.True(t, out.Closed)
	assert.Equal(t, models.Snapshot{}, f.reload(sp.ID).Snapshot)
}

func TestCloseSprintProposesReconciliation(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	sp := f.sprint(pid, "S1", fixedNow, models.StateActive)
	next := f.sprint(pid, "S2", sp.EndDate, models.StateWaiting)
	f.sprint(pid, "S3", sp.EndDate.Add(14*24*time.Hour), models.StateWaiting)
	ids := f.tasks(pid, sp.ID, 3)
	f.markDone(pid, ids[0])

	out, err := f.svc.CloseSprint(f.ctx, sp.ID)
	require.NoError(t, err)
	assert.False(t, out.Closed)
	require.NotNil(t, out.Proposal)
	assert.Equal(t, 2, out.Proposal.IncompleteCount)
	assert.Equal(t, []int64{ids[1], ids[2]}, out.Proposal.IncompleteTaskIDs)
	assert.Equal(t, ActionMove, out.Proposal.Action)
	require.NotNil(t, out.Proposal.NextSprint)
	assert.Equal(t, next.ID, out.Proposal.NextSprint.ID)

	// Nothing changed yet.
	got := f.reload(sp.ID)
	assert.Equal(t, models.StateActive, got.State)
	assert.Equal(t, models.Snapshot{}, got.Snapshot)
}
