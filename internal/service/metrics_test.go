package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
)

func TestSprintMetricsLive(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	sp := f.sprint(pid, "S1", fixedNow, models.StateActive)
	ids := f.tasks(pid, sp.ID, 3)

	m, err := f.svc.SprintMetrics(f.ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Metrics{TaskCount: 3}, m)

	f.markDone(pid, ids[0])
	m, err = f.svc.SprintMetrics(f.ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Metrics{TaskCount: 3, DoneCount: 1, CompletionPercentage: 33.33}, m)

	f.markDone(pid, ids[1])
	m, err = f.svc.SprintMetrics(f.ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, 66.67, m.CompletionPercentage)
}

func TestEpicProgress(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	epicID, err := f.db.CreateEpic(f.ctx, database.EpicSeed{ProjectID: pid, Name: "Payments"})
	require.NoError(t, err)
	ids := f.tasks(pid, 0, 4)
	for _, id := range ids[:3] {
		require.NoError(t, f.svc.SetTaskEpic(f.ctx, id, epicID))
	}
	f.markDone(pid, ids[0], ids[3])

	p, err := f.svc.EpicProgress(f.ctx, epicID)
	require.NoError(t, err)
	assert.Equal(t, "Payments", p.Epic.Name)
	assert.Equal(t, models.Metrics{TaskCount: 3, DoneCount: 1, CompletionPercentage: 33.33}, p.Metrics)

	other := f.project("Beta")
	foreignEpic, err := f.db.CreateEpic(f.ctx, database.EpicSeed{ProjectID: other, Name: "Elsewhere"})
	require.NoError(t, err)
	require.ErrorIs(t, f.svc.SetTaskEpic(f.ctx, ids[0], foreignEpic), ErrForeignReference)
}

func TestProjectOverview(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	active := f.sprint(pid, "S1", fixedNow, models.StateActive)
	f.sprint(pid, "S2", active.EndDate, models.StateWaiting)
	f.tasks(pid, active.ID, 1)
	f.tasks(pid, 0, 2)
	_, err := f.db.CreateEpic(f.ctx, database.EpicSeed{ProjectID: pid, Name: "E"})
	require.NoError(t, err)

	ov, err := f.svc.ProjectOverview(f.ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 2, ov.SprintCount)
	assert.Equal(t, 1, ov.EpicCount)
	assert.Equal(t, 2, ov.BacklogCount)
	require.NotNil(t, ov.ActiveSprint)
	assert.Equal(t, active.ID, ov.ActiveSprint.ID)

	plain, err := f.db.CreateProject(f.ctx, "Plain", false)
	require.NoError(t, err)
	f.tasks(plain, 0, 2)
	ov, err = f.svc.ProjectOverview(f.ctx, plain)
	require.NoError(t, err)
	assert.Zero(t, ov.BacklogCount, "backlog is not tracked without sprint management")
	assert.Nil(t, ov.ActiveSprint)
}

func TestSprintBoard(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")

	_, err := f.svc.SprintBoard(f.ctx, pid)
	require.ErrorIs(t, err, ErrNoActiveSprint)

	hidden, err := f.db.CreateStage(f.ctx, pid, database.StageSeed{Name: "Triage", Sequence: 5})
	require.NoError(t, err)
	sp := f.sprint(pid, "S1", fixedNow, models.StateActive)
	ids := f.tasks(pid, sp.ID, 4)
	_, err = f.svc.SetTaskStage(f.ctx, ids[0], f.stage(pid, "In Progress"))
	require.NoError(t, err)
	_, err = f.svc.SetTaskStage(f.ctx, ids[1], hidden)
	require.NoError(t, err)
	f.markDone(pid, ids[2])

	board, err := f.svc.SprintBoard(f.ctx, pid)
	require.NoError(t, err)
	var names []string
	for _, col := range board.Columns {
		names = append(names, col.Stage.Name)
	}
	if diff := cmp.Diff([]string{"To Do", "In Progress", "Blocked", "Done"}, names); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, board.Columns[1].Tasks, 1)
	assert.Len(t, board.Columns[3].Tasks, 1)
	assert.Len(t, board.Unstaged, 2, "tasks without a board stage are unstaged")
	assert.Equal(t, 25.0, board.Metrics.CompletionPercentage)
}

func TestCompletionAlwaysInRange(t *testing.T) {
	for total := 0; total <= 40; total++ {
		for done := 0; done <= total; done++ {
			got := models.Completion(done, total)
			require.GreaterOrEqual(t, got, 0.0)
			require.LessOrEqual(t, got, 100.0)
			require.InDelta(t, got, float64(int(got*100+0.5))/100, 1e-9, "two decimals")
		}
	}
}

func TestAddTaskValidation(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	other := f.project("Beta")
	closed := f.sprint(pid, "Old", fixedNow, models.StateClosed)

	task, err := f.svc.AddTask(f.ctx, database.TaskSeed{ProjectID: pid, Name: " Write docs ", StageID: f.stage(pid, "To Do")})
	require.NoError(t, err)
	assert.Equal(t, "Write docs", task.Name)

	_, err = f.svc.AddTask(f.ctx, database.TaskSeed{ProjectID: pid, Name: "x", StageID: f.stage(other, "Done")})
	require.ErrorIs(t, err, ErrForeignReference)

	_, err = f.svc.AddTask(f.ctx, database.TaskSeed{ProjectID: pid, Name: "x", SprintID: closed.ID})
	require.ErrorIs(t, err, ErrInvalidTarget)

	_, err = f.svc.AddTask(f.ctx, database.TaskSeed{ProjectID: pid})
	require.Error(t, err)
}
