package service

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/models"
)

func TestResolveEnd(t *testing.T) {
	start := time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		duration string
		end      time.Time
		want     time.Time
		wantErr  error
	}{
		{name: "one week", duration: config.DurationOneWeek, want: start.AddDate(0, 0, 7)},
		{name: "two weeks", duration: config.DurationTwoWeeks, want: start.AddDate(0, 0, 14)},
		{name: "four weeks", duration: config.DurationFourWeeks, want: start.AddDate(0, 0, 28)},
		{name: "custom", duration: config.DurationCustom, end: start.AddDate(0, 0, 10), want: start.AddDate(0, 0, 10)},
		{name: "custom unset end", duration: config.DurationCustom, want: start},
		{name: "custom before start", duration: config.DurationCustom, end: start.AddDate(0, 0, -1), wantErr: ErrInvalidDates},
		{name: "unknown", duration: "3", wantErr: ErrInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveEnd(start, tt.duration, tt.end)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestNewSprintDefaults(t *testing.T) {
	f := newFixture(t, WithDefaultDuration(config.DurationFourWeeks))
	got := f.svc.NewSprintDefaults(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))
	want := SprintDefaults{
		Name:        "Şubat 26",
		PlannedName: "Şubat 26 (Planned)",
		Start:       time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		Duration:    config.DurationFourWeeks,
		End:         time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateSprintWizard(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	backlog := f.tasks(pid, 0, 2)

	sp, err := f.svc.CreateSprint(f.ctx, CreateSprintRequest{ProjectID: pid, TaskIDs: backlog, Goal: " Ship "})
	require.NoError(t, err)
	assert.Equal(t, "Mart 26 (Planned)", sp.Name)
	assert.Equal(t, models.StateWaiting, sp.State)
	assert.True(t, sp.StartDate.Equal(fixedNow))
	assert.True(t, sp.EndDate.Equal(fixedNow.Add(2*config.Week)))
	require.NotNil(t, sp.Goal)
	assert.Equal(t, "Ship", *sp.Goal)

	for _, id := range backlog {
		assert.Equal(t, sp.ID, *f.task(id).SprintID)
	}
}

func TestCreateSprintWizardValidation(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	other := f.project("Beta")
	running := f.sprint(pid, "Running", fixedNow, models.StateActive)
	planned := f.tasks(pid, running.ID, 1)
	foreign := f.tasks(other, 0, 1)

	_, err := f.svc.CreateSprint(f.ctx, CreateSprintRequest{
		ProjectID: pid,
		Start:     fixedNow,
		Duration:  config.DurationCustom,
		End:       fixedNow.Add(-time.Hour),
	})
	require.ErrorIs(t, err, ErrInvalidDates)

	_, err = f.svc.CreateSprint(f.ctx, CreateSprintRequest{ProjectID: pid, TaskIDs: foreign})
	require.ErrorIs(t, err, ErrForeignReference)

	_, err = f.svc.CreateSprint(f.ctx, CreateSprintRequest{ProjectID: pid, TaskIDs: planned})
	require.Error(t, err)

	plain, err := f.db.CreateProject(f.ctx, "Plain", false)
	require.NoError(t, err)
	_, err = f.svc.CreateSprint(f.ctx, CreateSprintRequest{ProjectID: plain})
	require.ErrorIs(t, err, ErrSprintManagementOff)

	n, err := f.db.CountSprints(f.ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "failed wizards must not leave sprints behind")
}

func TestBeginSprintCreatesActive(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	ids := f.tasks(pid, 0, 3)

	res, err := f.svc.BeginSprint(f.ctx, StartSprintRequest{ProjectID: pid, TaskIDs: ids, Duration: config.DurationOneWeek})
	require.NoError(t, err)
	assert.Equal(t, "Mart 26", res.Sprint.Name)
	assert.Equal(t, models.StateActive, res.Sprint.State)
	assert.Equal(t, 3, res.Assigned)
	assert.Equal(t, `Sprint "Mart 26" has been created and activated!`, res.Message)
	assert.True(t, res.Sprint.EndDate.Equal(fixedNow.Add(config.Week)))

	notes := f.notes(models.ResourceSprint, res.Sprint.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, "Sprint Mart 26 has been started with 3 tasks.", notes[0].Body)

	_, err = f.svc.BeginSprint(f.ctx, StartSprintRequest{ProjectID: pid})
	require.ErrorIs(t, err, ErrActiveSprintExists)
}

func TestBeginSprintActivatesWaiting(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	waiting := f.sprint(pid, "Planned", fixedNow, models.StateWaiting)
	ids := f.tasks(pid, 0, 1)

	res, err := f.svc.BeginSprint(f.ctx, StartSprintRequest{ProjectID: pid, SprintID: waiting.ID, TaskIDs: ids})
	require.NoError(t, err)
	assert.Equal(t, waiting.ID, res.Sprint.ID)
	assert.Equal(t, "Planned", res.Sprint.Name)
	assert.Equal(t, models.StateActive, res.Sprint.State)
	assert.True(t, res.Sprint.EndDate.Equal(waiting.EndDate), "unchanged plan keeps the end date")
	assert.Equal(t, waiting.ID, *f.task(ids[0]).SprintID)

	n, err := f.db.CountSprints(f.ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBeginSprintKeepsPlannedGoal(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	planned, err := f.svc.CreateSprint(f.ctx, CreateSprintRequest{ProjectID: pid, Goal: "Ship billing"})
	require.NoError(t, err)

	res, err := f.svc.BeginSprint(f.ctx, StartSprintRequest{ProjectID: pid, SprintID: planned.ID})
	require.NoError(t, err)
	require.NotNil(t, res.Sprint.Goal)
	assert.Equal(t, "Ship billing", *res.Sprint.Goal)
}

func TestBeginSprintRejectsClosedSprint(t *testing.T) {
	f := newFixture(t)
	pid := f.project("Alpha")
	closed := f.sprint(pid, "Done", fixedNow.Add(-30*24*time.Hour), models.StateClosed)

	_, err := f.svc.BeginSprint(f.ctx, StartSprintRequest{ProjectID: pid, SprintID: closed.ID})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNewSprintDefaultsUseLocation(t *testing.T) {
	f := newFixture(t, WithLocation(time.FixedZone("TRT", 3*60*60)))
	got := f.svc.NewSprintDefaults(time.Date(2026, time.January, 31, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, "Şubat 26", got.Name)
	assert.Equal(t, "Şubat 26 (Planned)", got.PlannedName)
}

func TestMonthNames(t *testing.T) {
	jan := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Ocak 26", SprintName(MonthNames("tr"), jan))
	assert.Equal(t, "Ocak 26", SprintName(MonthNames("tr-TR"), jan))
	assert.Equal(t, "January 26", SprintName(MonthNames("en-US"), jan))
	assert.Equal(t, "Ocak 26", SprintName(MonthNames("not a locale!"), jan))
	assert.Equal(t, "Aralık 05", SprintName(MonthNames("tr"), time.Date(2005, time.December, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Ağustos 26 (Planned)", PlannedSprintName(MonthNames(""), time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)))
}
