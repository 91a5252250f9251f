package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/akyairhashvil/sprintctl/internal/models"
)

var testStart = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

type TestDataBuilder struct {
	t          *testing.T
	ctx        context.Context
	db         *Database
	projectIDs []int64
	sprintIDs  []int64
	taskIDs    []int64
}

func NewTestDataBuilder(t *testing.T) *TestDataBuilder {
	t.Helper()
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	return &TestDataBuilder{t: t, ctx: ctx, db: db}
}

func (b *TestDataBuilder) WithProject(name string, useSprints bool) *TestDataBuilder {
	b.t.Helper()
	id, err := b.db.CreateProject(b.ctx, name, useSprints)
	if err != nil {
		b.t.Fatalf("CreateProject failed: %v", err)
	}
	b.projectIDs = append(b.projectIDs, id)
	return b
}

// WithSprint adds a two-week sprint after the previous one.
func (b *TestDataBuilder) WithSprint(state models.SprintState) *TestDataBuilder {
	b.t.Helper()
	if len(b.projectIDs) == 0 {
		b.WithProject("Default", true)
	}
	start := testStart.Add(time.Duration(len(b.sprintIDs)) * 14 * 24 * time.Hour)
	id, err := b.db.CreateSprint(b.ctx, SprintSeed{
		ProjectID: b.projectIDs[0],
		Name:      fmt.Sprintf("Sprint %d", len(b.sprintIDs)+1),
		StartDate: start,
		EndDate:   start.Add(14 * 24 * time.Hour),
		State:     state,
	})
	if err != nil {
		b.t.Fatalf("CreateSprint failed: %v", err)
	}
	b.sprintIDs = append(b.sprintIDs, id)
	return b
}

// WithTasks adds count tasks to the last sprint, or to the backlog when
// there is none.
func (b *TestDataBuilder) WithTasks(count int) *TestDataBuilder {
	b.t.Helper()
	if len(b.projectIDs) == 0 {
		b.WithProject("Default", true)
	}
	var sprintID int64
	if len(b.sprintIDs) > 0 {
		sprintID = b.sprintIDs[len(b.sprintIDs)-1]
	}
	for i := 0; i < count; i++ {
		id, err := b.db.CreateTask(b.ctx, TaskSeed{
			ProjectID: b.projectIDs[0],
			Name:      fmt.Sprintf("Task %d", len(b.taskIDs)+1),
			SprintID:  sprintID,
		})
		if err != nil {
			b.t.Fatalf("CreateTask failed: %v", err)
		}
		b.taskIDs = append(b.taskIDs, id)
	}
	return b
}

func (b *TestDataBuilder) Build() *Database {
	return b.db
}

func (b *TestDataBuilder) ProjectID() int64 {
	if len(b.projectIDs) == 0 {
		return 0
	}
	return b.projectIDs[0]
}

func (b *TestDataBuilder) SprintIDs() []int64 {
	return b.sprintIDs
}

func (b *TestDataBuilder) TaskIDs() []int64 {
	return b.taskIDs
}

// stageNamed returns the id of a project stage by name.
func (b *TestDataBuilder) stageNamed(name string) int64 {
	b.t.Helper()
	stages, err := b.db.ListStages(b.ctx, b.ProjectID())
	if err != nil {
		b.t.Fatalf("ListStages failed: %v", err)
	}
	for _, s := range stages {
		if s.Name == name {
			return s.ID
		}
	}
	b.t.Fatalf("stage %q not found", name)
	return 0
}
