package database

import (
	"context"
	"errors"
	"testing"

	"github.com/akyairhashvil/sprintctl/internal/models"
)

func TestActivityNotes(t *testing.T) {
	ctx := context.Background()
	b := NewTestDataBuilder(t).WithProject("Alpha", true).WithSprint(models.StateActive)
	db := b.Build()
	id := b.SprintIDs()[0]

	if err := db.PostActivity(ctx, models.ResourceSprint, id, "", "first"); err != nil {
		t.Fatalf("PostActivity failed: %v", err)
	}
	if err := db.PostActivity(ctx, models.ResourceSprint, id, "b-1", "second"); err != nil {
		t.Fatalf("PostActivity failed: %v", err)
	}
	if err := db.PostActivity(ctx, models.ResourceTask, id, "b-1", "task note"); err != nil {
		t.Fatalf("PostActivity failed: %v", err)
	}

	notes, err := db.ListActivity(ctx, models.ResourceSprint, id)
	if err != nil {
		t.Fatalf("ListActivity failed: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 sprint notes, got %d", len(notes))
	}
	if notes[0].Body != "first" || notes[0].BatchID != nil {
		t.Fatalf("unexpected first note %+v", notes[0])
	}
	if notes[1].BatchID == nil || *notes[1].BatchID != "b-1" {
		t.Fatalf("expected batch id on second note, got %+v", notes[1])
	}
	if notes[1].Resource != models.ResourceSprint {
		t.Fatalf("unexpected resource %q", notes[1].Resource)
	}
}

func TestEpicCRUD(t *testing.T) {
	ctx := context.Background()
	b := NewTestDataBuilder(t).WithProject("Alpha", true)
	db := b.Build()

	second, err := db.CreateEpic(ctx, EpicSeed{ProjectID: b.ProjectID(), Name: "Billing", Sequence: 20, Color: 3})
	if err != nil {
		t.Fatalf("CreateEpic failed: %v", err)
	}
	first, err := db.CreateEpic(ctx, EpicSeed{ProjectID: b.ProjectID(), Name: "Auth", Description: "Login flows"})
	if err != nil {
		t.Fatalf("CreateEpic failed: %v", err)
	}

	epics, err := db.ListEpics(ctx, b.ProjectID())
	if err != nil {
		t.Fatalf("ListEpics failed: %v", err)
	}
	if len(epics) != 2 || epics[0].ID != first || epics[1].ID != second {
		t.Fatalf("expected epics ordered by sequence, got %+v", epics)
	}
	if epics[0].Description == nil || *epics[0].Description != "Login flows" {
		t.Fatalf("unexpected description %+v", epics[0].Description)
	}
	if epics[1].Description != nil || epics[1].Color != 3 {
		t.Fatalf("unexpected epic %+v", epics[1])
	}

	n, err := db.CountEpics(ctx, b.ProjectID())
	if err != nil {
		t.Fatalf("CountEpics failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 epics, got %d", n)
	}
	if _, err := db.GetEpic(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
