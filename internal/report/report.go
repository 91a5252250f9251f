// Package report builds sprint reports and renders them as PDF or YAML.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/akyairhashvil/sprintctl/internal/models"
	"github.com/akyairhashvil/sprintctl/internal/util"
)

// Source is the read side a report needs.
type Source interface {
	GetSprint(ctx context.Context, sprintID int64) (models.Sprint, error)
	SprintMetrics(ctx context.Context, sprintID int64) (models.Metrics, error)
	SprintTasks(ctx context.Context, sprintID int64) ([]models.Task, error)
	SprintActivity(ctx context.Context, sprintID int64) ([]models.Activity, error)
}

type SprintInfo struct {
	ID        int64     `yaml:"id"`
	Name      string    `yaml:"name"`
	State     string    `yaml:"state"`
	StartDate time.Time `yaml:"start_date"`
	EndDate   time.Time `yaml:"end_date"`
	Goal      string    `yaml:"goal,omitempty"`
}

type MetricsInfo struct {
	TaskCount            int     `yaml:"task_count"`
	DoneCount            int     `yaml:"done_count"`
	CompletionPercentage float64 `yaml:"completion_percentage"`
	FromSnapshot         bool    `yaml:"from_snapshot"`
}

type TaskLine struct {
	ID             int64  `yaml:"id"`
	Name           string `yaml:"name"`
	Done           bool   `yaml:"done"`
	PreviousSprint int64  `yaml:"previous_sprint_id,omitempty"`
}

type ActivityLine struct {
	At      time.Time `yaml:"at"`
	BatchID string    `yaml:"batch_id,omitempty"`
	Body    string    `yaml:"body"`
}

// SprintReport is a point-in-time view of one sprint.
type SprintReport struct {
	GeneratedAt time.Time      `yaml:"generated_at"`
	Sprint      SprintInfo     `yaml:"sprint"`
	Metrics     MetricsInfo    `yaml:"metrics"`
	Tasks       []TaskLine     `yaml:"tasks"`
	Activity    []ActivityLine `yaml:"activity"`
}

// BuildSprintReport loads the sprint, its metrics, tasks and activity concurrently.
func BuildSprintReport(ctx context.Context, src Source, sprintID int64, now time.Time) (SprintReport, error) {
	var (
		sprint   models.Sprint
		metrics  models.Metrics
		tasks    []models.Task
		activity []models.Activity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sprint, err = src.GetSprint(gctx, sprintID)
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = src.SprintMetrics(gctx, sprintID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = src.SprintTasks(gctx, sprintID)
		return err
	})
	g.Go(func() error {
		var err error
		activity, err = src.SprintActivity(gctx, sprintID)
		return err
	})
	if err := g.Wait(); err != nil {
		return SprintReport{}, fmt.Errorf("loading sprint %d report: %w", sprintID, err)
	}

	r := SprintReport{
		GeneratedAt: now.UTC().Truncate(time.Second),
		Sprint: SprintInfo{
			ID:        sprint.ID,
			Name:      sprint.Name,
			State:     string(sprint.State),
			StartDate: sprint.StartDate,
			EndDate:   sprint.EndDate,
		},
		Metrics: MetricsInfo{
			TaskCount:            metrics.TaskCount,
			DoneCount:            metrics.DoneCount,
			CompletionPercentage: metrics.CompletionPercentage,
			FromSnapshot:         metrics.FromSnapshot,
		},
		Tasks:    make([]TaskLine, 0, len(tasks)),
		Activity: make([]ActivityLine, 0, len(activity)),
	}
	r.Sprint.Goal = util.Deref(sprint.Goal)
	for _, t := range tasks {
		r.Tasks = append(r.Tasks, TaskLine{
			ID:             t.ID,
			Name:           t.Name,
			Done:           t.Done(),
			PreviousSprint: util.Deref(t.PreviousSprintID),
		})
	}
	for _, a := range activity {
		r.Activity = append(r.Activity, ActivityLine{
			At:      a.CreatedAt,
			BatchID: util.Deref(a.BatchID),
			Body:    a.Body,
		})
	}
	return r, nil
}

// WriteYAML encodes the report as YAML.
func WriteYAML(r SprintReport, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
