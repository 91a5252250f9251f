package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/akyairhashvil/sprintctl/internal/models"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...interface{}) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

func parseIDs(args []string, what string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(part, what)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parseDate reads a YYYY-MM-DD flag value; empty means unset.
func parseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func optID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func optString(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatMetrics(m models.Metrics) string {
	return fmt.Sprintf("%d/%d done (%.2f%%)", m.DoneCount, m.TaskCount, m.CompletionPercentage)
}

func writeTasks(w io.Writer, tasks []models.Task) error {
	tw := newTable(w, "ID", "NAME", "STAGE", "SPRINT", "EPIC", "DONE")
	for _, t := range tasks {
		row(tw, t.ID, t.Name, optID(t.StageID), optID(t.SprintID), optID(t.EpicID), yesNo(t.Done()))
	}
	return tw.Flush()
}

func writeSprints(w io.Writer, sprints []models.Sprint) error {
	tw := newTable(w, "ID", "NAME", "STATE", "START", "END", "GOAL")
	for _, s := range sprints {
		row(tw, s.ID, s.Name, s.State, formatDate(s.StartDate), formatDate(s.EndDate), optString(s.Goal))
	}
	return tw.Flush()
}
