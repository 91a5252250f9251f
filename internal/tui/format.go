package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/akyairhashvil/sprintctl/internal/models"
)

// FormatTaskCount formats done/total counts for display.
func FormatTaskCount(done, total int) string {
	if total == 0 {
		return "No tasks"
	}
	return fmt.Sprintf("%d/%d done", done, total)
}

// FormatDateRange renders a sprint window as "Jan 02 - Jan 16".
func FormatDateRange(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02"))
}

// FormatSprintState returns a human-readable sprint state.
func FormatSprintState(state models.SprintState) string {
	switch state {
	case models.StateActive:
		return "Active"
	case models.StateClosed:
		return "Closed"
	default:
		return "Waiting"
	}
}

func truncateLabel(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= max {
		return text
	}
	return ansi.Truncate(text, max, "…")
}
