package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/database"
)

func (a *app) epicCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epic",
		Short: "Manage epics",
	}

	add := &cobra.Command{
		Use:   "add <project-id> <name>",
		Short: "Add an epic to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			seq, _ := cmd.Flags().GetInt("seq")
			desc, _ := cmd.Flags().GetString("desc")
			color, _ := cmd.Flags().GetInt("color")
			id, err := a.db.CreateEpic(cmd.Context(), database.EpicSeed{
				ProjectID:   projectID,
				Name:        args[1],
				Sequence:    seq,
				Description: desc,
				Color:       color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Epic %d created.\n", id)
			return nil
		},
	}
	add.Flags().Int("seq", config.DefaultEpicSequence, "display order")
	add.Flags().String("desc", "", "description")
	add.Flags().Int("color", 0, "color index")

	list := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the epics of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			epics, err := a.db.ListEpics(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "SEQ", "NAME", "DESCRIPTION")
			for _, e := range epics {
				row(tw, e.ID, e.Sequence, e.Name, optString(e.Description))
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <epic-id>",
		Short: "Show epic progress and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "epic")
			if err != nil {
				return err
			}
			progress, err := a.svc.EpicProgress(cmd.Context(), id)
			if err != nil {
				return err
			}
			tasks, err := a.db.TasksForEpic(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Epic %q: %s\n\n", progress.Epic.Name, formatMetrics(progress.Metrics))
			return writeTasks(out, tasks)
		},
	}

	cmd.AddCommand(add, list, show)
	return cmd
}
