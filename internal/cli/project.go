package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create and inspect projects",
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sprints, _ := cmd.Flags().GetBool("sprints")
			id, err := a.db.CreateProject(cmd.Context(), args[0], sprints)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project %d created.\n", id)
			return nil
		},
	}
	create.Flags().Bool("sprints", true, "enable sprint management")

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := a.db.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "SPRINTS")
			for _, p := range projects {
				row(tw, p.ID, p.Name, yesNo(p.UseSprintManagement))
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show project counters and the active sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			ov, err := a.svc.ProjectOverview(cmd.Context(), id)
			if err != nil {
				return err
			}
			active := "-"
			if ov.ActiveSprint != nil {
				active = fmt.Sprintf("%s (#%d)", ov.ActiveSprint.Name, ov.ActiveSprint.ID)
			}
			tw := newTable(cmd.OutOrStdout(), "FIELD", "VALUE")
			row(tw, "Name", ov.Project.Name)
			row(tw, "Sprint management", yesNo(ov.Project.UseSprintManagement))
			row(tw, "Sprints", ov.SprintCount)
			row(tw, "Epics", ov.EpicCount)
			row(tw, "Backlog", ov.BacklogCount)
			row(tw, "Active sprint", active)
			return tw.Flush()
		},
	}

	enable := &cobra.Command{
		Use:   "enable <project-id>",
		Short: "Turn sprint management on (or off with --off)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			off, _ := cmd.Flags().GetBool("off")
			if err := a.db.SetSprintManagement(cmd.Context(), id, !off); err != nil {
				return err
			}
			state := "enabled"
			if off {
				state = "disabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sprint management %s for project %d.\n", state, id)
			return nil
		},
	}
	enable.Flags().Bool("off", false, "disable sprint management instead")

	cmd.AddCommand(create, list, show, enable)
	return cmd
}
