package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/models"
	"github.com/akyairhashvil/sprintctl/internal/service"
)

func (a *app) taskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	add := &cobra.Command{
		Use:   "add <project-id> <name>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			stage, _ := cmd.Flags().GetInt64("stage")
			sprint, _ := cmd.Flags().GetInt64("sprint")
			epic, _ := cmd.Flags().GetInt64("epic")
			t, err := a.svc.AddTask(cmd.Context(), database.TaskSeed{
				ProjectID: projectID,
				Name:      args[1],
				StageID:   stage,
				SprintID:  sprint,
				EpicID:    epic,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d created.\n", t.ID)
			return nil
		},
	}
	add.Flags().Int64("stage", 0, "stage id")
	add.Flags().Int64("sprint", 0, "sprint id (default backlog)")
	add.Flags().Int64("epic", 0, "epic id")

	list := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the tasks of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			backlog, _ := cmd.Flags().GetBool("backlog")
			sprint, _ := cmd.Flags().GetInt64("sprint")
			q := database.NewTaskQuery().WhereProject(projectID)
			switch {
			case backlog:
				q = q.WhereBacklog()
			case sprint > 0:
				q = q.WhereSprint(sprint)
			}
			tasks, err := a.db.ListTasks(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeTasks(cmd.OutOrStdout(), tasks)
		},
	}
	list.Flags().Bool("backlog", false, "only tasks without a sprint")
	list.Flags().Int64("sprint", 0, "only tasks of this sprint")

	stage := &cobra.Command{
		Use:   "stage <task-id> <stage-id>",
		Short: "Move a task to a stage (0 clears it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			stageID, err := optionalID(args[1], "stage")
			if err != nil {
				return err
			}
			t, err := a.svc.SetTaskStage(cmd.Context(), taskID, stageID)
			if err != nil {
				return err
			}
			state := "open"
			if t.Done() {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s.\n", t.ID, state)
			return nil
		},
	}

	epic := &cobra.Command{
		Use:   "epic <task-id> <epic-id>",
		Short: "Attach a task to an epic (0 detaches it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			epicID, err := optionalID(args[1], "epic")
			if err != nil {
				return err
			}
			if err := a.svc.SetTaskEpic(cmd.Context(), taskID, epicID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d updated.\n", taskID)
			return nil
		},
	}

	move := &cobra.Command{
		Use:   "move <sprint-id> <task-id>...",
		Short: "Move tasks into a sprint",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sprintID, err := parseID(args[0], "sprint")
			if err != nil {
				return err
			}
			ids, err := parseIDs(args[1:], "task")
			if err != nil {
				return err
			}
			res, err := a.svc.MoveTasks(cmd.Context(), service.MoveRequest{TaskIDs: ids, SprintID: sprintID})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}

	cmd.AddCommand(add, list, stage, epic, move)
	return cmd
}

func optionalID(s, what string) (int64, error) {
	if s == "0" {
		return 0, nil
	}
	return parseID(s, what)
}

// taskSummary is used by sprint show.
func taskSummary(tasks []models.Task) string {
	return fmt.Sprintf("%d task(s), %d done", len(tasks), models.CountDone(tasks))
}
