package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/database"
)

func (a *app) stageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage project board stages",
	}

	add := &cobra.Command{
		Use:   "add <project-id> <name>",
		Short: "Add a stage to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			seq, _ := cmd.Flags().GetInt("seq")
			fold, _ := cmd.Flags().GetBool("fold")
			closed, _ := cmd.Flags().GetBool("closed")
			board, _ := cmd.Flags().GetBool("board")
			id, err := a.db.CreateStage(cmd.Context(), projectID, database.StageSeed{
				Name:             args[1],
				Sequence:         seq,
				Fold:             fold,
				IsClosed:         closed,
				UseInSprintBoard: board,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stage %d created.\n", id)
			return nil
		},
	}
	add.Flags().Int("seq", config.DefaultStageSequence, "board order")
	add.Flags().Bool("fold", false, "tasks in this stage count as done")
	add.Flags().Bool("closed", false, "stage is closed; tasks count as done")
	add.Flags().Bool("board", true, "show on the sprint board")

	list := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the stages of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			stages, err := a.db.ListStages(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "SEQ", "NAME", "DONE", "BOARD")
			for _, s := range stages {
				row(tw, s.ID, s.Sequence, s.Name, yesNo(s.Done()), yesNo(s.UseInSprintBoard))
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
