package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/akyairhashvil/sprintctl/internal/models"
	"github.com/akyairhashvil/sprintctl/internal/service"
)

// errCloseNeedsAction is returned when a sprint cannot close without a
// decision about its incomplete tasks.
var errCloseNeedsAction = errors.New("sprint has incomplete tasks: rerun with --action move, new or backlog")

// windowFlags are shared by sprint create and sprint begin.
type windowFlags struct {
	name     string
	start    string
	duration string
	end      string
	goal     string
	tasks    []string
}

func (w *windowFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&w.name, "name", "", "sprint name (default from the month of the start date)")
	f.StringVar(&w.start, "start", "", "start date YYYY-MM-DD (default today)")
	f.StringVar(&w.duration, "duration", "", "duration in weeks: 1, 2, 4 or custom")
	f.StringVar(&w.end, "end", "", "end date YYYY-MM-DD, used with --duration custom")
	f.StringVar(&w.goal, "goal", "", "sprint goal")
	f.StringSliceVar(&w.tasks, "tasks", nil, "task ids to include")
}

func (a *app) sprintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Plan, start and close sprints",
	}
	cmd.AddCommand(
		a.sprintCreateCommand(),
		a.sprintBeginCommand(),
		a.sprintStartCommand(),
		a.sprintCloseCommand(),
		a.sprintListCommand(),
		a.sprintShowCommand(),
	)
	return cmd
}

func (a *app) sprintCreateCommand() *cobra.Command {
	var w windowFlags
	cmd := &cobra.Command{
		Use:   "create <project-id>",
		Short: "Plan a waiting sprint from backlog tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			req := service.CreateSprintRequest{ProjectID: projectID, Name: w.name, Duration: w.duration, Goal: w.goal}
			if req.Start, err = parseDate(w.start); err != nil {
				return err
			}
			if req.End, err = parseDate(w.end); err != nil {
				return err
			}
			if req.TaskIDs, err = parseIDs(w.tasks, "task"); err != nil {
				return err
			}
			sp, err := a.svc.CreateSprint(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sprint %q (#%d) planned for %s - %s with %d task(s).\n",
				sp.Name, sp.ID, formatDate(sp.StartDate), formatDate(sp.EndDate), len(req.TaskIDs))
			return nil
		},
	}
	w.register(cmd)
	return cmd
}

func (a *app) sprintBeginCommand() *cobra.Command {
	var w windowFlags
	var sprintID int64
	cmd := &cobra.Command{
		Use:   "begin <project-id>",
		Short: "Start a sprint in one step, creating it unless --sprint is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			req := service.StartSprintRequest{ProjectID: projectID, SprintID: sprintID, Name: w.name, Duration: w.duration, Goal: w.goal}
			if req.Start, err = parseDate(w.start); err != nil {
				return err
			}
			if req.End, err = parseDate(w.end); err != nil {
				return err
			}
			if req.TaskIDs, err = parseIDs(w.tasks, "task"); err != nil {
				return err
			}
			res, err := a.svc.BeginSprint(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	w.register(cmd)
	cmd.Flags().Int64Var(&sprintID, "sprint", 0, "activate this waiting sprint instead of creating one")
	return cmd
}

func (a *app) sprintStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <sprint-id>",
		Short: "Activate a waiting sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "sprint")
			if err != nil {
				return err
			}
			sp, err := a.svc.StartSprint(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sprint %s has been activated.\n", sp.Name)
			return nil
		},
	}
}

func (a *app) sprintCloseCommand() *cobra.Command {
	var action string
	var target int64
	cmd := &cobra.Command{
		Use:   "close <sprint-id>",
		Short: "Close the active sprint",
		Long: `Close the active sprint. When every task is done the sprint closes at once.
Otherwise pass --action to decide where the incomplete tasks go:

  move     into an open sprint (--target, default the next planned sprint)
  new      into a new waiting sprint starting when this one ends
  backlog  back to the project backlog`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "sprint")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			act := service.CloseAction(action)
			if act != "" && !act.Valid() {
				return fmt.Errorf("%w: %q", service.ErrInvalidAction, action)
			}

			if act == "" || (act == service.ActionMove && target == 0) {
				outcome, err := a.svc.CloseSprint(cmd.Context(), id)
				if err != nil {
					return err
				}
				if outcome.Closed {
					fmt.Fprintln(out, outcome.Message)
					return nil
				}
				if act == "" {
					writeProposal(out, outcome.Proposal)
					return errCloseNeedsAction
				}
				if outcome.Proposal.NextSprint == nil {
					return service.ErrTargetSprintRequired
				}
				target = outcome.Proposal.NextSprint.ID
			}

			res, err := a.svc.ReconcileClose(cmd.Context(), service.CloseRequest{SprintID: id, Action: act, TargetSprintID: target})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "what to do with incomplete tasks: move, new or backlog")
	cmd.Flags().Int64Var(&target, "target", 0, "target sprint for --action move")
	return cmd
}

func writeProposal(w io.Writer, p *service.CloseProposal) {
	fmt.Fprintf(w, "Sprint %q has %d incomplete task(s).\n", p.SprintName, p.IncompleteCount)
	if p.NextSprint != nil {
		fmt.Fprintf(w, "Next sprint: %s (#%d, starts %s)\n", p.NextSprint.Name, p.NextSprint.ID, formatDate(p.NextSprint.StartDate))
	} else {
		fmt.Fprintln(w, "No planned sprint follows; use --action new or --action backlog.")
	}
}

func (a *app) sprintListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List the sprints of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			sprints, err := a.db.ListSprints(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return writeSprints(cmd.OutOrStdout(), sprints)
		},
	}
}

func (a *app) sprintShowCommand() *cobra.Command {
	var notes bool
	cmd := &cobra.Command{
		Use:   "show <sprint-id>",
		Short: "Show a sprint with its metrics and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "sprint")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sp, err := a.svc.GetSprint(ctx, id)
			if err != nil {
				return err
			}
			m, err := a.svc.SprintMetrics(ctx, id)
			if err != nil {
				return err
			}
			tasks, err := a.svc.SprintTasks(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source := "live"
			if m.FromSnapshot {
				source = "snapshot"
			}
			tw := newTable(out, "FIELD", "VALUE")
			row(tw, "Name", sp.Name)
			row(tw, "State", sp.State)
			row(tw, "Window", formatDate(sp.StartDate)+" - "+formatDate(sp.EndDate))
			row(tw, "Goal", optString(sp.Goal))
			row(tw, "Completion", formatMetrics(m)+" "+source)
			row(tw, "Tasks", taskSummary(tasks))
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if err := writeTasks(out, tasks); err != nil {
				return err
			}
			if !notes {
				return nil
			}
			activity, err := a.svc.SprintActivity(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			return writeActivity(out, activity)
		},
	}
	cmd.Flags().BoolVar(&notes, "notes", false, "include the sprint activity log")
	return cmd
}

func writeActivity(w io.Writer, notes []models.Activity) error {
	for _, n := range notes {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Body); err != nil {
			return err
		}
	}
	return nil
}
