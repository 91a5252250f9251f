package cli

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/akyairhashvil/sprintctl/internal/tui"
)

var errNotTerminal = errors.New("board needs an interactive terminal")

func (a *app) boardCommand() *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "board <project-id>",
		Short: "Open the interactive board of the active sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project")
			if err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNotTerminal
			}
			if theme != "" {
				tui.SetTheme(theme)
			}
			model := tui.NewBoardModel(cmd.Context(), a.svc, projectID, a.logger)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "color theme (default, dracula)")
	return cmd
}
