package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akyairhashvil/sprintctl/internal/report"
)

func (a *app) reportCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "report <sprint-id>",
		Short: "Write a PDF report of a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "sprint")
			if err != nil {
				return err
			}
			r, err := report.BuildSprintReport(cmd.Context(), a.svc, id, a.now())
			if err != nil {
				return err
			}
			path := outPath
			if path == "" {
				path = filepath.Join(a.cfg.ReportsDir, reportFileName(r.Sprint.Name, id))
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating report directory: %w", err)
			}
			if err := report.WritePDFFile(r, path); err != nil {
				return err
			}
			a.logger.Info("report written", zap.Int64("sprint_id", id), zap.String("path", path))
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default in the reports directory)")
	return cmd
}

func (a *app) exportCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export <sprint-id>",
		Short: "Export a sprint report as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "sprint")
			if err != nil {
				return err
			}
			r, err := report.BuildSprintReport(cmd.Context(), a.svc, id, a.now())
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				return report.WriteYAML(r, cmd.OutOrStdout())
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			if err := report.WriteYAML(r, f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

// reportFileName derives a filesystem-safe name from the sprint name.
func reportFileName(name string, id int64) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == '/' || r == '\\' || r == ':':
			return '_'
		case r < 32:
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if safe == "" {
		safe = "sprint"
	}
	return fmt.Sprintf("%s_%d.pdf", safe, id)
}
