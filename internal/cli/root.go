// Package cli wires the sprintctl commands onto the service layer.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/akyairhashvil/sprintctl/internal/config"
	"github.com/akyairhashvil/sprintctl/internal/database"
	"github.com/akyairhashvil/sprintctl/internal/service"
	"github.com/akyairhashvil/sprintctl/internal/util"
)

// app holds the per-invocation state shared by all commands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
	db      *database.Database
	svc     *service.Service
	now     func() time.Time
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree so tests can run commands in isolation.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), now: time.Now}
	return a.rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "sprintctl - sprint planning for projects, stages and tasks",
		Long: `sprintctl tracks projects, their board stages, epics and tasks, and runs
the sprint lifecycle: plan a sprint, start it, and close it while deciding
what happens to unfinished work.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ~/.sprintctl/config.yaml)")
	flags.String("db", "", "path to the sqlite database")
	flags.String("locale", "", "month name locale for sprint names (tr, en)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("db_path", flags.Lookup("db"))
	_ = a.v.BindPFlag("locale", flags.Lookup("locale"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		a.projectCommand(),
		a.stageCommand(),
		a.epicCommand(),
		a.taskCommand(),
		a.sprintCommand(),
		a.boardCommand(),
		a.reportCommand(),
		a.exportCommand(),
	)
	return root
}

// open resolves configuration and opens the database before any subcommand runs.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := util.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	db, err := database.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.db = db
	a.svc = service.New(db, logger,
		service.WithClock(a.now),
		service.WithLocale(cfg.Locale),
		service.WithDefaultDuration(cfg.DefaultDuration()),
	)
	a.logger.Debug("database ready", zap.String("path", db.Path()), zap.String("locale", cfg.Locale))
	return nil
}

func (a *app) close() {
	if a.db != nil {
		util.LogError(a.logger, "closing database", a.db.Close())
		a.db = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{v: viper.New(), now: time.Now}
	return a.execute(ctx, args, stdout, stderr)
}

func (a *app) execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer a.close()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", describe(err))
		return 1
	}
	return 0
}

// describe turns storage errors into messages without internal detail.
func describe(err error) string {
	var opErr *database.OpError
	if errors.As(err, &opErr) && opErr.ID > 0 && errors.Is(err, database.ErrNotFound) {
		return fmt.Sprintf("%s %d not found", opErr.Resource, opErr.ID)
	}
	return err.Error()
}
