// Package cli implements the tasks command-line front end.
//
//	tasks <memory|csv|sqlite|postgres> <add|get|remove|list|complete> [name]
//
// The backend command opens the repository before its subcommand runs and
// closes it afterwards. Each subcommand receives the task service as an
// argument; nothing is held in package state.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pkordes/viking/internal/backend"
	"github.com/pkordes/viking/internal/config"
	"github.com/pkordes/viking/internal/logging"
	"github.com/pkordes/viking/internal/service"
)

// RootCommand is the top-level tasks command.
type RootCommand struct {
	cmd    *cobra.Command
	cfg    config.Config
	errOut io.Writer
	logger *slog.Logger
}

// NewRootCommand builds the command tree. cfg supplies backend locations and
// log settings; global flags override it. Command output goes to out, logs
// and cobra errors to errOut.
func NewRootCommand(cfg config.Config, out, errOut io.Writer) *RootCommand {
	root := &RootCommand{
		cfg:    cfg,
		errOut: errOut,
		logger: slog.New(slog.DiscardHandler),
	}

	root.cmd = &cobra.Command{
		Use:   "tasks",
		Short: "A minimal task tracker",
		Long: `tasks keeps a list of named tasks in the chosen storage backend.

EXAMPLES:
  tasks csv add "Read a book"           # Add a task to tasks.csv
  tasks csv list                        # List tasks with their state
  tasks csv complete "Read a book"      # Mark the first task with that name done
  tasks sqlite --sqlite-path t.db list  # Use a SQLite file instead

CONFIGURATION:
  Flags override environment variables, which override defaults.
    CSV_PATH       CSV backend file (default: tasks.csv)
    SQLITE_PATH    SQLite backend file (default: tasks.db)
    DATABASE_URL   Postgres connection string (required for postgres)
    LOG_LEVEL      debug, info, warn or error`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.cmd.SetOut(out)
	root.cmd.SetErr(errOut)

	root.addGlobalFlags()
	for _, name := range config.Backends {
		root.cmd.AddCommand(root.newBackendCommand(name))
	}
	return root
}

// Execute runs the command tree against args.
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()
	flags.String("csv-path", "", "CSV backend file (overrides CSV_PATH)")
	flags.String("sqlite-path", "", "SQLite backend file (overrides SQLITE_PATH)")
	flags.String("database-url", "", "Postgres connection string (overrides DATABASE_URL)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

// applyFlags copies every flag the user set onto cfg.
func (r *RootCommand) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	overrides := []struct {
		flag string
		dst  *string
	}{
		{"csv-path", &r.cfg.Storage.CSVPath},
		{"sqlite-path", &r.cfg.Storage.SQLitePath},
		{"database-url", &r.cfg.Storage.DatabaseURL},
		{"log-level", &r.cfg.Log.Level},
	}
	for _, o := range overrides {
		if !flags.Changed(o.flag) {
			continue
		}
		v, err := flags.GetString(o.flag)
		if err != nil {
			return err
		}
		*o.dst = v
	}
	return nil
}

// session holds the service opened by a backend command for the duration of
// one invocation.
type session struct {
	svc   *service.TaskService
	close backend.CloseFunc
}

func (s *session) release() error {
	if s.close == nil {
		return nil
	}
	err := s.close()
	s.svc, s.close = nil, nil
	return err
}

// newBackendCommand returns the command for one storage backend. Its
// subcommands run against a service opened in PersistentPreRunE.
func (r *RootCommand) newBackendCommand(name string) *cobra.Command {
	s := &session{}

	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Manage tasks stored in the %s backend", name),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.applyFlags(cmd); err != nil {
				return err
			}
			r.logger = logging.New(config.LogConfig{Level: r.cfg.Log.Level, Format: "text"}, r.errOut)

			storage := r.cfg.Storage
			storage.Backend = name
			tasks, closeFn, err := backend.Open(cmd.Context(), storage)
			if err != nil {
				return err
			}
			r.logger.DebugContext(cmd.Context(), "backend opened", "backend", name)
			s.svc = service.NewTaskService(tasks)
			s.close = closeFn
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return s.release()
		},
	}

	// PersistentPostRunE is skipped when a subcommand fails, so run releases
	// the session itself on error.
	run := func(fn commandFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if s.svc == nil {
				return errNoSession
			}
			err := fn(cmd.Context(), s.svc, cmd.OutOrStdout(), args)
			if err != nil {
				if cerr := s.release(); cerr != nil {
					r.logger.WarnContext(cmd.Context(), "close backend", "error", cerr)
				}
			}
			return err
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "add <name>", Short: "Add a new task", Args: cobra.ExactArgs(1), RunE: run(addTask)},
		&cobra.Command{Use: "get <name>", Short: "Show the first task with the given name", Args: cobra.ExactArgs(1), RunE: run(getTask)},
		&cobra.Command{Use: "remove <name>", Short: "Remove the first task with the given name", Args: cobra.ExactArgs(1), RunE: run(removeTask)},
		&cobra.Command{Use: "list", Short: "List all tasks", Args: cobra.NoArgs, RunE: run(listTasks)},
		&cobra.Command{Use: "complete <name>", Short: "Mark the first task with the given name as completed", Args: cobra.ExactArgs(1), RunE: run(completeTask)},
	)
	return cmd
}

// errNoSession is returned when a subcommand runs without an open backend.
var errNoSession = errors.New("cli: backend not opened")
