package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/dayly/internal/bootstrap"
	"github.com/sandeepkv93/dayly/internal/commands"
	"github.com/sandeepkv93/dayly/internal/config"
	"github.com/sandeepkv93/dayly/internal/logging"
	"github.com/sandeepkv93/dayly/internal/model"
	"github.com/sandeepkv93/dayly/internal/notify"
	"github.com/sandeepkv93/dayly/internal/schedule"
	"github.com/sandeepkv93/dayly/internal/storage"
)

const closeTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "dayly",
		Short:         "Daily schedule tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")

	root.AddCommand(newTUICmd(&configPath))
	root.AddCommand(newListCmd(&configPath))
	root.AddCommand(newAddCmd(&configPath))
	root.AddCommand(newCompletionCmd(&configPath, "done", true))
	root.AddCommand(newCompletionCmd(&configPath, "undo", false))
	root.AddCommand(newRemoveCmd(&configPath))
	root.AddCommand(newSummaryCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	return root
}

// session is a loaded App plus the log sink it writes to.
type session struct {
	app     *bootstrap.App
	logFile *os.File
}

// loadApp reads config, builds the logger and opens the store. fallback is
// where logs go when log.file is unset.
func loadApp(ctx context.Context, configPath string, fallback io.Writer, extra ...notify.Notifier) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	out := fallback
	var logFile *os.File
	if cfg.LogFile != "" {
		logFile, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = logFile
	}
	logger := logging.New(out, cfg.LogLevel, cfg.LogFormat)

	app, err := bootstrap.New(ctx, cfg, logger, extra...)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, err
	}
	return &session{app: app, logFile: logFile}, nil
}

// close drains pending saves and reports any save that failed during the run.
func (s *session) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	var errs []error
	if err := s.app.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if n := s.app.Store.SaveFailures(); n > 0 {
		errs = append(errs, fmt.Errorf("%d save(s) failed, see log for details", n))
	}
	if s.logFile != nil {
		if err := s.logFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// runCommand executes one palette-style command against a fresh session.
func runCommand(cmd *cobra.Command, configPath, line string) (err error) {
	parsed, err := commands.Parse(line)
	if err != nil {
		return err
	}
	s, err := loadApp(cmd.Context(), configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close())
	}()

	store := s.app.Store
	items := store.Snapshot().Activities
	res, err := commands.Execute(parsed, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			activity, err := model.NewActivity(a.Title, a.Interval)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := store.Add(activity); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %s %s (%s)", activity.Interval, activity.Title, shortID(activity.ID))}, nil
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			return setCompleted(store, items, t.Target, true)
		},
		Undo: func(t commands.TargetArgs) (commands.Result, error) {
			return setCompleted(store, items, t.Target, false)
		},
		Remove: func(t commands.TargetArgs) (commands.Result, error) {
			id, err := commands.ResolveTarget(t.Target, items)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := store.Remove(id); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "removed " + t.Target}, nil
		},
		Summary: func() (commands.Result, error) {
			sum, ok, err := s.app.RunSummary(cmd.Context())
			if err != nil {
				return commands.Result{}, err
			}
			if !ok {
				return commands.Result{Message: "no activities scheduled"}, nil
			}
			return commands.Result{Message: sum.Body()}, nil
		},
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func setCompleted(store *schedule.Store, items []model.Activity, target string, completed bool) (commands.Result, error) {
	id, err := commands.ResolveTarget(target, items)
	if err != nil {
		return commands.Result{}, err
	}
	snap, err := store.SetCompleted(id, completed)
	if err != nil {
		return commands.Result{}, err
	}
	p := snap.Progress
	return commands.Result{Message: fmt.Sprintf("%s: %d/%d done", target, p.Completed, p.Total)}, nil
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), *configPath)
		},
	}
}

func newListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List today's activities",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			s, err := loadApp(cmd.Context(), *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.close())
			}()

			snap := s.app.Store.Snapshot()
			out := cmd.OutOrStdout()
			if len(snap.Activities) == 0 {
				_, _ = fmt.Fprintln(out, "no activities")
				return nil
			}
			for i, a := range snap.Activities {
				mark := " "
				if a.Completed {
					mark = "x"
				}
				_, _ = fmt.Fprintf(out, "%d\t[%s]\t%s\t%s\t%s\n", i+1, mark, a.Interval, a.Title, shortID(a.ID))
			}
			p := snap.Progress
			_, _ = fmt.Fprintf(out, "%d/%d done (%.0f%%)\n", p.Completed, p.Total, p.Fraction*100)
			return nil
		},
	}
}

func newAddCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...> <HH:MM-HH:MM | HH:MM HH:MM>",
		Short: "Add an activity",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, *configPath, "add "+strings.Join(args, " "))
		},
	}
}

func newCompletionCmd(configPath *string, verb string, completed bool) *cobra.Command {
	short := "Mark an activity done"
	if !completed {
		short = "Mark an activity not done"
	}
	return &cobra.Command{
		Use:   verb + " <position|id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, *configPath, verb+" "+args[0])
		},
	}
}

func newRemoveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <position|id>",
		Aliases: []string{"rm"},
		Short:   "Remove an activity",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, *configPath, "remove "+args[0])
		},
	}
}

func newSummaryCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Send today's progress notification now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, *configPath, "summary")
		},
	}
}

func newExportCmd(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write today's activities to stdout",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			f, err := storage.ParseFormat(format)
			if err != nil {
				return err
			}
			s, err := loadApp(cmd.Context(), *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.close())
			}()

			payload, err := storage.MarshalActivities(f, s.app.Store.Snapshot().Activities)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(payload); err != nil {
				return err
			}
			if f == storage.FormatJSON {
				_, _ = fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json|yaml")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
