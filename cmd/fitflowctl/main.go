// Command fitflowctl runs administrative operations against the configured store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitFlowAPI/config"
	"fitFlowAPI/internal/bootstrap"
	"fitFlowAPI/services"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// opener returns the services to operate on and a func releasing them.
type opener func(ctx context.Context) (*services.Services, func() error, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd(openFromEnv).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openFromEnv(ctx context.Context) (*services.Services, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	// stdout carries command output
	cfg.LogToStdout = false
	bootstrap.SetupLogging(cfg)
	if cfg.LogFile == "" {
		log.SetOutput(os.Stderr)
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.Services, app.Close, nil
}

func rootCmd(open opener) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "fitflowctl",
		Short: "Administer fitflow users",
		Long: `Administrative commands for the fitflow API.

The store and integrations are configured from the same environment
variables (and .env file) as the server.

Examples:
  fitflowctl streak show --user user_123
  fitflowctl achievements evaluate --user user_123
  fitflowctl export --user user_123 --type weight --out weight.csv
  fitflowctl reset-weeks
`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Timeout for the whole command")

	// run opens the services, runs fn and releases them.
	run := func(cmd *cobra.Command, fn func(ctx context.Context, s *services.Services) error) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		s, closeFn, err := open(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeFn(); err != nil {
				log.Warnf("close: %v", err)
			}
		}()
		return fn(ctx, s)
	}

	cmd.AddCommand(
		streakCmd(run),
		achievementsCmd(run),
		predictCmd(run),
		exportCmd(run),
		resetWeeksCmd(run),
	)
	return cmd
}

type runner func(cmd *cobra.Command, fn func(ctx context.Context, s *services.Services) error) error

func requireUser(cmd *cobra.Command, uid *string) {
	cmd.Flags().StringVar(uid, "user", "", "User id")
	_ = cmd.MarkFlagRequired("user")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func streakCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Inspect or reset a user's streak",
	}

	var showUID string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the streak view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *services.Services) error {
				view, err := s.CheckIns.Streak(ctx, showUID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), view)
			})
		},
	}
	requireUser(show, &showUID)

	var resetUID string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Set the streak to zero and clear the week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *services.Services) error {
				view, err := s.CheckIns.ResetStreak(ctx, resetUID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), view)
			})
		},
	}
	requireUser(reset, &resetUID)

	cmd.AddCommand(show, reset)
	return cmd
}

func achievementsCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Achievement maintenance",
	}

	var uid string
	evaluate := &cobra.Command{
		Use:   "evaluate",
		Short: "Re-evaluate and persist a user's achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *services.Services) error {
				ev, err := s.Achievements.List(ctx, uid)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "unlocked %d/%d\n", ev.UnlockedCount(), len(ev.Statuses))
				for _, a := range ev.Newly {
					fmt.Fprintf(out, "new: %s (%s)\n", a.ID, a.Name)
				}
				return nil
			})
		},
	}
	requireUser(evaluate, &uid)

	cmd.AddCommand(evaluate)
	return cmd
}

func predictCmd(run runner) *cobra.Command {
	var uid string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Print the goal weight projection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *services.Services) error {
				res, err := s.Goals.Prediction(ctx, uid)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	requireUser(cmd, &uid)
	return cmd
}

func exportCmd(run runner) *cobra.Command {
	var uid, kind, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a CSV export of a user's data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := services.ParseExportKind(kind)
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, s *services.Services) error {
				if out == "" || out == "-" {
					return s.Export.Export(ctx, uid, k, cmd.OutOrStdout())
				}

				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				if err := s.Export.Export(ctx, uid, k, f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
				return nil
			})
		},
	}
	requireUser(cmd, &uid)
	cmd.Flags().StringVar(&kind, "type", string(services.ExportAll), "Export type: all, weight or foods")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func resetWeeksCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-weeks",
		Short: "Clear the week visual of every user now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *services.Services) error {
				n, err := s.CheckIns.ResetAllWeeks(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %d users\n", n)
				return nil
			})
		},
	}
}
