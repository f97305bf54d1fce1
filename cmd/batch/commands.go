package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"invest_backend/internal/app/di"
	"invest_backend/internal/platform/scheduler"
	"invest_backend/internal/platform/telemetry"
)

const stopTimeout = 30 * time.Second

// withApp は App を組み立てて fn を実行し、終了時に後始末します。
func withApp(ctx context.Context, fn func(ctx context.Context, app *di.App) error) subcommands.ExitStatus {
	app, cleanup, err := di.Bootstrap(ctx)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	cfg := app.Config()
	otelCfg, err := telemetry.LoadConfigFromEnv()
	if err != nil {
		slog.Error("load telemetry config", "error", err)
		return subcommands.ExitFailure
	}
	shutdown, err := telemetry.Setup(ctx, cfg.AppName+"-batch", cfg.AppVersion, otelCfg)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}()

	if err := fn(ctx, app); err != nil {
		slog.Error("batch command failed", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run the job scheduler until SIGINT/SIGTERM" }
func (*runCmd) Usage() string {
	return `run

  Registers every batch job with its BATCH_*_SCHEDULE cron spec in BATCH_TIMEZONE
  and runs them until the process receives SIGINT or SIGTERM.
`
}
func (*runCmd) SetFlags(*flag.FlagSet) {}

func (*runCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, func(ctx context.Context, app *di.App) error {
		s := scheduler.New(app.Infra().Location)
		if err := app.RegisterJobs(s); err != nil {
			return err
		}
		s.Start()
		for _, e := range s.Entries() {
			slog.Info("job scheduled", "job", e.Name, "spec", e.Spec, "next", e.Next)
		}

		<-ctx.Done()
		slog.Info("stopping scheduler")
		sctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		return s.Stop(sctx)
	})
}

type execCmd struct{}

func (*execCmd) Name() string     { return "exec" }
func (*execCmd) Synopsis() string { return "run one job once and record its history" }
func (*execCmd) Usage() string {
	return `exec <JOB_NAME>

  Runs the named job once through the job runner. The run is recorded in
  batch_jobs like a scheduled run. Use "list" to see job names.
`
}
func (*execCmd) SetFlags(*flag.FlagSet) {}

func (*execCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one job name is required.")
		return subcommands.ExitUsageError
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, func(ctx context.Context, app *di.App) error {
		j, ok := app.FindJob(f.Arg(0))
		if !ok {
			return fmt.Errorf("unknown job %q", f.Arg(0))
		}
		run, err := app.ExecJob(ctx, j)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: total=%d success=%d fail=%d\n", run.JobName, run.Status, run.TotalCount, run.SuccessCount, run.FailCount)
		return nil
	})
}

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list jobs with their schedules and latest runs" }
func (*listCmd) Usage() string {
	return `list

  Prints every job name, its cron spec and the status of its latest run.
`
}
func (*listCmd) SetFlags(*flag.FlagSet) {}

func (*listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *di.App) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "JOB\tSCHEDULE\tLAST STATUS\tLAST STARTED")
		for _, j := range app.Jobs() {
			status, started := "-", "-"
			if last, err := app.JobQuery.Latest(ctx, j.Name); err == nil {
				status = string(last.Status)
				started = last.StartedAt.In(app.Infra().Location).Format(time.DateTime)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", j.Name, j.Spec, status, started)
		}
		return w.Flush()
	})
}

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "insert demo symbols, clients and portfolios" }
func (*seedCmd) Usage() string {
	return `seed

  Inserts demo symbols (AAPL, TSLA, MSFT, 005930.KS) and clients with a funded
  portfolio each. Existing clients are skipped.
`
}
func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (*seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, app *di.App) error {
		res, err := app.Seed(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("seeded: symbols=%d clients=%d portfolios=%d\n", res.Symbols, res.Clients, res.Portfolios)
		return nil
	})
}
