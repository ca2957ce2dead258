package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcphub-labs/mcphub/internal/hub"
	"github.com/mcphub-labs/mcphub/internal/watch"
	"github.com/spf13/cobra"
)

var (
	watchInterval time.Duration
	watchNoFS     bool
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Time between passes (default SYNC_INTERVAL from .env)")
	watchCmd.Flags().BoolVar(&watchNoFS, "no-fs-events", false, "Only sync on the interval, ignore registry changes")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sync continuously",
	Long: `Run a sync pass now, then again every interval and whenever the registry
changes. Configuration and .env are re-read before every pass. Passes never
overlap. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := loadHub()
		if err != nil {
			return err
		}

		interval := watchInterval
		if interval <= 0 {
			interval = h.env.SyncInterval()
		}
		if !h.env.AutoSync() {
			h.logger.Info("AUTO_SYNC is not enabled in .env; watching anyway")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s every %s\n", h.layout.RegistryRoot(), interval)

		opts := watch.Options{
			Interval: interval,
			Logger:   h.logger,
			Sync: func(ctx context.Context, reason string) error {
				return watchPass(ctx, out, h, reason)
			},
		}
		if !watchNoFS {
			opts.RegistryRoot = h.layout.RegistryRoot()
		}
		return watch.Run(ctx, opts)
	},
}

// watchPass reloads configuration so edits take effect without a restart.
func watchPass(ctx context.Context, out io.Writer, h *hubEnv, reason string) error {
	cfg, err := hub.LoadConfig(h.layout)
	if err != nil {
		return err
	}
	env, err := hub.LoadEnv(h.layout)
	if err != nil {
		return err
	}
	pass := *h
	pass.config, pass.env = cfg, env

	res, err := runSync(ctx, &pass, parallelism())
	if err != nil {
		return err
	}
	s := res.Report.Summary
	h.logger.Info("pass complete", slog.String("reason", reason), slog.Int("ok", s.SuccessfulSyncs), slog.Int("failed", s.FailedSyncs))
	fmt.Fprintf(out, "%s  %s: %d/%d CLIs synced, %d changes\n",
		res.Report.Timestamp.Local().Format(time.TimeOnly), reason, s.SuccessfulSyncs, s.TotalCLIs, res.Report.Changes())
	return nil
}
