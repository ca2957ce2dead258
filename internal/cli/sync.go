package cli

import (
	"context"
	"io"

	"github.com/mcphub-labs/mcphub/internal/config"
	"github.com/mcphub-labs/mcphub/internal/syncer"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var syncParallel int

func init() {
	syncCmd.Flags().IntVar(&syncParallel, "parallel", 0, "Number of CLIs to sync at once (default from the parallel setting)")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Link every enabled server into every connected CLI",
	Long: `Scan the registry, link each enabled server into each connected CLI,
update the CLI profiles and write a sync report under logs/.

A CLI whose mcp_servers link is missing or wrong fails on its own without
stopping the others. Run 'connect' to repair it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := loadHub()
		if err != nil {
			return err
		}
		out, err := runSync(cmd.Context(), h, parallelism())
		if err != nil {
			return err
		}
		printSyncSummary(cmd.OutOrStdout(), out)
		return nil
	},
}

func parallelism() int {
	if syncParallel > 0 {
		return syncParallel
	}
	return config.GetInt(config.KeyParallel)
}

func runSync(ctx context.Context, h *hubEnv, parallel int) (*syncer.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return syncer.Run(ctx, syncer.Options{
		Layout:      h.layout,
		Config:      h.config,
		Env:         h.env,
		FS:          h.fs,
		Store:       h.store,
		Linker:      h.linker,
		Reports:     h.reports,
		Home:        h.home,
		Logger:      h.logger,
		Parallelism: parallel,
	})
}

func printSyncSummary(w io.Writer, out *syncer.Outcome) {
	p := message.NewPrinter(language.English)
	s := out.Report.Summary

	p.Fprintf(w, "Sync summary\n")
	p.Fprintf(w, "  Connected CLIs:   %d\n", s.TotalCLIs)
	p.Fprintf(w, "  Servers:          %d (%d enabled)\n", s.TotalServers, s.EnabledServers)
	p.Fprintf(w, "  Successful syncs: %d\n", s.SuccessfulSyncs)
	p.Fprintf(w, "  Failed syncs:     %d\n", s.FailedSyncs)
	p.Fprintf(w, "  Link changes:     %d\n\n", out.Report.Changes())

	for _, name := range syncer.TargetNames(out.Report.CLIResults) {
		res := out.Report.CLIResults[name]
		tag := "[ OK ]"
		if !res.Success {
			tag = "[FAIL]"
		}
		p.Fprintf(w, "  %s %s: %d servers synced\n", tag, name, len(res.Synced()))
		for _, e := range res.Errors {
			p.Fprintf(w, "         - %s\n", e)
		}
		for _, o := range res.Servers {
			if o.Error != "" {
				p.Fprintf(w, "         - %s/%s: %s\n", o.Category, o.Name, o.Error)
			}
		}
	}
	for _, warn := range out.Report.Warnings {
		p.Fprintf(w, "  [WARN] %s\n", warn)
	}

	p.Fprintf(w, "\nReport: %s\n", out.Paths.Latest)
}
