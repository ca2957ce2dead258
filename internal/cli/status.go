package cli

import (
	"github.com/mcphub-labs/mcphub/internal/status"
	"github.com/spf13/cobra"
)

var statusFormat string

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", status.FormatText, "Output format: text, json or yaml")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show hub, CLI, server and sync status",
	Long: `Report the state of the hub without changing anything: configuration,
each supported CLI with its live link state, every server in the registry,
the latest sync report and recent history, and recommended next steps.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := loadHub()
		if err != nil {
			return err
		}
		snap := status.Collect(status.Options{
			Layout:  h.layout,
			Config:  h.config,
			Env:     h.env,
			FS:      h.fs,
			Store:   h.store,
			Linker:  h.linker,
			Reports: h.reports,
			Home:    h.home,
		})
		return status.Render(cmd.OutOrStdout(), snap, statusFormat)
	},
}
