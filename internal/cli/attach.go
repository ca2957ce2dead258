package cli

import (
	"fmt"
	"time"

	"github.com/mcphub-labs/mcphub/internal/profile"
	"github.com/mcphub-labs/mcphub/internal/registry"
	"github.com/spf13/cobra"
)

var attachCLIs []string

func init() {
	attachCmd.Flags().StringSliceVar(&attachCLIs, "cli", nil, "Only attach to these CLIs (default: every profile)")
	rootCmd.AddCommand(attachCmd)
}

var attachCmd = &cobra.Command{
	Use:   "attach <category>/<name>",
	Short: "Record a server as pending sync on CLI profiles",
	Long: `Add a registry server to the servers list of CLI profiles with status
pending_sync. Profiles that already list the server are left unchanged.

Example:
  mcphub attach ai/context7-server
  mcphub attach development/git --cli cursor`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, name, ok := registry.ParseID(args[0])
		if !ok {
			return fmt.Errorf("invalid server %q: want <category>/<name>", args[0])
		}

		h, err := loadHub()
		if err != nil {
			return err
		}
		scan, err := registry.Scan(h.fs, h.layout.RegistryRoot(), h.config.Servers.Categories, h.config.Servers.DefaultConfig, h.logger)
		if err != nil {
			return err
		}
		found := false
		for _, it := range scan.Items {
			if it.Category == category && it.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("server %s/%s not found in %s", category, name, h.layout.RegistryRoot())
		}

		names := attachCLIs
		if len(names) == 0 {
			if names, err = h.store.List(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		ref := profile.ItemRef{Category: category, Name: name}
		now := time.Now().UTC()
		for _, cli := range names {
			changed, err := h.store.AttachItem(cli, ref, now)
			switch {
			case err != nil:
				return fmt.Errorf("attaching to %s: %w", cli, err)
			case changed:
				fmt.Fprintf(out, "  [ OK ] %s: attached %s/%s\n", cli, category, name)
			default:
				fmt.Fprintf(out, "  [SKIP] %s: already lists %s/%s\n", cli, category, name)
			}
		}
		return nil
	},
}
