package cli

import (
	"fmt"

	"github.com/mcphub-labs/mcphub/internal/branding"
	"github.com/mcphub-labs/mcphub/internal/hub"
	"github.com/mcphub-labs/mcphub/internal/target"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(connectCmd)
}

var connectCmd = &cobra.Command{
	Use:   "connect [cli...]",
	Short: "Link CLIs to the hub registry",
	Long: `Create or repair the mcp_servers link inside each CLI's configuration
directory and mark its profile connected.

Without arguments every CLI enabled in the .env file is connected.

Example:
  mcphub connect
  mcphub connect cursor claude-code`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := loadHub()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		targets := target.Discover(h.config, h.env, h.store, h.home)
		var selected []target.Target
		if len(args) == 0 {
			for _, t := range targets {
				if t.Enabled {
					selected = append(selected, t)
				}
			}
			if len(selected) == 0 {
				fmt.Fprintf(out, "No CLIs enabled. Set <NAME>_ENABLED=true in %s.\n", h.layout.EnvPath())
				return nil
			}
		} else {
			for _, name := range args {
				t, ok := target.Lookup(targets, name)
				if !ok {
					return fmt.Errorf("unknown CLI %q (supported: %v)", name, h.config.CLIs.Supported)
				}
				selected = append(selected, t)
			}
		}

		failed := 0
		for _, t := range selected {
			res := target.Connect(t, h.linker, h.store)
			if res.Err != nil {
				failed++
				fmt.Fprintf(out, "  [FAIL] %s: %v\n", t.Name, res.Err)
				continue
			}
			fmt.Fprintf(out, "  [ OK ] %s -> %s (%s)\n", t.Name, res.LinkPath, res.Action)
			if !t.Enabled {
				fmt.Fprintf(out, "         %s is not enabled; set %s=true to include it in sync\n",
					t.Name, hub.EnabledKey(t.Name))
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d CLIs failed to connect", failed, len(selected))
		}
		fmt.Fprintf(out, "\nRun '%s sync' to link the enabled servers.\n", branding.CLIName())
		return nil
	},
}
