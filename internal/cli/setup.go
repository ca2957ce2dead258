package cli

import (
	"fmt"

	"github.com/mcphub-labs/mcphub/internal/branding"
	"github.com/mcphub-labs/mcphub/internal/hub"
	"github.com/mcphub-labs/mcphub/internal/profile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Prepare the hub directory structure",
	Long: `Create the hub directories (servers/<category>, cli-profiles, logs, configs/env),
copy configs/env/env.example to .env when no .env exists, and write a
disconnected profile for every supported CLI. Existing files are kept, so
setup can be re-run safely.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := hubRoot()
		if err != nil {
			return err
		}
		layout := hub.Layout{Root: root}

		cfg, err := hub.LoadConfig(layout)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Setting up hub at %s\n", root)

		store := profile.NewStore(afero.NewOsFs(), layout.ProfilesDir())
		if err := hub.Setup(out, layout, cfg, store); err != nil {
			return fmt.Errorf("setting up hub: %w", err)
		}

		fmt.Fprintln(out, "\nHub ready. Next steps:")
		fmt.Fprintf(out, "  1. Enable CLIs in %s (e.g. CURSOR_ENABLED=true)\n", layout.EnvPath())
		fmt.Fprintf(out, "  2. %s connect\n", branding.CLIName())
		fmt.Fprintf(out, "  3. %s sync\n", branding.CLIName())
		return nil
	},
}
