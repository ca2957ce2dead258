package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcphub-labs/mcphub/internal/branding"
	"github.com/mcphub-labs/mcphub/internal/config"
	"github.com/mcphub-labs/mcphub/internal/hub"
	"github.com/mcphub-labs/mcphub/internal/linker"
	"github.com/mcphub-labs/mcphub/internal/profile"
	"github.com/mcphub-labs/mcphub/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	rootFlag      string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps a central registry of MCP server definitions linked into
the configuration directories of several CLI tools, and reports on the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		logger, err := newLogger(cmd.ErrOrStderr(), config.Get(config.KeyLogLevel), config.Get(config.KeyLogFormat))
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Hub root directory (default $"+branding.EnvVar(config.KeyRoot)+" or the current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: text or json")

	viper.BindPFlag(config.KeyRoot, rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

// hubRoot resolves the hub root: --root, then the root setting (which also
// reads MCPHUB_ROOT), then the current directory.
func hubRoot() (string, error) {
	root := config.Get(config.KeyRoot)
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		root = cwd
	}
	home, _ := os.UserHomeDir()
	abs, err := filepath.Abs(hub.ExpandHome(root, home))
	if err != nil {
		return "", fmt.Errorf("resolving hub root %s: %w", root, err)
	}
	return abs, nil
}

// hubEnv is everything a command needs to act on one hub.
type hubEnv struct {
	layout  hub.Layout
	config  *hub.Config
	env     *hub.Env
	fs      afero.Fs
	store   *profile.Store
	linker  *linker.Linker
	reports *report.Writer
	home    string
	logger  *slog.Logger
}

// loadHub resolves the hub root and loads its configuration and .env.
func loadHub() (*hubEnv, error) {
	root, err := hubRoot()
	if err != nil {
		return nil, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}

	h := &hubEnv{
		layout: hub.Layout{Root: root},
		fs:     afero.NewOsFs(),
		home:   home,
		logger: slog.Default(),
	}
	if h.config, err = hub.LoadConfig(h.layout); err != nil {
		return nil, err
	}
	if h.env, err = hub.LoadEnv(h.layout); err != nil {
		return nil, err
	}
	h.store = profile.NewStore(h.fs, h.layout.ProfilesDir())
	h.linker = linker.New(h.layout.RegistryRoot(), h.logger)
	h.reports = report.NewWriter(h.fs, h.layout.LogsDir(), h.logger)
	return h, nil
}
