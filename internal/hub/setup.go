package hub

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mcphub-labs/mcphub/internal/platform"
	"github.com/mcphub-labs/mcphub/internal/profile"
)

// Permission modes used by Setup.
const (
	DirPermNormal  os.FileMode = 0755
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
)

// ErrSymlinksUnsupported is returned by Setup when the hub filesystem cannot
// hold symbolic links.
var ErrSymlinksUnsupported = errors.New("filesystem does not support symbolic links")

// Setup prepares a hub for first use. It creates the directory structure,
// copies env.example to .env when no .env exists, writes a disconnected
// profile for every supported CLI that has none and finally writes the
// setup marker. Existing entries are left alone, so Setup can be re-run.
// Progress is printed to w.
func Setup(w io.Writer, layout Layout, cfg *Config, store *profile.Store) error {
	if err := os.MkdirAll(layout.Root, DirPermNormal); err != nil {
		return fmt.Errorf("creating hub root %s: %w", layout.Root, err)
	}
	if !platform.IsSymlinkSupported(layout.Root) {
		return ErrSymlinksUnsupported
	}
	fmt.Fprintf(w, "  [ OK ] Symbolic links supported in %s\n", layout.Root)

	dirs := []dirSpec{
		{layout.RegistryRoot(), DirPermNormal},
		{layout.ProfilesDir(), DirPermNormal},
		{layout.LogsDir(), DirPermNormal},
		{filepath.Dir(layout.EnvPath()), DirPermSecure},
	}
	for _, cat := range cfg.Servers.Categories {
		dirs = append(dirs, dirSpec{filepath.Join(layout.RegistryRoot(), cat), DirPermNormal})
	}
	for _, d := range dirs {
		if err := ensureDir(w, d.path, d.perm); err != nil {
			return err
		}
	}

	if err := copyEnvExample(w, layout); err != nil {
		return err
	}

	for _, name := range cfg.CLIs.Supported {
		created, err := store.EnsureDefault(name, cfg.ConfigPath(name))
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(w, "  [ OK ] Created profile %s\n", store.Path(name))
		} else {
			fmt.Fprintf(w, "  [SKIP] Profile %s already exists\n", store.Path(name))
		}
	}

	marker := time.Now().UTC().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(layout.SetupMarkerPath(), []byte(marker), 0644); err != nil {
		return fmt.Errorf("writing setup marker: %w", err)
	}
	fmt.Fprintf(w, "  [ OK ] Wrote %s\n", layout.SetupMarkerPath())
	return nil
}

// SetupComplete reports whether the setup marker exists.
func SetupComplete(layout Layout) bool {
	_, err := os.Stat(layout.SetupMarkerPath())
	return err == nil
}

type dirSpec struct {
	path string
	perm os.FileMode
}

func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll does not apply perm when the umask narrows it.
	if err := platform.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

func copyEnvExample(w io.Writer, layout Layout) error {
	envPath := layout.EnvPath()
	if _, err := os.Stat(envPath); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", envPath)
		return nil
	}

	data, err := os.ReadFile(layout.EnvExamplePath())
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "  [MISS] %s not found, no .env created\n", layout.EnvExamplePath())
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", layout.EnvExamplePath(), err)
	}

	if err := os.WriteFile(envPath, data, FilePermSecure); err != nil {
		return fmt.Errorf("creating file %s: %w", envPath, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s from %s\n", envPath, EnvExampleFile)
	return nil
}
