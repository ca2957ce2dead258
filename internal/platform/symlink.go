package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// CreateSymlink creates a symbolic link at link pointing to target.
func CreateSymlink(target, link string) error {
	if err := os.Symlink(target, link); err != nil {
		if runtime.GOOS == "windows" {
			return fmt.Errorf("creating symlink (enable developer mode for symlink support): %w", err)
		}
		return err
	}
	return nil
}

// ReplaceSymlink points link at target without a window where link is
// absent. A temporary link named tmpName is created in link's directory and
// renamed over link. The existing entry must be a symlink or a regular file.
func ReplaceSymlink(target, link, tmpName string) error {
	tmp := filepath.Join(filepath.Dir(link), tmpName)
	if err := os.Symlink(target, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, link); err != nil {
		os.Remove(tmp) // best-effort
		return err
	}
	return nil
}

// ReadSymlinkTarget returns the raw target of a symlink.
func ReadSymlinkTarget(path string) (string, error) {
	return os.Readlink(path)
}

// IsSymlink reports whether path itself (not what it points to) is a symlink.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// RealPath returns the absolute path of p with every symlink resolved.
func RealPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// IsSymlinkSupported returns true if a directory symlink can be created in dir.
// An empty dir uses the system temp directory.
func IsSymlinkSupported(dir string) bool {
	if dir == "" {
		dir = os.TempDir()
	}
	link := filepath.Join(dir, ".mcphub-symlink-test")
	os.Remove(link)
	defer os.Remove(link)

	return os.Symlink(dir, link) == nil
}
