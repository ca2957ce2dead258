package registry

import (
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// entrypoints are the file names recognized as a server implementation.
var entrypoints = []string{"server.js", "server.mjs", "index.js", "server.py", "main.py", "main.go"}

// Details describes the files present in an item directory.
type Details struct {
	HasConfig             bool      `json:"has_config" yaml:"has_config"`
	HasServerFile         bool      `json:"has_server_file" yaml:"has_server_file"`
	HasReadme             bool      `json:"has_readme" yaml:"has_readme"`
	HasEnvExample         bool      `json:"has_env_example" yaml:"has_env_example"`
	HasPackageJSON        bool      `json:"has_package_json" yaml:"has_package_json"`
	DependenciesInstalled bool      `json:"dependencies_installed" yaml:"dependencies_installed"`
	LastModified          time.Time `json:"last_modified" yaml:"last_modified"`
}

// Inspect reports which well-known files an item directory contains.
// Dependencies count as installed only for Node servers with node_modules.
func Inspect(fs afero.Fs, item Item) Details {
	exists := func(name string) bool {
		ok, _ := afero.Exists(fs, filepath.Join(item.Path, name))
		return ok
	}

	d := Details{
		HasConfig:     exists(ConfigFileName),
		HasReadme:     exists("README.md"),
		HasEnvExample: exists(".env.example"),
	}
	for _, name := range entrypoints {
		if exists(name) {
			d.HasServerFile = true
			break
		}
	}
	if exists("package.json") {
		d.HasPackageJSON = true
		d.DependenciesInstalled = exists("node_modules")
	}
	if info, err := fs.Stat(item.Path); err == nil {
		d.LastModified = info.ModTime()
	}
	return d
}
