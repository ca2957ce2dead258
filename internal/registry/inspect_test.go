package registry

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestInspect(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.Join(root, "ai", "context7-server")
	fs.MkdirAll(filepath.Join(dir, "node_modules"), 0755)
	for _, f := range []string{"config.json", "server.js", "README.md", "package.json"} {
		afero.WriteFile(fs, filepath.Join(dir, f), []byte("{}"), 0644)
	}

	d := Inspect(fs, Item{Category: "ai", Name: "context7-server", Path: dir})
	if !d.HasConfig || !d.HasServerFile || !d.HasReadme || !d.DependenciesInstalled {
		t.Errorf("Inspect = %+v", d)
	}
	if d.HasEnvExample {
		t.Error("HasEnvExample should be false")
	}
	if d.LastModified.IsZero() {
		t.Error("LastModified not set")
	}
}

func TestInspect_NodeWithoutModules(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.Join(root, "ai", "fresh")
	fs.MkdirAll(dir, 0755)
	afero.WriteFile(fs, filepath.Join(dir, "package.json"), []byte("{}"), 0644)

	if Inspect(fs, Item{Path: dir}).DependenciesInstalled {
		t.Error("DependenciesInstalled should be false without node_modules")
	}
}
