package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/mcphub-labs/mcphub/internal/registry"
	"github.com/spf13/afero"
)

var testTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func testItems() []registry.Item {
	return []registry.Item{
		{Category: "ai", Name: "demo-a", Path: "/hub/servers/ai/demo-a", Enabled: true},
		{Category: "ai", Name: "demo-b", Path: "/hub/servers/ai/demo-b", Enabled: false},
		{Category: "development", Name: "git", Path: "/hub/servers/development/git", Enabled: true},
	}
}

func testResults() map[string]*Result {
	ok := NewResult(testTime)
	ok.Servers = append(ok.Servers, ItemOutcome{Name: "demo-a", Category: "ai", Status: StatusSynced})
	ok.Changes = 1

	bad := NewResult(testTime)
	bad.Fail("root link /home/dev/.vscode/mcp_servers does not exist")

	return map[string]*Result{"editor-x": ok, "vscode": bad}
}

func TestBuild_Summary(t *testing.T) {
	r := Build(testTime, []string{"editor-x", "vscode"}, testItems(), testResults(), nil)

	want := Summary{TotalCLIs: 2, TotalServers: 3, EnabledServers: 2, SuccessfulSyncs: 1, FailedSyncs: 1}
	if r.Summary != want {
		t.Errorf("Summary = %+v, want %+v", r.Summary, want)
	}
	if r.FormatVersion != FormatVersion {
		t.Errorf("FormatVersion = %q", r.FormatVersion)
	}
	if len(r.Servers) != 3 || r.Servers[1].Enabled {
		t.Errorf("Servers = %+v", r.Servers)
	}
	if r.Warnings != nil {
		t.Errorf("Warnings should be omitted, got %v", r.Warnings)
	}
	if r.Changes() != 1 {
		t.Errorf("Changes = %d", r.Changes())
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, _ := json.Marshal(Build(testTime, []string{"editor-x", "vscode"}, testItems(), testResults(), []string{"w"}))
	b, _ := json.Marshal(Build(testTime, []string{"editor-x", "vscode"}, testItems(), testResults(), []string{"w"}))
	if !bytes.Equal(a, b) {
		t.Errorf("same input produced different reports:\n%s\n%s", a, b)
	}
}

func TestBuild_Empty(t *testing.T) {
	r := Build(testTime, nil, nil, nil, nil)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	json.Unmarshal(data, &raw)
	if _, ok := raw["cli_results"].(map[string]any); !ok {
		t.Errorf("cli_results should be an empty object: %s", data)
	}
	if _, ok := raw["servers"].([]any); !ok {
		t.Errorf("servers should be an empty array: %s", data)
	}
}

func TestResultJSONShape(t *testing.T) {
	res := NewResult(testTime)
	res.Servers = append(res.Servers, ItemOutcome{Name: "x", Category: "ai", Status: StatusError, Error: "denied"})

	data, _ := json.Marshal(res)
	var raw map[string]any
	json.Unmarshal(data, &raw)
	for _, key := range []string{"success", "servers", "errors", "timestamp", "changes"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if res.Synced() != nil {
		t.Errorf("Synced = %v", res.Synced())
	}
}

func TestWriter_WriteAndReadLatest(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/hub/logs", nil)
	r := Build(testTime, []string{"editor-x"}, testItems(), testResults(), nil)

	paths, err := w.Write(r)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	wantName := "sync-report-1773480413000.json"
	if filepath.Base(paths.Timestamped) != wantName {
		t.Errorf("timestamped = %s, want %s", paths.Timestamped, wantName)
	}

	a, _ := afero.ReadFile(fs, paths.Timestamped)
	b, _ := afero.ReadFile(fs, paths.Latest)
	if !bytes.Equal(a, b) {
		t.Error("timestamped and latest reports differ")
	}

	got, err := w.ReadLatest()
	if err != nil {
		t.Fatalf("ReadLatest: %v", err)
	}
	if !got.Timestamp.Equal(r.Timestamp) || got.Summary != r.Summary {
		t.Errorf("ReadLatest = %+v", got)
	}
	if !reflect.DeepEqual(got.CLIResults["editor-x"].Servers, r.CLIResults["editor-x"].Servers) {
		t.Errorf("cli_results mismatch")
	}
}

func TestWriter_SameMillisecond(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/logs", nil)
	r := Build(testTime, nil, nil, nil, nil)

	first, err := w.Write(r)
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.Write(r)
	if err != nil {
		t.Fatal(err)
	}
	if first.Timestamped == second.Timestamped {
		t.Fatal("second report overwrote the first")
	}
	if filepath.Base(second.Timestamped) != "sync-report-1773480413000-1.json" {
		t.Errorf("second = %s", second.Timestamped)
	}
}

func TestWriter_ReadLatestMissing(t *testing.T) {
	w := NewWriter(afero.NewMemMapFs(), "/logs", nil)
	r, err := w.ReadLatest()
	if err != nil || r != nil {
		t.Errorf("ReadLatest = %v, %v; want nil, nil", r, err)
	}
}

func TestWriter_ReadLatestIncompatible(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/logs/"+LatestFile, []byte(`{"format_version": "2.0.0"}`), 0644)

	_, err := NewWriter(fs, "/logs", nil).ReadLatest()
	if !errors.Is(err, ErrIncompatible) {
		t.Errorf("expected ErrIncompatible, got %v", err)
	}
}

func TestWriter_History(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/logs", nil)

	for i := 0; i < 7; i++ {
		r := Build(testTime.Add(time.Duration(i)*time.Second), make([]string, i), nil, nil, nil)
		if _, err := w.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	// Legacy report without format_version, an incompatible one and junk.
	afero.WriteFile(fs, "/logs/sync-report-1000.json", []byte(`{"summary": {"total_clis": 9}}`), 0644)
	afero.WriteFile(fs, "/logs/sync-report-9999999999999.json", []byte(`{"format_version": "2.1.0"}`), 0644)
	afero.WriteFile(fs, "/logs/sync-report-notes.json", []byte(`{}`), 0644)

	hist, err := w.History(5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	// The newest file is incompatible and skipped, leaving four entries.
	if len(hist) != 4 {
		t.Fatalf("got %d entries: %+v", len(hist), hist)
	}
	for i, h := range hist {
		if h.Summary.TotalCLIs != i+3 {
			t.Errorf("entry %d has total_clis %d, want %d", i, h.Summary.TotalCLIs, i+3)
		}
	}

	all, _ := w.History(0)
	if len(all) != 8 || all[0].Summary.TotalCLIs != 9 {
		t.Errorf("History(0) = %d entries, first %+v", len(all), all[0].Summary)
	}
}

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		ms   int64
		seq  int
	}{
		{"sync-report-1773480413000.json", true, 1773480413000, 0},
		{"sync-report-1773480413000-2.json", true, 1773480413000, 2},
		{"latest-sync-report.json", false, 0, 0},
		{"sync-report-abc.json", false, 0, 0},
		{"sync-report-1-x.json", false, 0, 0},
	}
	for _, tt := range tests {
		hf, ok := parseFileName(tt.name)
		if ok != tt.ok || hf.ms != tt.ms || hf.seq != tt.seq {
			t.Errorf("parseFileName(%q) = %+v, %v", tt.name, hf, ok)
		}
	}
}
