package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
)

// File names under the logs directory.
const (
	LatestFile   = "latest-sync-report.json"
	filePrefix   = "sync-report-"
	fileExt      = ".json"
	compatFormat = "^1"
)

// ErrIncompatible is returned when a report's format_version is outside the
// supported range.
var ErrIncompatible = errors.New("incompatible report format")

// Paths are the two files written for one report.
type Paths struct {
	Timestamped string
	Latest      string
}

// Writer persists and reads back reports in one directory.
type Writer struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// NewWriter returns a Writer for dir on fs. A nil logger uses slog.Default().
func NewWriter(fs afero.Fs, dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{fs: fs, dir: dir, logger: logger}
}

// Dir returns the logs directory.
func (w *Writer) Dir() string { return w.dir }

// Write stores r as sync-report-<unix-ms>.json and as the latest report.
// Both files receive the same bytes. The latest file is replaced atomically.
func (w *Writer) Write(r *Report) (Paths, error) {
	var paths Paths

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return paths, fmt.Errorf("marshaling report: %w", err)
	}
	data = append(data, '\n')

	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return paths, fmt.Errorf("creating logs directory: %w", err)
	}

	paths.Timestamped, err = w.uniqueName(r.Timestamp.UnixMilli())
	if err != nil {
		return paths, err
	}
	if err := afero.WriteFile(w.fs, paths.Timestamped, data, 0644); err != nil {
		return paths, fmt.Errorf("writing report: %w", err)
	}

	paths.Latest = filepath.Join(w.dir, LatestFile)
	if err := w.replace(paths.Latest, data); err != nil {
		return paths, fmt.Errorf("writing latest report: %w", err)
	}

	w.logger.Debug("report written", "path", paths.Timestamped)
	return paths, nil
}

// uniqueName picks sync-report-<ms>.json, or sync-report-<ms>-<n>.json when
// two passes land in the same millisecond.
func (w *Writer) uniqueName(ms int64) (string, error) {
	base := filePrefix + strconv.FormatInt(ms, 10)
	for n := 0; ; n++ {
		name := base + fileExt
		if n > 0 {
			name = base + "-" + strconv.Itoa(n) + fileExt
		}
		path := filepath.Join(w.dir, name)
		exists, err := afero.Exists(w.fs, path)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", path, err)
		}
		if !exists {
			return path, nil
		}
	}
}

func (w *Writer) replace(path string, data []byte) error {
	tmp, err := afero.TempFile(w.fs, w.dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		w.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		w.fs.Remove(tmpName)
		return err
	}
	if err := w.fs.Rename(tmpName, path); err != nil {
		w.fs.Remove(tmpName)
		return err
	}
	return nil
}

// ReadLatest returns the latest report. Returns nil, nil if no report has
// been written yet.
func (w *Writer) ReadLatest() (*Report, error) {
	r, err := w.read(filepath.Join(w.dir, LatestFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return r, err
}

// HistoryEntry is a short view of one timestamped report.
type HistoryEntry struct {
	File      string    `json:"file" yaml:"file"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Summary   Summary   `json:"summary" yaml:"summary"`
	Report    *Report   `json:"-" yaml:"-"`
}

// History returns up to n of the most recent timestamped reports, oldest
// first. Unreadable or incompatible files are skipped with a warning.
func (w *Writer) History(n int) ([]HistoryEntry, error) {
	entries, err := afero.ReadDir(w.fs, w.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading logs directory: %w", err)
	}

	var files []historyFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if hf, ok := parseFileName(e.Name()); ok {
			files = append(files, hf)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].ms != files[j].ms {
			return files[i].ms < files[j].ms
		}
		return files[i].seq < files[j].seq
	})
	if n > 0 && len(files) > n {
		files = files[len(files)-n:]
	}

	var out []HistoryEntry
	for _, f := range files {
		r, err := w.read(filepath.Join(w.dir, f.name))
		if err != nil {
			w.logger.Warn("skipping report", "file", f.name, "error", err)
			continue
		}
		out = append(out, HistoryEntry{File: f.name, Timestamp: r.Timestamp, Summary: r.Summary, Report: r})
	}
	return out, nil
}

func (w *Writer) read(path string) (*Report, error) {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if err := checkFormat(r.FormatVersion); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &r, nil
}

// checkFormat accepts format versions matching ^1. Reports written before
// format_version existed carry none and are read as 1.0.0.
func checkFormat(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIncompatible, version, err)
	}
	c, err := semver.NewConstraint(compatFormat)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatible, version, compatFormat)
	}
	return nil
}

type historyFile struct {
	name string
	ms   int64
	seq  int
}

func parseFileName(name string) (historyFile, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
		return historyFile{}, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExt)
	msPart, seqPart, hasSeq := strings.Cut(stem, "-")

	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return historyFile{}, false
	}
	hf := historyFile{name: name, ms: ms}
	if hasSeq {
		seq, err := strconv.Atoi(seqPart)
		if err != nil {
			return historyFile{}, false
		}
		hf.seq = seq
	}
	return hf, true
}
