package report

import (
	"time"

	"github.com/mcphub-labs/mcphub/internal/registry"
)

// FormatVersion is written into every report.
const FormatVersion = "1.0.0"

// Item outcome statuses.
const (
	StatusSynced = "synced"
	StatusError  = "error"
)

// ItemOutcome is the result of linking one item into one target.
type ItemOutcome struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Status   string `json:"status" yaml:"status"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result is the outcome of one target in one pass.
type Result struct {
	Success   bool          `json:"success" yaml:"success"`
	Servers   []ItemOutcome `json:"servers" yaml:"servers"`
	Errors    []string      `json:"errors" yaml:"errors"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Changes   int           `json:"changes" yaml:"changes"`
}

// NewResult returns a successful, empty result stamped with at.
func NewResult(at time.Time) *Result {
	return &Result{
		Success:   true,
		Servers:   []ItemOutcome{},
		Errors:    []string{},
		Timestamp: at,
	}
}

// Fail marks the result failed with msg.
func (r *Result) Fail(msg string) {
	r.Success = false
	r.Errors = append(r.Errors, msg)
}

// Synced returns the outcomes with status synced.
func (r *Result) Synced() []ItemOutcome {
	var out []ItemOutcome
	for _, o := range r.Servers {
		if o.Status == StatusSynced {
			out = append(out, o)
		}
	}
	return out
}

// Summary holds the derived counts of a report.
type Summary struct {
	TotalCLIs       int `json:"total_clis" yaml:"total_clis"`
	TotalServers    int `json:"total_servers" yaml:"total_servers"`
	EnabledServers  int `json:"enabled_servers" yaml:"enabled_servers"`
	SuccessfulSyncs int `json:"successful_syncs" yaml:"successful_syncs"`
	FailedSyncs     int `json:"failed_syncs" yaml:"failed_syncs"`
}

// Server is the registry snapshot entry for one item.
type Server struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Path     string `json:"path" yaml:"path"`
}

// Report is the persisted outcome of one sync pass.
type Report struct {
	Timestamp     time.Time          `json:"timestamp" yaml:"timestamp"`
	FormatVersion string             `json:"format_version" yaml:"format_version"`
	Summary       Summary            `json:"summary" yaml:"summary"`
	CLIResults    map[string]*Result `json:"cli_results" yaml:"cli_results"`
	Servers       []Server           `json:"servers" yaml:"servers"`
	Warnings      []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Build assembles a report from one pass. targets are the active targets of
// the pass, items the full scan result, and results holds one entry per
// target that was processed. Build has no side effects.
func Build(at time.Time, targets []string, items []registry.Item, results map[string]*Result, warnings []string) *Report {
	r := &Report{
		Timestamp:     at,
		FormatVersion: FormatVersion,
		CLIResults:    make(map[string]*Result, len(results)),
		Servers:       make([]Server, 0, len(items)),
	}
	if len(warnings) > 0 {
		r.Warnings = append([]string(nil), warnings...)
	}

	r.Summary.TotalCLIs = len(targets)
	r.Summary.TotalServers = len(items)
	for _, it := range items {
		if it.Enabled {
			r.Summary.EnabledServers++
		}
		r.Servers = append(r.Servers, Server{
			Name:     it.Name,
			Category: it.Category,
			Enabled:  it.Enabled,
			Path:     it.Path,
		})
	}

	for name, res := range results {
		r.CLIResults[name] = res
		if res.Success {
			r.Summary.SuccessfulSyncs++
		} else {
			r.Summary.FailedSyncs++
		}
	}
	return r
}

// Changes returns the total number of link mutations across all targets.
func (r *Report) Changes() int {
	n := 0
	for _, res := range r.CLIResults {
		n += res.Changes
	}
	return n
}
