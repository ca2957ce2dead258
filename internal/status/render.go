package status

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// textHistory is how many history entries the text view shows.
const textHistory = 3

// Render writes s to w in the given format.
func Render(w io.Writer, s *Snapshot, format string) error {
	switch format {
	case "", FormatText:
		return RenderText(w, s)
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling status: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("marshaling status: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

// RenderText writes the human-readable view.
func RenderText(w io.Writer, s *Snapshot) error {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "System\n")
	p.Fprintf(w, "  Hub root:        %s\n", s.System.HubRoot)
	p.Fprintf(w, "  Configuration:   %s\n", mark(s.System.ConfigLoaded))
	p.Fprintf(w, "  Environment:     %s\n", mark(s.System.EnvLoaded))
	p.Fprintf(w, "  Setup complete:  %s\n", mark(s.System.SetupComplete))
	p.Fprintf(w, "  Checked at:      %s\n\n", s.System.CheckedAt.Format(time.RFC3339))

	p.Fprintf(w, "CLIs\n")
	for _, c := range s.CLIs {
		state := "disabled"
		tag := "[ -- ]"
		if c.Enabled {
			state, tag = "disconnected", "[WARN]"
			if c.Connected {
				state, tag = "connected", "[ OK ]"
			}
		}
		p.Fprintf(w, "  %s %s (%s)\n", tag, c.Name, state)
		if !c.Enabled {
			continue
		}
		p.Fprintf(w, "         config:  %s\n", c.ConfigPath)
		p.Fprintf(w, "         link:    %s\n", linkState(c))
		p.Fprintf(w, "         servers: %d\n", c.ServersCount)
		if c.LastSync != nil {
			p.Fprintf(w, "         synced:  %s\n", c.LastSync.Format(time.RFC3339))
		}
		if c.Error != "" {
			p.Fprintf(w, "         error:   %s\n", c.Error)
		}
	}

	enabled := s.Enabled()
	p.Fprintf(w, "\nServers\n")
	p.Fprintf(w, "  Total: %d  Enabled: %d  Disabled: %d\n", len(s.Servers), len(enabled), len(s.Servers)-len(enabled))
	for _, srv := range s.Servers {
		if !srv.Enabled {
			p.Fprintf(w, "  [ -- ] %s/%s (disabled)\n", srv.Category, srv.Name)
			continue
		}
		p.Fprintf(w, "  [ OK ] %s/%s  config:%s server:%s readme:%s deps:%s\n",
			srv.Category, srv.Name,
			mark(srv.HasConfig), mark(srv.HasServerFile), mark(srv.HasReadme), mark(srv.DependenciesInstalled))
	}

	p.Fprintf(w, "\nSync\n")
	p.Fprintf(w, "  Auto sync: %s  Interval: %sms\n", mark(s.Sync.AutoSync), s.Sync.Interval)
	if r := s.Sync.LastReport; r != nil {
		p.Fprintf(w, "  Last sync: %s  CLIs: %d  Servers: %d  Failed: %d\n",
			r.Timestamp.Format(time.RFC3339), r.Summary.TotalCLIs, r.Summary.EnabledServers, r.Summary.FailedSyncs)
	} else if s.Sync.ReportError != "" {
		p.Fprintf(w, "  Last sync: unreadable (%s)\n", s.Sync.ReportError)
	} else {
		p.Fprintf(w, "  No sync has run yet\n")
	}

	hist := s.Sync.History
	if len(hist) > textHistory {
		hist = hist[len(hist)-textHistory:]
	}
	for _, h := range hist {
		p.Fprintf(w, "  %s  %d/%d CLIs synced\n", h.Timestamp.Format(time.RFC3339), h.Summary.SuccessfulSyncs, h.Summary.TotalCLIs)
	}

	p.Fprintf(w, "\nRecommendations\n")
	if len(s.Recommendations) == 0 {
		p.Fprintf(w, "  Everything looks good.\n")
	}
	for _, rec := range s.Recommendations {
		p.Fprintf(w, "  - %s\n", rec)
	}
	return nil
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

func linkState(c CLIStatus) string {
	switch {
	case c.SymlinkValid:
		return "valid"
	case c.SymlinkExists:
		return "invalid"
	default:
		return "missing"
	}
}
