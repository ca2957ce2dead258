package profile

import "time"

// Status is the persisted connection state of a target.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnected    Status = "connected"
)

// SyncStatus is the outcome of the last sync recorded for a target.
type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// Attached server statuses.
const (
	ServerPendingSync = "pending_sync"
	ServerSynced      = "synced"
	ServerError       = "error"
)

// Profile is the persisted state of one target.
type Profile struct {
	Name          string           `json:"name"`
	Enabled       bool             `json:"enabled"`
	Status        Status           `json:"status"`
	ConfigPath    string           `json:"config_path"`
	Servers       []AttachedServer `json:"servers"`
	LastSync      *time.Time       `json:"last_sync"`
	SyncStatus    SyncStatus       `json:"sync_status,omitempty"`
	SyncedServers *int             `json:"synced_servers,omitempty"`
}

// AttachedServer is one item recorded against a target.
type AttachedServer struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	AddedAt  time.Time `json:"added_at"`
	Status   string    `json:"status"`
}

// ItemRef identifies a registry item by (category, name).
type ItemRef struct {
	Category string
	Name     string
}

// New returns a disconnected, disabled profile with no attached servers.
func New(name, configPath string) *Profile {
	return &Profile{
		Name:       name,
		Status:     StatusDisconnected,
		ConfigPath: configPath,
		Servers:    []AttachedServer{},
	}
}

// Connected reports whether the record itself claims the target is connected.
// The live link check is separate; see the target package.
func (p *Profile) Connected() bool {
	return p != nil && p.Enabled && p.Status == StatusConnected
}

// find returns the index of the attached entry for ref, or -1.
func (p *Profile) find(ref ItemRef) int {
	for i, s := range p.Servers {
		if s.Category == ref.Category && s.Name == ref.Name {
			return i
		}
	}
	return -1
}

// Attach appends ref with the given status unless an entry already exists.
// It reports whether the list changed.
func (p *Profile) Attach(ref ItemRef, at time.Time, status string) bool {
	if p.find(ref) >= 0 {
		return false
	}
	p.Servers = append(p.Servers, AttachedServer{
		Name:     ref.Name,
		Category: ref.Category,
		AddedAt:  at,
		Status:   status,
	})
	return true
}

// SetServerStatus updates the status of an attached entry, attaching it first
// when absent.
func (p *Profile) SetServerStatus(ref ItemRef, at time.Time, status string) {
	if i := p.find(ref); i >= 0 {
		p.Servers[i].Status = status
		return
	}
	p.Attach(ref, at, status)
}
