// Package watch keeps a hub in sync: it runs a sync pass immediately, then
// again on every interval tick and whenever the registry changes on disk.
// Passes never overlap.
package watch
