// Package cli defines the Cobra command tree for the mcphub CLI. Each file
// registers one top-level command with the root command. Commands resolve
// the hub, delegate to the internal packages and only handle flags and
// output formatting.
package cli
