// Package status collects a read-only snapshot of a hub: configuration,
// every supported CLI with its live link state, every registry item, and
// recent sync reports. The snapshot renders as text, JSON or YAML.
package status
