// Package report builds and persists sync reports.
//
// Build is a pure function of one pass's inputs. Writer stores each report
// twice under the logs directory: a timestamped history file and
// latest-sync-report.json, with identical bytes. Readers only accept reports
// whose format_version is compatible with 1.x.
package report
