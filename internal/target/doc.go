// Package target decides which CLI tools take part in a sync. A target is
// active only when its <NAME>_ENABLED flag is set and its persisted profile
// says it is connected; the live root-link check is made by the caller.
package target
