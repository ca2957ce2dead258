// Package profile persists one JSON record per target under cli-profiles/.
// Records are written atomically (temp file + rename) so concurrent readers
// never observe a truncated file. A missing record is reported as (nil, nil).
package profile
