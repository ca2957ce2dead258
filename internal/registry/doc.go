// Package registry scans the hub's servers/ directory for MCP server
// definitions. Each <category>/<name>/ directory is one item; an optional
// config.json inside it is shallow-merged over the hub defaults. Items are
// discovered fresh on every scan and never cached.
package registry
