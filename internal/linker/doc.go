// Package linker reconciles the link topology of one target: a root link
// <target>/mcp_servers pointing at the registry root and one item link per
// enabled item under it. Every change is planned before it is applied, and
// replacing an existing link is atomic (temp link + rename). Correct links are
// left untouched, so a repeated sync performs no filesystem writes.
package linker
