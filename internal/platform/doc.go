// Package platform provides cross-platform filesystem operations including
// directory symlink creation, atomic link replacement, real-path resolution
// and permission management. On Windows, symlinks require developer mode;
// when it is off, link creation fails rather than silently copying.
package platform
