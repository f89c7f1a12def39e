// Package naming derives upload metadata from file names.
//
// [Title] is the default title hook used by the orchestrator when no other
// title source is configured. It only cleans the file stem; it never
// invents text.
package naming
