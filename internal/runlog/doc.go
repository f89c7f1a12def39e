// Package runlog writes and reads the append-only run log.
//
// The log doubles as a message channel to an external monitor that reads it
// while it is being written. Each record is a block of "Key: value" lines
// closed by a dash rule, an equals rule and a blank line. The writer emits a
// whole record with one write and syncs before returning. Readers split on
// the equals rule and defer any trailing partial record to their next pass.
//
// A single "DEBUG " line with a JSON dump of the upload result precedes every
// record. Parsers skip it: it may carry file-name-shaped text of its own.
package runlog
