// Package jsonfile persists the item history and the daily digest as JSON
// files read by the presentation layer.
//
// Both files are replaced in full on every write: the new content is written
// to a temporary file in the same directory and renamed over the old one, so
// a reader sees either the previous or the new snapshot, never a partial one.
//
// Output is indented and does not escape HTML or non-ASCII characters, and
// identical input always produces byte-identical files.
package jsonfile
