// Package logtail reads the end of promofinder's diagnostic log for the
// in-app log view.
//
// Read keeps a ring buffer of maxLines, so memory stays O(maxLines) however
// large the file grows, and returns the lines oldest first. A missing file is
// not an error. ReadEntries additionally decodes each line as a zerolog JSON
// event (time, level, message, remaining fields) so the UI can style it by
// level; lines that are not JSON are passed through as Raw.
//
// There is no file watching. The UI calls ReadEntries again when the log
// view is opened or refreshed.
package logtail
