// Package logtail reads the tail of shelf's log file and decodes its JSON
// lines for display.
//
// Read uses a ring buffer of maxLines entries, so memory stays bounded by the
// number of lines requested rather than the file size. Missing files yield no
// lines; other I/O errors are returned wrapped.
//
// Parse understands the zap production encoding (ts, level, logger, msg plus
// arbitrary fields). Anything else is kept verbatim as the message so a
// corrupted or foreign line never hides the rest of the log.
package logtail
