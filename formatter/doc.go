// Package formatter turns log events into bytes.
//
// Formatter returns a []byte; WriterFormatter writes straight to an
// io.Writer and BufferFormatter appends into a caller-owned buffer.
// Appenders check for the optional interfaces once, at construction, and
// use the cheapest one available.
//
// Three layouts are built in: TextFormatter (one human readable line),
// JSONFormatter (one object per line) and PatternFormatter, which compiles
// a conversion pattern such as "%d [%p] %c - %m%n" into a list of segment
// writers. New picks one of them by name.
//
// All formatters render into pooled buffers. Buffers larger than 64 KiB
// are not returned to the pool.
package formatter
