// Package appender defines the destinations log events are written to.
//
// An Appender receives events from logger nodes through DoAppend. Most
// implementations embed Skeleton, which applies the appender's own
// threshold and filter chain, guards against appends after Close and
// routes write failures to an ErrorHandler instead of back to the caller.
//
// Composite appenders (Async, Multi) implement Attachable and forward to
// child appenders. Shutdown code closes them before the leaf appenders so
// their queues drain into still-open destinations.
//
// Set is the ordered, identity-unique appender list shared by logger
// nodes and composites. Reads take a snapshot, so appending never holds
// the list's lock.
package appender
