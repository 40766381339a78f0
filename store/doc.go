// Package store keeps log events in a local pebble database so they can be
// queried after the fact.
//
// Events are encoded as msgpack records under keys ordered by event time
// and an insertion sequence, so a range scan yields them chronologically.
// The Appender type plugs a Store into a logger tree; Query reads it back
// with time, level and logger-name filters.
package store
