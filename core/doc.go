// Package core defines the value types shared by every logtree package.
//
// Level is a ranked severity. Besides the ordinary levels (Trace through
// Fatal) it has two bounds, AllLevel and OffLevel, used for thresholds, and
// InheritLevel, the zero value, which a logger uses to say "take my level
// from my ancestors". ToLevel never fails: unknown names fall back to the
// caller's default.
//
// Event is what a logger hands to its appenders once a request passed the
// level checks. It records the time, level, logger name, message, optional
// cause and the id of the goroutine that logged it. Events are shared by all
// appenders on the path to the root logger and must be treated as read-only.
//
// Field encodes values into fixed-size numeric fields (Int64, Float64)
// wherever possible so that common types like int, bool, and time.Time
// never escape to the heap. The Any field exists as a fallback for
// arbitrary types but will cause an allocation.
package core
