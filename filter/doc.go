// Package filter decides, per event, whether an appender should write it.
//
// Filters are chained. Each returns Deny, Neutral or Accept; the first
// non-neutral answer ends the chain and a chain that is neutral throughout
// lets the event through.
package filter
