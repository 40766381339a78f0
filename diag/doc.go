// Package diag is logtree's own diagnostic channel. The framework cannot
// log its problems through itself (a broken configuration would swallow
// the very message explaining why), so configuration mistakes, appender
// failures and internal inconsistencies are reported here instead.
//
// The sink is a zap logger writing to stderr at Warn level. Applications
// can replace it with SetLogger, silence it with SetQuiet, or turn on
// internal debug output with SetDebug.
package diag
