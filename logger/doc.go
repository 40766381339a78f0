// Package logger is the public API of logtree. Most users only need to
// import this package.
//
// A Registry owns a tree of named loggers. Names are dotted paths: the
// logger "db.pool" is a child of "db", which is a child of the root.
// Loggers may be requested in any order; a logger created before its
// ancestors is re-parented when they appear.
//
//	reg := logger.NewRegistry()
//	reg.Root().AddAppender(console)
//	log := reg.Logger("db.pool")
//	log.Info("ready", logger.Int("conns", 8))
//
// A logger without a level of its own inherits the level of its nearest
// ancestor that has one; the root always has one. An event is dispatched
// when its level passes both the registry threshold and the logger's
// effective level. It then goes to the appenders of the logger and of
// each ancestor, up to and including the first logger whose additivity
// is off.
//
// Level checks happen before any allocation, so filtered-out messages
// cost a few atomic loads.
//
// The package keeps a process-wide default registry, created on first
// use with a console appender on the root:
//
//	logger.GetLogger("app").Warn("disk almost full")
//
// Registries with other settings are made with the Builder:
//
//	reg := logger.NewBuilder().
//	    WithRootLevel(logger.InfoLevel).
//	    WithCaller(true).
//	    WithAppender(file).
//	    Build()
//
// Loggers carrying fixed fields are made with With:
//
//	reqLog := log.With(logger.String("request_id", id))
package logger
