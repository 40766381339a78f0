// Package bridge provides appenders that hand events to other logging
// libraries: zap, zerolog and logrus. The target library does the
// formatting and writing, so the appender's own Formatter is unused.
package bridge
