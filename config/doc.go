// Package config reads a YAML logging configuration and applies it to a
// logger.Registry.
//
// A configuration names appenders once and attaches them by name:
//
//	threshold: all
//	root:
//	  level: info
//	  appenders: [console]
//	loggers:
//	  - name: db
//	    level: debug
//	    additivity: false
//	    appenders: [file]
//	appenders:
//	  console:
//	    type: console
//	    color: auto
//	  file:
//	    type: file
//	    filename: /var/log/app/db.log
//	    max_size: 10485760
//	    max_backups: 3
//	    filters:
//	      - expr: 'level >= 30000 || logger.startsWith("db.pool")'
//
// Parsing is strict: unknown keys are errors. Validate reports every
// problem it finds. Apply is lenient in the way logging setup has to be:
// an unknown level name falls back to a default and is reported to the
// diagnostic log, and an appender that cannot be built is left out.
package config
