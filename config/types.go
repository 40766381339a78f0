package config

import "time"

// Config is the root of a logging configuration file
type Config struct {
	// Threshold is the registry-wide minimum level
	Threshold string `yaml:"threshold,omitempty"`
	// Debug turns on the framework's own debug diagnostics
	Debug bool `yaml:"debug,omitempty"`
	// Root configures the root logger. Its name is ignored.
	Root LoggerConfig `yaml:"root,omitempty"`
	// Loggers configures named loggers
	Loggers []LoggerConfig `yaml:"loggers,omitempty"`
	// Appenders defines appenders by name
	Appenders map[string]AppenderConfig `yaml:"appenders,omitempty"`
}

// LoggerConfig configures one logger
type LoggerConfig struct {
	Name  string `yaml:"name,omitempty"`
	Level string `yaml:"level,omitempty"`
	// Additivity is left unchanged when omitted
	Additivity *bool    `yaml:"additivity,omitempty"`
	Appenders  []string `yaml:"appenders,omitempty"`
	// Factory is the key of a factory registered with logger.RegisterFactory
	Factory string `yaml:"factory,omitempty"`
}

// AppenderConfig holds the settings of every appender type. Each type
// reads the fields that concern it.
type AppenderConfig struct {
	Type      string `yaml:"type"`
	Threshold string `yaml:"threshold,omitempty"`

	// Formatter is "text", "json" or a conversion pattern
	Formatter       string         `yaml:"formatter,omitempty"`
	Caller          bool           `yaml:"caller,omitempty"`
	Goroutine       bool           `yaml:"goroutine,omitempty"`
	TimestampFormat string         `yaml:"timestamp_format,omitempty"`
	Filters         []FilterConfig `yaml:"filters,omitempty"`

	// console, zap, zerolog, logrus
	Target   string `yaml:"target,omitempty"`
	Color    string `yaml:"color,omitempty"`
	Encoding string `yaml:"encoding,omitempty"`

	// file
	Filename       string        `yaml:"filename,omitempty"`
	Truncate       bool          `yaml:"truncate,omitempty"`
	MaxSize        int64         `yaml:"max_size,omitempty"`
	MaxAge         time.Duration `yaml:"max_age,omitempty"`
	MaxBackups     int           `yaml:"max_backups,omitempty"`
	RotateInterval time.Duration `yaml:"rotate_interval,omitempty"`

	// file and async
	BufferSize int `yaml:"buffer_size,omitempty"`

	// async
	OverflowPolicy map[string]string `yaml:"overflow_policy,omitempty"`
	BlockTimeout   time.Duration     `yaml:"block_timeout,omitempty"`
	DrainTimeout   time.Duration     `yaml:"drain_timeout,omitempty"`

	// async and multi
	Appenders []string `yaml:"appenders,omitempty"`

	// store
	Dir  string `yaml:"dir,omitempty"`
	Sync bool   `yaml:"sync,omitempty"`
}

// FilterConfig configures one filter of an appender's chain. Type may be
// omitted when Expr is set.
type FilterConfig struct {
	// Type is expr, level_range, level_match, string_match or deny_all
	Type string `yaml:"type,omitempty"`
	// Expr is a CEL expression evaluated against the event
	Expr string `yaml:"expr,omitempty"`
	// NeutralOnMatch makes a true expression defer to later filters
	NeutralOnMatch bool `yaml:"neutral_on_match,omitempty"`

	Min           string `yaml:"min,omitempty"`
	Max           string `yaml:"max,omitempty"`
	Level         string `yaml:"level,omitempty"`
	Match         string `yaml:"match,omitempty"`
	AcceptOnMatch bool   `yaml:"accept_on_match,omitempty"`
}
