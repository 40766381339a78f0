package config

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/logger"
)

// Validate checks cfg without building anything that touches the outside
// world. It returns every problem found, combined into one error whose
// parts multierr.Errors can recover.
func Validate(cfg *Config) error {
	var err error
	if cfg.Threshold != "" {
		err = multierr.Append(err, validateLevel(cfg.Threshold, "threshold"))
	}
	err = multierr.Append(err, validateLogger(cfg, cfg.Root, "root"))

	seen := make(map[string]bool, len(cfg.Loggers))
	for i, lc := range cfg.Loggers {
		field := fmt.Sprintf("loggers[%d]", i)
		name := strings.TrimSpace(lc.Name)
		switch {
		case name == "":
			err = multierr.Append(err, fmt.Errorf("%s.name: must not be empty", field))
		case name == logger.RootName:
			err = multierr.Append(err, fmt.Errorf("%s.name: configure the root logger under root", field))
		case seen[name]:
			err = multierr.Append(err, fmt.Errorf("%s.name: duplicate logger %q", field, name))
		}
		seen[name] = true
		err = multierr.Append(err, validateLogger(cfg, lc, field))
	}

	names := make([]string, 0, len(cfg.Appenders))
	for name := range cfg.Appenders {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		err = multierr.Append(err, validateAppender(cfg, name, cfg.Appenders[name]))
	}
	return multierr.Append(err, checkCycles(cfg, names))
}

func validateLevel(s, field string) error {
	l, ok := core.ParseLevel(s)
	if !ok {
		return fmt.Errorf("%s: unknown level %q", field, s)
	}
	if l == core.InheritLevel && field == "threshold" {
		return fmt.Errorf("%s: must not be %q", field, s)
	}
	return nil
}

func validateLogger(cfg *Config, lc LoggerConfig, field string) error {
	var err error
	if lc.Level != "" {
		err = multierr.Append(err, validateLevel(lc.Level, field+".level"))
		if l, ok := core.ParseLevel(lc.Level); ok && l == core.InheritLevel && field == "root" {
			err = multierr.Append(err, fmt.Errorf("root.level: the root logger cannot inherit"))
		}
	}
	if lc.Factory != "" {
		if _, ok := logger.LookupFactory(lc.Factory); !ok {
			err = multierr.Append(err, fmt.Errorf("%s.factory: unknown factory %q", field, lc.Factory))
		}
	}
	for i, ref := range lc.Appenders {
		if _, ok := cfg.Appenders[ref]; !ok {
			err = multierr.Append(err, fmt.Errorf("%s.appenders[%d]: undefined appender %q", field, i, ref))
		}
	}
	return err
}

func validateAppender(cfg *Config, name string, c AppenderConfig) error {
	field := "appenders." + name
	if _, ok := lookupType(c.Type); !ok {
		return fmt.Errorf("%s.type: unknown appender type %q", field, c.Type)
	}

	var err error
	if _, oerr := c.Options(name); oerr != nil {
		err = multierr.Append(err, fmt.Errorf("%s: %w", field, oerr))
	}

	typesMu.RLock()
	isNested := nested[c.Type]
	typesMu.RUnlock()
	if !isNested && len(c.Appenders) > 0 {
		err = multierr.Append(err, fmt.Errorf("%s.appenders: type %q does not forward to other appenders", field, c.Type))
	}
	for i, ref := range c.Appenders {
		if _, ok := cfg.Appenders[ref]; !ok {
			err = multierr.Append(err, fmt.Errorf("%s.appenders[%d]: undefined appender %q", field, i, ref))
		}
	}

	switch c.Type {
	case "console":
		if _, cerr := appender.ParseColorMode(c.Color); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("%s.color: %w", field, cerr))
		}
		err = multierr.Append(err, validateTarget(c.Target, field))
	case "zap", "zerolog", "logrus":
		err = multierr.Append(err, validateTarget(c.Target, field))
	case "file":
		if c.Filename == "" {
			err = multierr.Append(err, fmt.Errorf("%s.filename: required", field))
		}
		if c.MaxSize < 0 || c.MaxBackups < 0 || c.BufferSize < 0 {
			err = multierr.Append(err, fmt.Errorf("%s: sizes and counts must be non-negative", field))
		}
	case "async":
		if _, perr := overflowPolicy(c.OverflowPolicy); perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s.%w", field, perr))
		}
		if c.BufferSize < 0 {
			err = multierr.Append(err, fmt.Errorf("%s.buffer_size: must be non-negative, got %d", field, c.BufferSize))
		}
	case "store":
		if c.Dir == "" {
			err = multierr.Append(err, fmt.Errorf("%s.dir: required", field))
		}
	}
	return err
}

func validateTarget(target, field string) error {
	if _, err := targetWriter(target); err != nil {
		return fmt.Errorf("%s.target: %w", field, err)
	}
	return nil
}

// checkCycles rejects composite appenders that reach themselves
func checkCycles(cfg *Config, names []string) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(names))
	var err error
	var visit func(name string, path []string)
	visit = func(name string, path []string) {
		switch state[name] {
		case visiting:
			err = multierr.Append(err, fmt.Errorf("appenders.%s: cycle %s", name, strings.Join(append(path, name), " -> ")))
			return
		case done:
			return
		}
		state[name] = visiting
		next := append(append([]string(nil), path...), name)
		for _, ref := range cfg.Appenders[name].Appenders {
			if _, ok := cfg.Appenders[ref]; ok {
				visit(ref, next)
			}
		}
		state[name] = done
	}
	for _, name := range names {
		if state[name] == unvisited {
			visit(name, nil)
		}
	}
	return err
}
