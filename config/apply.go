package config

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/diag"
	"github.com/philipp01105/logtree/logger"
)

// Apply configures reg from cfg. The root and every listed logger lose
// their current appenders, which are closed, and receive the configured
// ones. Levels that cannot be parsed fall back (DEBUG for the root,
// inherit otherwise) with a diagnostic. Appenders that fail to build are
// skipped; their errors are combined into the returned error.
func Apply(cfg *Config, reg *logger.Registry) error {
	if cfg.Debug {
		diag.SetDebug(true)
	}
	if cfg.Threshold != "" {
		reg.SetThresholdString(cfg.Threshold)
	}

	b := &build{cfg: cfg, built: make(map[string]appender.Appender), failed: make(map[string]error), building: make(map[string]bool)}

	root := reg.Root()
	if cfg.Root.Level != "" {
		root.SetLevel(parseLevel(cfg.Root.Level, logger.DebugLevel, logger.RootName))
	}
	if cfg.Root.Additivity != nil {
		diag.Warn("additivity has no effect on the root logger")
	}
	b.attach(root, cfg.Root.Appenders)

	for _, lc := range cfg.Loggers {
		name := strings.TrimSpace(lc.Name)
		if name == "" || name == logger.RootName {
			diag.Warn("skipping logger entry without a usable name", zap.String("name", lc.Name))
			continue
		}
		l := reg.LoggerFrom(name, factoryFor(lc.Factory, name))
		if l == nil {
			continue
		}
		if lc.Level != "" {
			l.SetLevel(parseLevel(lc.Level, logger.InheritLevel, name))
		}
		if lc.Additivity != nil {
			l.SetAdditivity(*lc.Additivity)
		}
		b.attach(l, lc.Appenders)
		diag.Debug("configured logger", zap.String("logger", name), zap.Stringer("level", l.Level()))
	}

	return b.errs
}

// Configure loads the file at path and applies it to reg
func Configure(path string, reg *logger.Registry) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	return Apply(cfg, reg)
}

func parseLevel(s string, def core.Level, name string) core.Level {
	l, ok := core.ParseLevel(s)
	if !ok {
		diag.Warn("unknown level, using default",
			zap.String("logger", name), zap.String("value", s), zap.Stringer("default", def))
		return def
	}
	return l
}

func factoryFor(key, name string) logger.Factory {
	if key == "" {
		return nil
	}
	f, ok := logger.LookupFactory(key)
	if !ok {
		diag.Warn("unknown logger factory, using the registry's", zap.String("logger", name), zap.String("factory", key))
		return nil
	}
	return f
}

// build constructs the appenders of one Apply call. Each name is built at
// most once, so an appender listed by several loggers is shared.
type build struct {
	cfg      *Config
	built    map[string]appender.Appender
	failed   map[string]error
	building map[string]bool
	errs     error
}

// Appender implements Resolver
func (b *build) Appender(name string) (appender.Appender, error) {
	if a, ok := b.built[name]; ok {
		return a, nil
	}
	if err, ok := b.failed[name]; ok {
		return nil, err
	}
	c, ok := b.cfg.Appenders[name]
	if !ok {
		return nil, b.fail(name, fmt.Errorf("undefined appender %q", name))
	}
	if b.building[name] {
		return nil, fmt.Errorf("appender %q is part of a cycle", name)
	}
	f, ok := lookupType(c.Type)
	if !ok {
		return nil, b.fail(name, fmt.Errorf("appender %q: unknown type %q", name, c.Type))
	}

	b.building[name] = true
	a, err := f(name, c, b)
	delete(b.building, name)
	if err != nil {
		return nil, b.fail(name, fmt.Errorf("build appender %q: %w", name, err))
	}
	b.built[name] = a
	diag.Debug("built appender", zap.String("appender", name), zap.String("type", c.Type))
	return a, nil
}

// fail records err once per name
func (b *build) fail(name string, err error) error {
	b.failed[name] = err
	b.errs = multierr.Append(b.errs, err)
	return err
}

func (b *build) attach(l *logger.Logger, refs []string) {
	if err := l.RemoveAllAppenders(); err != nil {
		b.errs = multierr.Append(b.errs, fmt.Errorf("close appenders of %s: %w", l.Name(), err))
	}
	for _, ref := range refs {
		a, err := b.Appender(ref)
		if err != nil {
			diag.Error("appender not attached", zap.String("logger", l.Name()), zap.Error(err))
			continue
		}
		l.AddAppender(a)
	}
}
