package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/logtree/appender"
	"github.com/philipp01105/logtree/appender/bridge"
	"github.com/philipp01105/logtree/core"
	"github.com/philipp01105/logtree/diag"
	"github.com/philipp01105/logtree/filter"
	"github.com/philipp01105/logtree/formatter"
	"github.com/philipp01105/logtree/store"
)

// Resolver hands out the other appenders of the configuration being
// applied, building each at most once
type Resolver interface {
	Appender(name string) (appender.Appender, error)
}

// AppenderFactory builds the appender called name from c
type AppenderFactory func(name string, c AppenderConfig, r Resolver) (appender.Appender, error)

var (
	typesMu sync.RWMutex
	types   = map[string]AppenderFactory{}
	// nested marks types whose appenders list other appenders
	nested = map[string]bool{}
)

func init() {
	RegisterAppenderType("console", newConsole)
	RegisterAppenderType("file", newFile)
	RegisterAppenderType("list", newList)
	RegisterAppenderType("zap", newZap)
	RegisterAppenderType("zerolog", newZerolog)
	RegisterAppenderType("logrus", newLogrus)
	RegisterAppenderType("store", newStore)
	registerNested("async", newAsync)
	registerNested("multi", newMulti)
}

// RegisterAppenderType makes f available under typ. Registering a type
// again replaces it.
func RegisterAppenderType(typ string, f AppenderFactory) {
	if f == nil {
		return
	}
	typesMu.Lock()
	defer typesMu.Unlock()
	if _, dup := types[typ]; dup {
		diag.Warn("replacing registered appender type", zap.String("type", typ))
	}
	types[typ] = f
}

func registerNested(typ string, f AppenderFactory) {
	RegisterAppenderType(typ, f)
	typesMu.Lock()
	nested[typ] = true
	typesMu.Unlock()
}

// AppenderTypes returns the registered type names, sorted
func AppenderTypes() []string {
	typesMu.RLock()
	defer typesMu.RUnlock()
	out := make([]string, 0, len(types))
	for t := range types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func lookupType(typ string) (AppenderFactory, bool) {
	typesMu.RLock()
	defer typesMu.RUnlock()
	f, ok := types[typ]
	return f, ok
}

// Options builds the options shared by every appender type: threshold,
// filter chain and formatter
func (c AppenderConfig) Options(name string) (appender.Options, error) {
	opts := appender.Options{Name: name}
	if c.Threshold != "" {
		l, ok := core.ParseLevel(c.Threshold)
		if !ok {
			return opts, fmt.Errorf("unknown threshold %q", c.Threshold)
		}
		opts.Threshold = l
	}
	f, err := formatter.New(c.Formatter, formatter.Config{
		IncludeCaller:    c.Caller,
		IncludeGoroutine: c.Goroutine,
		TimestampFormat:  c.TimestampFormat,
	})
	if err != nil {
		return opts, err
	}
	opts.Formatter = f
	for i, fc := range c.Filters {
		flt, err := fc.Build()
		if err != nil {
			return opts, fmt.Errorf("filters[%d]: %w", i, err)
		}
		opts.Filters = append(opts.Filters, flt)
	}
	return opts, nil
}

// Build creates the filter
func (fc FilterConfig) Build() (filter.Filter, error) {
	typ := strings.ToLower(fc.Type)
	if typ == "" && fc.Expr != "" {
		typ = "expr"
	}
	switch typ {
	case "expr":
		f, err := filter.NewCEL(fc.Expr)
		if err != nil {
			return nil, err
		}
		f.NeutralOnMatch = fc.NeutralOnMatch
		return f, nil
	case "level_range":
		lo, err := optionalLevel(fc.Min, "min")
		if err != nil {
			return nil, err
		}
		hi, err := optionalLevel(fc.Max, "max")
		if err != nil {
			return nil, err
		}
		return filter.LevelRange{Min: lo, Max: hi, AcceptOnMatch: fc.AcceptOnMatch}, nil
	case "level_match":
		l, ok := core.ParseLevel(fc.Level)
		if !ok || l.IsSentinel() {
			return nil, fmt.Errorf("level_match: invalid level %q", fc.Level)
		}
		return filter.LevelMatch{Level: l, AcceptOnMatch: fc.AcceptOnMatch}, nil
	case "string_match":
		return filter.StringMatch{Substr: fc.Match, AcceptOnMatch: fc.AcceptOnMatch}, nil
	case "deny_all":
		return filter.DenyAll{}, nil
	default:
		return nil, fmt.Errorf("unknown filter type %q", fc.Type)
	}
}

func optionalLevel(s, field string) (core.Level, error) {
	if s == "" {
		return core.InheritLevel, nil
	}
	l, ok := core.ParseLevel(s)
	if !ok {
		return core.InheritLevel, fmt.Errorf("%s: unknown level %q", field, s)
	}
	return l, nil
}

func targetWriter(target string) (io.Writer, error) {
	switch strings.ToLower(target) {
	case "", "stdout", "system.out":
		return os.Stdout, nil
	case "stderr", "system.err":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("unknown target %q", target)
	}
}

func newConsole(name string, c AppenderConfig, _ Resolver) (appender.Appender, error) {
	opts, err := c.Options(name)
	if err != nil {
		return nil, err
	}
	mode, err := appender.ParseColorMode(c.Color)
	if err != nil {
		return nil, err
	}
	return appender.NewConsole(appender.ConsoleConfig{Options: opts, Target: c.Target, Color: mode})
}

func newFile(name string, c AppenderConfig, _ Resolver) (appender.Appender, error) {
	opts, err := c.Options(name)
	if err != nil {
		return nil, err
	}
	return appender.NewFile(appender.FileConfig{
		Options:        opts,
		Filename:       c.Filename,
		Truncate:       c.Truncate,
		BufferSize:     c.BufferSize,
		MaxSize:        c.MaxSize,
		MaxAge:         c.MaxAge,
		MaxBackups:     c.MaxBackups,
		RotateInterval: c.RotateInterval,
	})
}

func newList(name string, c AppenderConfig, _ Resolver) (appender.Appender, error) {
	opts, err := c.Options(name)
	if err != nil {
		return nil, err
	}
	return appender.NewList(opts), nil
}

func resolveAll(r Resolver, names []string) ([]appender.Appender, error) {
	out := make([]appender.Appender, 0, len(names))
	for _, n := range names {
		a, err := r.Appender(n)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func newAsync(name string, c AppenderConfig, r Resolver) (appender.Appender, error) {
	opts, err := c.Options(name)
	if err != nil {
		return nil, err
	}
	policy, err := overflowPolicy(c.OverflowPolicy)
	if err != nil {
		return nil, err
	}
	children, err := resolveAll(r, c.Appenders)
	if err != nil {
		return nil, err
	}
	return appender.NewAsync(appender.AsyncConfig{
		Options:        opts,
		BufferSize:     c.BufferSize,
		OverflowPolicy: policy,
		BlockTimeout:   c.BlockTimeout,
		DrainTimeout:   c.DrainTimeout,
		Appenders:      children,
	}), nil
}

// overflowPolicy converts the level-name keyed YAML form. Nil means the
// async appender's default.
func overflowPolicy(m map[string]string) (map[core.Level]appender.OverflowPolicy, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[core.Level]appender.OverflowPolicy, len(m))
	for lvl, pol := range m {
		l, ok := core.ParseLevel(lvl)
		if !ok || l.IsSentinel() {
			return nil, fmt.Errorf("overflow_policy: invalid level %q", lvl)
		}
		p, err := appender.ParseOverflowPolicy(pol)
		if err != nil {
			return nil, fmt.Errorf("overflow_policy: %w", err)
		}
		out[l] = p
	}
	return out, nil
}

func newMulti(name string, c AppenderConfig, r Resolver) (appender.Appender, error) {
	opts, err := c.Options(name)
	if err != nil {
		return nil, err
	}
	children, err := resolveAll(r, c.Appenders)
	if err != nil {
		return nil, err
	}
	return appender.NewMulti(opts, children...), nil
}

func newZap(name string, c AppenderConfig, _ Resolver) (appender.Appender, error) {
	opts, err := c.Options(name)
	if err != nil {
		return nil, err
	}
	w, err := targetWriter(c.Target)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch strings.ToLower(c.Encoding) {
	case "", "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console":
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown zap encoding %q", c.Encoding)
	}
	l := zap.New(zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), zapcore.DebugLevel))
	return bridge.NewZap(bridge.ZapConfig{Options: opts, Logger: l}), nil
}

func newZerolog(name string, c AppenderConfig, _ Resolver) (appender.Appender, error) {
	opts, err := c.Options(name)
	if err != nil {
		return nil, err
	}
	w, err := targetWriter(c.Target)
	if err != nil {
		return nil, err
	}
	return bridge.NewZerolog(bridge.ZerologConfig{Options: opts, Writer: w}), nil
}

func newLogrus(name string, c AppenderConfig, _ Resolver) (appender.Appender, error) {
	opts, err := c.Options(name)
	if err != nil {
		return nil, err
	}
	w, err := targetWriter(c.Target)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.TraceLevel)
	switch strings.ToLower(c.Encoding) {
	case "", "text":
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown logrus encoding %q", c.Encoding)
	}
	return bridge.NewLogrus(bridge.LogrusConfig{Options: opts, Logger: l}), nil
}

func newStore(name string, c AppenderConfig, _ Resolver) (appender.Appender, error) {
	opts, err := c.Options(name)
	if err != nil {
		return nil, err
	}
	if c.Dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	return store.NewAppender(store.AppenderConfig{Options: opts, Dir: c.Dir, Sync: c.Sync})
}
