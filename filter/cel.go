package filter

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/philipp01105/logtree/core"
)

// CEL evaluates a boolean Common Expression Language program against each
// event. The expression sees these variables:
//
//	level      int     numeric level, e.g. 30000 for WARN
//	level_name string  "WARN"
//	logger     string  logger name
//	message    string
//	error      string  cause text, empty when there is none
//	goroutine  int
//	fields     map     event fields by key
//	ts_ms      int     event time in Unix milliseconds
//
// A true result is Accept, or Neutral when NeutralOnMatch is set; false is
// Deny. Evaluation errors deny the event.
type CEL struct {
	expr           string
	prog           cel.Program
	NeutralOnMatch bool
}

// NewCEL compiles expr. The expression must type-check to a bool.
func NewCEL(expr string) (*CEL, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty filter expression")
	}
	env, err := cel.NewEnv(
		cel.Variable("level", cel.IntType),
		cel.Variable("level_name", cel.StringType),
		cel.Variable("logger", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("error", cel.StringType),
		cel.Variable("goroutine", cel.IntType),
		cel.Variable("fields", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("ts_ms", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("parse %q: %w", expr, iss.Err())
	}
	checked, iss := env.Check(ast)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("check %q: %w", expr, iss.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q returns %s, want bool", expr, checked.OutputType())
	}
	prog, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &CEL{expr: expr, prog: prog}, nil
}

// Expr returns the source expression
func (f *CEL) Expr() string { return f.expr }

// Decide implements Filter
func (f *CEL) Decide(e *core.Event) Decision {
	fields := make(map[string]any, len(e.Fields))
	for _, field := range e.Fields {
		fields[field.Key] = celValue(field)
	}
	out, _, err := f.prog.Eval(map[string]any{
		"level":      int64(e.Level),
		"level_name": e.Level.String(),
		"logger":     e.LoggerName,
		"message":    e.Message,
		"error":      e.CauseString(),
		"goroutine":  int64(e.Goroutine),
		"fields":     fields,
		"ts_ms":      e.Time.UnixMilli(),
	})
	if err != nil {
		return Deny
	}
	if b, ok := out.Value().(bool); ok && b {
		if f.NeutralOnMatch {
			return Neutral
		}
		return Accept
	}
	return Deny
}

// celValue narrows field values to the types CEL knows natively
func celValue(field core.Field) any {
	switch field.Type {
	case core.IntType, core.Int64Type, core.DurationType:
		return field.Int64
	case core.Float64Type:
		return field.Float64
	case core.BoolType:
		return field.Int64 == 1
	default:
		return field.StringValue()
	}
}
