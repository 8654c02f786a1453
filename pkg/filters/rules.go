package filters

import (
	"fmt"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"
)

// rule is a compiled CEL check over a validated field value.
type rule struct {
	field   string
	expr    string
	message string
	prg     cel.Program
}

func compileRule(schema string, rd ruleDecl) (*rule, error) {
	env, err := cel.NewEnv(cel.Variable("value", cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, iss := env.Compile(rd.expr)
	if iss != nil && iss.Err() != nil {
		return nil, configErrorf(schema, rd.field, "rule %q: %v", rd.expr, iss.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, configErrorf(schema, rd.field, "rule %q must evaluate to bool, got %s", rd.expr, out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, configErrorf(schema, rd.field, "rule %q: %v", rd.expr, err)
	}
	message := rd.message
	if message == "" {
		message = "Invalid value."
	}
	return &rule{field: rd.field, expr: rd.expr, message: message, prg: prg}, nil
}

// check evaluates the rule. A false result is a field error; an evaluation
// failure is returned as a plain error.
func (r *rule) check(value any) (*FieldError, error) {
	out, _, err := r.prg.Eval(map[string]any{"value": celValue(value)})
	if err != nil {
		return nil, fmt.Errorf("rule %q on %s: %w", r.expr, r.field, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return nil, fmt.Errorf("rule %q on %s: result %v is not a bool", r.expr, r.field, out.Value())
	}
	if !ok {
		return Invalid(r.message), nil
	}
	return nil, nil
}

// celValue converts validated values to types CEL understands.
func celValue(v any) any {
	switch t := v.(type) {
	case decimal.Decimal:
		return t.InexactFloat64()
	case time.Time, time.Duration:
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = celValue(item)
		}
		return out
	}
	return v
}
