package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
	celext "github.com/google/cel-go/ext"
)

// DefaultReturnActive keeps the return date for every trip type except
// one-way.
const DefaultReturnActive = `form.trip_type != "one-way"`

// Predicate is a compiled boolean CEL expression over the form values, bound
// to the variable "form" (map of element id to value).
type Predicate struct {
	expr string
	prg  cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("form", cel.MapType(cel.StringType, cel.StringType)),
		celext.Strings(),
	)
}

// CompilePredicate parses and type-checks expr, which must yield a bool.
func CompilePredicate(expr string) (*Predicate, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q yields %s, want bool", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// Eval runs the predicate against form.
func (p *Predicate) Eval(form map[string]string) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{"form": form})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q returned %T, want bool", p.expr, out.Value())
	}
	return b, nil
}

// String returns the source expression.
func (p *Predicate) String() string { return p.expr }
