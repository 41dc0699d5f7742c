package eval

import (
	"fmt"
	"strings"
	"sync"

	"mooltipage/pkg/engine"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator runs template expressions and component scripts with expr-lang.
// Compiled programs are cached by source text.
type Evaluator struct {
	programs sync.Map // map[string]*vm.Program
}

func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs expression against the flattened scope chain.
// Unknown identifiers evaluate to nil.
func (e *Evaluator) Evaluate(expression string, scope *engine.Scope) (any, error) {
	program, err := e.compile(expression)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, scope.Flatten())
}

func (e *Evaluator) compile(source string) (*vm.Program, error) {
	if cached, ok := e.programs.Load(source); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}
	e.programs.Store(source, program)
	return program, nil
}

// ClearCache drops every compiled program.
func (e *Evaluator) ClearCache() {
	e.programs.Range(func(key, _ any) bool {
		e.programs.Delete(key)
		return true
	})
}

// ParseComponentFunction parses a function script: one expression that
// returns a map of fields. Props are visible by name and as props.
func (e *Evaluator) ParseComponentFunction(text string) (engine.Executable, error) {
	source := strings.TrimSpace(stripComments(text))
	if source == "" {
		return nil, fmt.Errorf("function script is empty")
	}
	program, err := e.compile(source)
	if err != nil {
		return nil, err
	}
	return &functionScript{program: program}, nil
}

// ParseComponentClass parses a class script: one "name = expression"
// declaration per line, evaluated top to bottom.
func (e *Evaluator) ParseComponentClass(text string) (engine.Executable, error) {
	script := &classScript{}
	for i, line := range strings.Split(stripComments(text), "\n") {
		line = strings.TrimSuffix(strings.TrimSpace(line), ";")
		if line == "" {
			continue
		}
		m := fieldPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: expected 'name = expression', got %q", i+1, line)
		}
		program, err := e.compile(m[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		script.fields = append(script.fields, classField{name: m[1], program: program})
	}
	return script, nil
}
