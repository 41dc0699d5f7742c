package eval

import (
	"fmt"
	"regexp"
	"strings"

	"mooltipage/pkg/utils/coerce"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var fieldPattern = regexp.MustCompile(`^([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*([^=].*)$`)

type classField struct {
	name    string
	program *vm.Program
}

type classScript struct {
	fields []classField
}

func (s *classScript) Execute(props map[string]any) (map[string]any, error) {
	env := propsEnv(props)
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		v, err := expr.Run(f.program, env)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		env[f.name] = v
		out[f.name] = v
	}
	return out, nil
}

type functionScript struct {
	program *vm.Program
}

func (s *functionScript) Execute(props map[string]any) (map[string]any, error) {
	v, err := expr.Run(s.program, propsEnv(props))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return map[string]any{}, nil
	}
	fields, err := coerce.ToMap(v)
	if err != nil {
		return nil, fmt.Errorf("function script must return a map: %w", err)
	}
	return fields, nil
}

func propsEnv(props map[string]any) map[string]any {
	env := make(map[string]any, len(props)+1)
	copied := make(map[string]any, len(props))
	for k, v := range props {
		env[k] = v
		copied[k] = v
	}
	env["props"] = copied
	return env
}

// stripComments drops // line comments outside of string literals.
func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = stripLineComment(line)
	}
	return strings.Join(lines, "\n")
}

func stripLineComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}
