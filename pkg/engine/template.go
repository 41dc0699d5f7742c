package engine

import (
	"regexp"
	"strings"

	"mooltipage/pkg/utils/coerce"
)

var templatePattern = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)

// HasTemplate reports whether s contains a {{ }} segment.
func HasTemplate(s string) bool {
	return strings.Contains(s, "{{") && templatePattern.MatchString(s)
}

// EvaluateTemplate resolves the {{ }} segments of raw against scope. When raw
// is exactly one segment the typed result is returned, otherwise the segments
// are rendered into the surrounding text. Text without segments is returned as is.
func EvaluateTemplate(evaluator Evaluator, raw string, scope *Scope) (any, error) {
	matches := templatePattern.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return raw, nil
	}

	trimmed := strings.TrimSpace(raw)
	if len(matches) == 1 && strings.HasPrefix(trimmed, "{{") && strings.HasSuffix(trimmed, "}}") &&
		matches[0][1]-matches[0][0] == len(trimmed) {
		return evaluate(evaluator, raw[matches[0][2]:matches[0][3]], scope)
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(raw[last:m[0]])
		v, err := evaluate(evaluator, raw[m[2]:m[3]], scope)
		if err != nil {
			return nil, err
		}
		sb.WriteString(coerce.ToString(v))
		last = m[1]
	}
	sb.WriteString(raw[last:])
	return sb.String(), nil
}

// EvaluateTemplateString is EvaluateTemplate with the result rendered as text.
func EvaluateTemplateString(evaluator Evaluator, raw string, scope *Scope) (string, error) {
	v, err := EvaluateTemplate(evaluator, raw, scope)
	if err != nil {
		return "", err
	}
	return coerce.ToString(v), nil
}

func evaluate(evaluator Evaluator, expression string, scope *Scope) (any, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}
	v, err := evaluator.Evaluate(expression, scope)
	if err != nil {
		return nil, Wrap(ErrExpression, err, "cannot evaluate {{ %s }}", expression)
	}
	return v, nil
}
