// Package policy holds the optional message-filter rule. Early deployments
// used a hard "message shorter than 50 characters" heuristic against false
// positives; here the heuristic is an operator-supplied expression instead
// of a baked-in rule.
package policy

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter decides whether a message is eligible for link extraction. A nil
// *Filter allows everything.
type Filter struct {
	rule    string
	program *vm.Program
}

// New compiles rule, e.g. "length < 50". An empty rule means no filtering
// and returns a nil Filter.
func New(rule string) (*Filter, error) {
	if rule == "" {
		return nil, nil
	}
	program, err := expr.Compile(rule, expr.Env(filterEnv("")), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile message filter: %w", err)
	}
	return &Filter{rule: rule, program: program}, nil
}

func (f *Filter) Rule() string {
	if f == nil {
		return ""
	}
	return f.rule
}

// Allow evaluates the rule against text. Evaluation errors fail open: a
// broken rule must not silence the bot.
func (f *Filter) Allow(text string) bool {
	if f == nil {
		return true
	}
	result, err := expr.Run(f.program, filterEnv(text))
	if err != nil {
		return true
	}
	allowed, ok := result.(bool)
	if !ok {
		return true
	}
	return allowed
}

func filterEnv(text string) map[string]interface{} {
	return map[string]interface{}{
		"text":   text,
		"length": len(text),
	}
}
