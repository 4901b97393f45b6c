package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine runs compiled rules against an environment.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category.
type Engine struct {
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Evaluate runs every matching rule and returns the names of those that fired.
func (e *Engine) Evaluate(env RuleEnv) []string {
	fired := make(map[string]bool) // category → exclusive rule already fired
	var names []string
	for _, r := range e.rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		names = append(names, r.Name)
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category)

		if r.Action != nil {
			if err := r.Action(env); err != nil {
				slog.Error("rule action error", "rule", r.Name, "error", err)
			}
		}
		if r.Exclusive {
			fired[r.Category] = true
		}
	}
	return names
}

// Rules returns the compiled rules in evaluation order.
func (e *Engine) Rules() []*Rule { return e.rules }

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}

// Predicate is a standalone compiled condition.
type Predicate struct {
	Src     string
	program *vm.Program
}

// Compile compiles a boolean expression over RuleEnv.
func Compile(src string) (*Predicate, error) {
	prog, err := expr.Compile(src, expr.Env(RuleEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile predicate %q: %w", src, err)
	}
	return &Predicate{Src: src, program: prog}, nil
}

// MustCompile is Compile for sources fixed at build time.
func MustCompile(src string) *Predicate {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// Eval reports whether the predicate holds; evaluation errors count as false.
func (p *Predicate) Eval(env RuleEnv) bool {
	result, err := vm.Run(p.program, env)
	if err != nil {
		slog.Warn("predicate error", "src", p.Src, "error", err)
		return false
	}
	match, _ := result.(bool)
	return match
}
