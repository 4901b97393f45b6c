package rules

import (
	"github.com/expr-lang/expr/vm"
)

// ActionFunc runs when a rule's condition holds.
type ActionFunc func(env RuleEnv) error

// Rule is a condition → action pair. The engine evaluates rules by priority
// and uses Category + Exclusive so that only one rule per category decides.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
