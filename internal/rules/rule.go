// internal/rules/rule.go
package rules

import (
	"fmt"

	"github.com/solatis/dtogen/internal/condition"
	"github.com/solatis/dtogen/internal/edit"
	"github.com/solatis/dtogen/internal/types"
)

/*
 * Rule: an immutable (condition, edit, label) triple.
 *
 * Rules are only created by the builder (DoThis ... Build) or by Compile,
 * which uses the builder. Once built a Rule never changes and may be shared
 * by any number of editors and goroutines; the edit it applies still mutates
 * the item it is given, so items themselves must not be shared.
 *
 * Application flow:
 *   1. IsApplicable delegates to the condition
 *   2. Apply runs the edit only when the condition holds
 *   3. Edit failures are wrapped with the rule's name and returned
 */

// Rule is the unit of registered behaviour.
type Rule struct {
	id    types.RuleID
	label string
	cond  condition.Condition
	edit  edit.Edit
}

// ID returns the identifier stamped when the builder was started.
func (r Rule) ID() types.RuleID { return r.id }

// Label returns the optional human-readable label.
func (r Rule) Label() string { return r.label }

// Condition returns the rule's condition (always-true when none was given).
func (r Rule) Condition() condition.Condition { return r.cond }

// Edit returns the rule's edit.
func (r Rule) Edit() edit.Edit { return r.edit }

// IsApplicable reports whether the rule's condition holds for (index, item).
// A zero Rule has neither condition nor edit and never applies.
func (r Rule) IsApplicable(index int, item any) bool {
	if r.cond == nil || r.edit == nil {
		return false
	}
	return r.cond.IsValid(index, item)
}

// Apply runs the edit when the rule is applicable.
// Returns whether the edit ran.
func (r Rule) Apply(index int, item any) (bool, error) {
	if !r.IsApplicable(index, item) {
		return false, nil
	}
	if err := r.edit.Apply(index, item); err != nil {
		return true, fmt.Errorf("rule %s at index %d: %w", r.name(), index, err)
	}
	return true, nil
}

// name is the label when set, the id otherwise.
func (r Rule) name() string {
	if r.label != "" {
		return r.label
	}
	return string(r.id)
}

// String renders "label: DO edit WHERE condition".
func (r Rule) String() string {
	if r.cond == nil || r.edit == nil {
		return "EMPTY RULE"
	}
	s := "DO " + r.edit.String() + " WHERE " + r.cond.String()
	if r.label != "" {
		return r.label + ": " + s
	}
	return s
}
