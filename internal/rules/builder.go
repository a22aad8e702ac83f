// internal/rules/builder.go
package rules

import (
	"fmt"

	"github.com/solatis/dtogen/internal/condition"
	"github.com/solatis/dtogen/internal/edit"
	"github.com/solatis/dtogen/internal/types"
)

/*
 * Type-state rule builder.
 *
 * Each builder state is its own type exposing only the calls valid in that
 * state, so ordering mistakes are compile errors:
 *
 *   DoThis(e)            -> EditStage
 *   EditStage.AndThen(e) -> EditStage   (accumulate edits)
 *   EditStage.Where(c)   -> WhereStage  (first condition is the base)
 *   EditStage.Build()    -> Rule        (condition defaults to ALWAYS)
 *   WhereStage.And/Or/AndNot/OrNot(c) -> WhereStage
 *   WhereStage.SetLabel(s)            -> WhereStage
 *   WhereStage.Build()                -> Rule
 *
 * There is no way back from WhereStage to EditStage. Stages are values and
 * every call returns a new one, so a partially built rule can be branched
 * without the branches affecting each other.
 *
 * A nil edit or condition panics at the call that introduced it.
 * The RuleID is stamped by DoThis; every Build from the same chain shares it.
 */

// EditStage accumulates edits.
type EditStage struct {
	id    types.RuleID
	edits []edit.Edit
}

// DoThis starts a rule with its first edit.
func DoThis(e edit.Edit) EditStage {
	mustEdit(e)
	return EditStage{id: types.NewRuleID(), edits: []edit.Edit{e}}
}

// AndThen appends an edit applied after the previous ones.
func (s EditStage) AndThen(e edit.Edit) EditStage {
	mustEdit(e)
	edits := make([]edit.Edit, len(s.edits), len(s.edits)+1)
	copy(edits, s.edits)
	s.edits = append(edits, e)
	return s
}

// Where sets the base condition.
func (s EditStage) Where(c condition.Condition) WhereStage {
	mustCondition(c)
	return WhereStage{id: s.id, edit: s.combined(), cond: c}
}

// Build returns a rule applicable to every item.
func (s EditStage) Build() Rule {
	return Rule{id: s.id, cond: condition.Always(), edit: s.combined()}
}

// combined panics on a zero EditStage; only DoThis starts a valid one.
func (s EditStage) combined() edit.Edit {
	switch len(s.edits) {
	case 0:
		panic(fmt.Errorf("%w: rule has no edit (start with DoThis)", types.ErrInvalidArgument))
	case 1:
		return s.edits[0]
	}
	return edit.And(s.edits[0], s.edits[1:]...)
}

// WhereStage folds further conditions into the running condition.
type WhereStage struct {
	id    types.RuleID
	edit  edit.Edit
	cond  condition.Condition
	label string
}

// And returns a stage whose condition is (current) AND (c).
func (s WhereStage) And(c condition.Condition) WhereStage {
	mustCondition(c)
	s.cond = condition.And(s.cond, c)
	return s
}

// Or returns a stage whose condition is (current) OR (c).
func (s WhereStage) Or(c condition.Condition) WhereStage {
	mustCondition(c)
	s.cond = condition.Or(s.cond, c)
	return s
}

// AndNot returns a stage whose condition is (current) AND NOT (c).
func (s WhereStage) AndNot(c condition.Condition) WhereStage {
	mustCondition(c)
	s.cond = condition.AndNot(s.cond, c)
	return s
}

// OrNot returns a stage whose condition is (current) OR NOT (c).
func (s WhereStage) OrNot(c condition.Condition) WhereStage {
	mustCondition(c)
	s.cond = condition.OrNot(s.cond, c)
	return s
}

// SetLabel stores the label, replacing any earlier one.
func (s WhereStage) SetLabel(label string) WhereStage {
	s.label = label
	return s
}

// Build returns the rule. Repeated calls return rules with identical fields.
func (s WhereStage) Build() Rule {
	return Rule{id: s.id, label: s.label, cond: s.cond, edit: s.edit}
}

func mustEdit(e edit.Edit) {
	if e == nil {
		panic(fmt.Errorf("%w: edit must not be nil", types.ErrInvalidArgument))
	}
}

func mustCondition(c condition.Condition) {
	if c == nil {
		panic(fmt.Errorf("%w: condition must not be nil", types.ErrInvalidArgument))
	}
}
