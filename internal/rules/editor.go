// internal/rules/editor.go
package rules

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/solatis/dtogen/internal/logging"
	"github.com/solatis/dtogen/internal/types"
)

/*
 * Rule editors: apply registered rules to batches of items.
 *
 *   - SimpleEditor: one ordered rule list applied to every item
 *   - MappedTypeEditor: rule lists keyed by the item's type tag
 *
 * Per (index, item) each rule is checked and applied in registration order,
 * one at a time, so a later rule's condition observes the edits of earlier
 * rules. The batch index is the item's position in the list.
 *
 * Type dispatch is exact: items implement types.Tagged and only the rules
 * registered for that tag run. A tag with no rules leaves the item untouched;
 * there is no fallback to a parent type.
 *
 * Concurrency: register first, then edit. Adding rules while editing is a
 * data race.
 */

// Editor applies rules to one item at a given batch index.
type Editor interface {
	Edit(index int, item any) (any, error)
}

// EditAll runs e over items, using each item's position as its index.
// Stops at the first error.
func EditAll[T any](e Editor, items []T) error {
	for i, item := range items {
		if _, err := e.Edit(i, item); err != nil {
			return err
		}
	}
	return nil
}

// applyRules runs each rule against item in order.
func applyRules(log zerolog.Logger, ruleList []Rule, index int, item any) error {
	for _, r := range ruleList {
		applied, err := r.Apply(index, item)
		if err != nil {
			return err
		}
		if applied {
			log.Trace().
				Str("rule_id", string(r.ID())).
				Str("rule", r.name()).
				Int("index", index).
				Msg("Rule applied")
		}
	}
	return nil
}

// SimpleEditor applies the same rules to every item regardless of type.
type SimpleEditor struct {
	rules []Rule
}

// NewSimpleEditor returns an editor applying rules in the given order.
func NewSimpleEditor(rules ...Rule) *SimpleEditor {
	return &SimpleEditor{
		rules: append([]Rule(nil), rules...),
	}
}

// AddRule appends a rule.
func (e *SimpleEditor) AddRule(r Rule) *SimpleEditor {
	e.rules = append(e.rules, r)
	return e
}

// Rules returns a copy of the registered rules.
func (e *SimpleEditor) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Edit applies every applicable rule to item and returns it.
func (e *SimpleEditor) Edit(index int, item any) (any, error) {
	if err := applyRules(logging.GetLogger("rules"), e.rules, index, item); err != nil {
		return item, err
	}
	return item, nil
}

// EditList applies the rules across items with index = position.
func (e *SimpleEditor) EditList(items []any) ([]any, error) {
	return items, EditAll[any](e, items)
}

// MappedTypeEditor keeps a rule list per type tag.
type MappedTypeEditor struct {
	rules map[types.TypeRef][]Rule
}

// NewMappedTypeEditor returns an empty editor.
func NewMappedTypeEditor() *MappedTypeEditor {
	return &MappedTypeEditor{
		rules: make(map[types.TypeRef][]Rule),
	}
}

// AddRuleForType appends r to the rule list for tag.
func (e *MappedTypeEditor) AddRuleForType(tag types.TypeRef, r Rule) *MappedTypeEditor {
	e.rules[tag] = append(e.rules[tag], r)
	logger := logging.GetLogger("rules")
	logger.Debug().
		Str("type", string(tag)).
		Str("rule_id", string(r.ID())).
		Str("rule", r.String()).
		Msg("Rule registered")
	return e
}

// RulesFor returns a copy of the rules registered for tag.
func (e *MappedTypeEditor) RulesFor(tag types.TypeRef) []Rule {
	return append([]Rule(nil), e.rules[tag]...)
}

// Types returns the number of tags with at least one rule.
func (e *MappedTypeEditor) Types() int {
	return len(e.rules)
}

// Edit applies the rules registered for item's tag.
// Returns ErrUntaggedItem when item does not implement types.Tagged.
func (e *MappedTypeEditor) Edit(index int, item any) (any, error) {
	tagged, ok := item.(types.Tagged)
	if !ok {
		return item, fmt.Errorf("%w: %T at index %d", types.ErrUntaggedItem, item, index)
	}
	if err := applyRules(logging.GetLogger("rules"), e.rules[tagged.TypeTag()], index, item); err != nil {
		return item, err
	}
	return item, nil
}

// EditList applies rules across items with index = position.
func (e *MappedTypeEditor) EditList(items []any) ([]any, error) {
	return items, EditAll[any](e, items)
}
