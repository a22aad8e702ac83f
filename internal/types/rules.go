// internal/types/rules.go
package types

/*
 * Declarative rule descriptions.
 *
 * Provides RuleSpec, EditSpec and ConditionSpec used by internal/rules Compile
 * to build Rules from configuration files. These types are format agnostic:
 * mapstructure tags let viper decode them from yaml, toml or json.
 *
 * Key types:
 *   - RuleSpec: one rule, the dto type tag it applies to, edits and where clauses
 *   - EditSpec: one edit operation (set, increment, add)
 *   - ConditionSpec: one condition joined onto the running where clause
 *
 * The first ConditionSpec of a rule must not carry a Join keyword; every
 * following one must (and, or, and_not, or_not).
 */

// EditSpec describes a single edit.
type EditSpec struct {
	Op    string `mapstructure:"op"`    // set, increment, add
	Path  string `mapstructure:"path"`  // property path
	Value any    `mapstructure:"value"` // value for set, delta for add
	Base  string `mapstructure:"base"`  // prefix for increment
}

// ConditionSpec describes a single condition in a where clause.
type ConditionSpec struct {
	Join      string `mapstructure:"join"`       // and, or, and_not, or_not (empty for the first)
	Op        string `mapstructure:"op"`         // always, index_is, index_even, index_odd, every, between, value_eq, ...
	Index     int    `mapstructure:"index"`      // index_is, every (n), between (lower bound)
	Upper     int    `mapstructure:"upper"`      // between upper bound
	Path      string `mapstructure:"path"`       // property path for value_* operators
	Value     any    `mapstructure:"value"`      // comparison value
	Values    []any  `mapstructure:"values"`     // value_in
	As        string `mapstructure:"as"`         // numeric, text, boolean, any (default any)
	OnMissing string `mapstructure:"on_missing"` // skip (default) or match
}

// RuleSpec represents a complete declarative rule.
type RuleSpec struct {
	Label string          `mapstructure:"label"`
	Type  string          `mapstructure:"type"` // dto type tag the rule is registered for
	Edits []EditSpec      `mapstructure:"edits"`
	Where []ConditionSpec `mapstructure:"where"`
}
