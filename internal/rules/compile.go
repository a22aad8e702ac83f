// internal/rules/compile.go
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/solatis/dtogen/internal/condition"
	"github.com/solatis/dtogen/internal/edit"
	"github.com/solatis/dtogen/internal/propertyaccess"
	"github.com/solatis/dtogen/internal/types"
)

/*
 * Compilation of declarative rules.
 *
 * Turns a types.RuleSpec (decoded from a config file) into a Rule by driving
 * the builder, so a compiled rule is indistinguishable from one built in code.
 *
 * Compilation workflow:
 *   1. Validate every path up front (the builder panics on bad paths, Compile returns errors)
 *   2. Build edits in order; the first starts the builder, the rest are AndThen
 *   3. Fold where clauses: the first is the base, later ones use their join keyword
 *   4. Apply the label
 *
 * Errors name the offending value: an unknown edit op wraps ErrUnknownEdit,
 * an unknown condition op or join wraps ErrUnknownOperator, structural
 * problems (no edits, join on the first clause, every < 1) wrap
 * ErrInvalidArgument.
 */

// Compile builds a Rule from spec.
func Compile(spec types.RuleSpec) (Rule, error) {
	if len(spec.Edits) == 0 {
		return Rule{}, fmt.Errorf("%w: rule %q has no edits", types.ErrInvalidArgument, spec.Label)
	}

	edits := make([]edit.Edit, 0, len(spec.Edits))
	for i, es := range spec.Edits {
		e, err := compileEdit(es)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q edit %d: %w", spec.Label, i, err)
		}
		edits = append(edits, e)
	}

	stage := DoThis(edits[0])
	for _, e := range edits[1:] {
		stage = stage.AndThen(e)
	}

	if len(spec.Where) == 0 {
		if spec.Label != "" {
			// Label lives on the where stage; an ALWAYS base keeps semantics.
			return stage.Where(condition.Always()).SetLabel(spec.Label).Build(), nil
		}
		return stage.Build(), nil
	}

	var where WhereStage
	for i, cs := range spec.Where {
		c, err := compileCondition(cs)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q where %d: %w", spec.Label, i, err)
		}
		if i == 0 {
			if cs.Join != "" {
				return Rule{}, fmt.Errorf("%w: rule %q first where clause has join %q",
					types.ErrInvalidArgument, spec.Label, cs.Join)
			}
			where = stage.Where(c)
			continue
		}
		switch strings.ToLower(cs.Join) {
		case "and":
			where = where.And(c)
		case "or":
			where = where.Or(c)
		case "and_not":
			where = where.AndNot(c)
		case "or_not":
			where = where.OrNot(c)
		default:
			return Rule{}, fmt.Errorf("rule %q where %d: %w: join %q",
				spec.Label, i, types.ErrUnknownOperator, cs.Join)
		}
	}
	return where.SetLabel(spec.Label).Build(), nil
}

// CompileEditor compiles specs into a MappedTypeEditor keyed by each spec's Type.
func CompileEditor(specs []types.RuleSpec) (*MappedTypeEditor, error) {
	editor := NewMappedTypeEditor()
	for i, spec := range specs {
		if spec.Type == "" {
			return nil, fmt.Errorf("%w: rule %d (%q) has no type", types.ErrInvalidArgument, i, spec.Label)
		}
		r, err := Compile(spec)
		if err != nil {
			return nil, err
		}
		editor.AddRuleForType(types.TypeRef(spec.Type), r)
	}
	return editor, nil
}

func compileEdit(es types.EditSpec) (edit.Edit, error) {
	if _, err := propertyaccess.ParsePath(es.Path); err != nil {
		return nil, err
	}
	switch strings.ToLower(es.Op) {
	case "set":
		return edit.Set(es.Path, es.Value), nil
	case "increment":
		return edit.IncrementEach(es.Path).WithBase(es.Base), nil
	case "add":
		delta, ok := toFloat(es.Value)
		if !ok {
			return nil, fmt.Errorf("%w: add delta %v is not a number", types.ErrInvalidArgument, es.Value)
		}
		return edit.Add(es.Path, delta), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownEdit, es.Op)
	}
}

var valueOperators = map[string]condition.Operator{
	"value_eq":      condition.OpEq,
	"value_neq":     condition.OpNeq,
	"value_lt":      condition.OpLt,
	"value_lte":     condition.OpLte,
	"value_gt":      condition.OpGt,
	"value_gte":     condition.OpGte,
	"value_prefix":  condition.OpPrefix,
	"value_suffix":  condition.OpSuffix,
	"value_in":      condition.OpIn,
	"value_exists":  condition.OpExists,
	"value_is_null": condition.OpIsNull,
}

func compileCondition(cs types.ConditionSpec) (condition.Condition, error) {
	op := strings.ToLower(cs.Op)
	switch op {
	case "always":
		return condition.Always(), nil
	case "index_is":
		return condition.Index().Is(cs.Index), nil
	case "index_even":
		return condition.Index().IsEven(), nil
	case "index_odd":
		return condition.Index().IsOdd(), nil
	case "every":
		if cs.Index < 1 {
			return nil, fmt.Errorf("%w: every needs index >= 1, got %d", types.ErrInvalidArgument, cs.Index)
		}
		return condition.Every(cs.Index), nil
	case "between":
		return condition.Index().Between(cs.Index, cs.Upper), nil
	}

	vop, ok := valueOperators[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownOperator, cs.Op)
	}
	if _, err := propertyaccess.ParsePath(cs.Path); err != nil {
		return nil, err
	}
	ft, err := parseFieldType(cs.As)
	if err != nil {
		return nil, err
	}
	onMissing, err := parseOnMissing(cs.OnMissing)
	if err != nil {
		return nil, err
	}

	b := condition.ValueOf(cs.Path).As(ft).WhenMissing(onMissing)
	if vop == condition.OpIn {
		return b.In(cs.Values...), nil
	}
	return b.Compare(vop, cs.Value), nil
}

func parseFieldType(s string) (condition.FieldType, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return condition.FieldTypeAny, nil
	case "numeric":
		return condition.FieldTypeNumeric, nil
	case "text":
		return condition.FieldTypeText, nil
	case "boolean":
		return condition.FieldTypeBoolean, nil
	default:
		return 0, fmt.Errorf("%w: field type %q", types.ErrInvalidArgument, s)
	}
}

func parseOnMissing(s string) (condition.OnMissingField, error) {
	switch strings.ToLower(s) {
	case "", "skip":
		return condition.OnMissingSkip, nil
	case "match":
		return condition.OnMissingMatch, nil
	default:
		return 0, fmt.Errorf("%w: on_missing %q", types.ErrInvalidArgument, s)
	}
}

// toFloat accepts any numeric kind or a numeric string.
func toFloat(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	default:
		return 0, false
	}
}
