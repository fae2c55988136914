package repository

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// OperatorKind identifies one of the comparison operators a FilterTerm can carry.
type OperatorKind int

const (
	Equal OperatorKind = iota
	NotEqual
	GreaterThan
	GreaterOrEqual
	LessThan
	LessOrEqual
	Like
)

/***** Operator Registry *****/

type valueRequirement int

const (
	anyValue valueRequirement = iota
	orderedValue
	textValue
)

type operatorSpec struct {
	name        string
	symbol      string
	requirement valueRequirement
}

// operatorRegistry is indexed by OperatorKind.
var operatorRegistry = [...]operatorSpec{
	Equal:          {name: "EQUAL", symbol: "=", requirement: anyValue},
	NotEqual:       {name: "NOT_EQUAL", symbol: "!=", requirement: anyValue},
	GreaterThan:    {name: "GREATER_THAN", symbol: ">", requirement: orderedValue},
	GreaterOrEqual: {name: "GREATER_OR_EQUAL", symbol: ">=", requirement: orderedValue},
	LessThan:       {name: "LESS_THAN", symbol: "<", requirement: orderedValue},
	LessOrEqual:    {name: "LESS_OR_EQUAL", symbol: "<=", requirement: orderedValue},
	Like:           {name: "LIKE", symbol: "+", requirement: textValue},
}

// detectionOrder lists multi-character symbols before their single-character prefixes.
// Equal must stay last: it is also the fallback for tokens without any symbol.
var detectionOrder = [...]OperatorKind{
	NotEqual,
	GreaterOrEqual,
	LessOrEqual,
	GreaterThan,
	LessThan,
	Like,
	Equal,
}

func (k OperatorKind) valid() bool {
	return k >= Equal && int(k) < len(operatorRegistry)
}

// Symbol returns the literal used to detect the operator in a property token.
func (k OperatorKind) Symbol() string {
	if !k.valid() {
		return ""
	}

	return operatorRegistry[k].symbol
}

// String provides a string representation of OperatorKind for logging and error messages.
func (k OperatorKind) String() string {
	if !k.valid() {
		return "UNKNOWN"
	}

	return operatorRegistry[k].name
}

// DetectOperator returns the operator whose symbol occurs in token, trying symbols in detection order.
func DetectOperator(token string) OperatorKind {
	for _, kind := range detectionOrder {
		if strings.Contains(token, operatorRegistry[kind].symbol) {
			return kind
		}
	}

	return Equal
}

/***** Conditions *****/

// ConditionBuilder is implemented by the store collaborator to produce store-native conditions of type C.
type ConditionBuilder[C any] interface {
	Equal(attr Attribute, value any) C
	NotEqual(attr Attribute, value any) C
	GreaterThan(attr Attribute, value any) C
	GreaterOrEqual(attr Attribute, value any) C
	LessThan(attr Attribute, value any) C
	LessOrEqual(attr Attribute, value any) C
	Like(attr Attribute, pattern string) C
}

// BuildCondition resolves the term's property against schema, validates its value and
// dispatches to the builder method matching the term's operator.
func BuildCondition[C any](builder ConditionBuilder[C], schema Schema, term FilterTerm) (C, error) {
	var empty C

	if !term.Operator.valid() {
		return empty, fmt.Errorf("%w: %d", ErrUnknownOperator, term.Operator)
	}

	if err := validateValue(term); err != nil {
		return empty, err
	}

	attr, err := ResolvePath(schema, term.Property)
	if err != nil {
		return empty, err
	}

	switch term.Operator {
	case NotEqual:
		return builder.NotEqual(attr, term.Value), nil
	case GreaterThan:
		return builder.GreaterThan(attr, dereference(term.Value)), nil
	case GreaterOrEqual:
		return builder.GreaterOrEqual(attr, dereference(term.Value)), nil
	case LessThan:
		return builder.LessThan(attr, dereference(term.Value)), nil
	case LessOrEqual:
		return builder.LessOrEqual(attr, dereference(term.Value)), nil
	case Like:
		pattern, _ := asText(term.Value)
		return builder.Like(attr, pattern), nil
	default:
		return builder.Equal(attr, term.Value), nil
	}
}

func validateValue(term FilterTerm) error {
	spec := operatorRegistry[term.Operator]

	switch spec.requirement {
	case orderedValue:
		if !isOrdered(term.Value) {
			return fmt.Errorf(
				"%w: the property %s must hold an ordered value to use %s (%s), got %T",
				ErrPredicateType, term.Property, spec.name, spec.symbol, term.Value,
			)
		}
	case textValue:
		if _, ok := asText(term.Value); !ok {
			return fmt.Errorf(
				"%w: the property %s must hold a string to use %s (%s), got %T",
				ErrPredicateType, term.Property, spec.name, spec.symbol, term.Value,
			)
		}
	}

	return nil
}

// isOrdered reports whether v has a total ordering the store can compare on.
// Named types and non-nil pointers are judged by their underlying kind.
func isOrdered(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case []byte, time.Time, time.Duration:
		return true
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil || dv == nil {
			return false
		}
		return isOrdered(dv)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	case reflect.Struct:
		_, isTime := rv.Interface().(time.Time)
		return isTime
	default:
		return false
	}
}

// dereference follows non-nil pointers to the value they point at.
func dereference(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return v
	}

	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	return rv.Interface()
}

// asText returns the text of a LIKE pattern. Any value whose underlying kind is string qualifies.
func asText(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.String {
		return "", false
	}

	return rv.String(), true
}
