package repository

import (
	"fmt"
	"strings"
)

const propertySeparator = ","

/***** FilterTerm *****/

// FilterTerm is one parsed (property, operator, value) unit of a predicate.
type FilterTerm struct {
	Property string
	Operator OperatorKind
	Value    any
}

// T builds a FilterTerm directly, for callers that do not want to go through the string syntax.
func T(property string, operator OperatorKind, value any) FilterTerm {
	return FilterTerm{Property: property, Operator: operator, Value: value}
}

// String renders the term in the property-list syntax, e.g. "age>=".
func (ft FilterTerm) String() string {
	return ft.Property + ft.Operator.Symbol()
}

/***** Predicate Parser *****/

// ParseFilter turns a comma-separated property list plus positional values into FilterTerms.
//
// Each token may embed one operator symbol, dotted paths are allowed:
//
//	ParseFilter("login=, age>=, email.address+", "alice", 30, "%@example.com")
//
// A token without a symbol means equality. Terms keep the order of the tokens,
// term i is paired with values[i]. A blank property list yields no terms.
func ParseFilter(propertyNames string, values ...any) ([]FilterTerm, error) {
	tokens := splitProperties(propertyNames)

	if len(tokens) != len(values) {
		return nil, fmt.Errorf(
			"%w: %d properties in %q but %d values supplied",
			ErrArityMismatch, len(tokens), propertyNames, len(values),
		)
	}

	terms := make([]FilterTerm, 0, len(tokens))

	for i, token := range tokens {
		operator := DetectOperator(token)
		property := strings.TrimSpace(strings.ReplaceAll(token, operator.Symbol(), ""))

		if property == "" {
			return nil, fmt.Errorf("%w: token %d (%q)", ErrEmptyPropertyName, i, token)
		}

		terms = append(terms, FilterTerm{
			Property: property,
			Operator: operator,
			Value:    values[i],
		})
	}

	return terms, nil
}

func splitProperties(propertyNames string) []string {
	if strings.TrimSpace(propertyNames) == "" {
		return nil
	}

	tokens := strings.Split(propertyNames, propertySeparator)
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	return tokens
}
