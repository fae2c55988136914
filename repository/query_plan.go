package repository

// SingleResultLimit is the limit used by single-result lookups. Two rows are enough to tell
// "no match" from "exactly one" from "ambiguous" without scanning the whole table.
const SingleResultLimit = 2

/***** PaginationWindow *****/

// PaginationWindow bounds a read. A value <= 0 on either side means unbounded on that side.
type PaginationWindow struct {
	Offset int
	Limit  int
}

// HasOffset reports whether rows must be skipped.
func (w PaginationWindow) HasOffset() bool {
	return w.Offset > 0
}

// HasLimit reports whether the number of rows is capped.
func (w PaginationWindow) HasLimit() bool {
	return w.Limit > 0
}

/***** QueryPlan *****/

// QueryPlan is the assembled, not-yet-executed description of a filtered, sorted, paginated read.
// Its filters are combined with AND only.
type QueryPlan struct {
	Schema     Schema
	Filters    []FilterTerm
	SortKey    string // empty means store default order
	Window     PaginationWindow
	Projection string // empty selects the whole entity
}

// BuildPlan composes a plan selecting whole entities.
func BuildPlan(schema Schema, filters []FilterTerm, sortKey string, offset int, limit int) QueryPlan {
	return QueryPlan{
		Schema:  schema,
		Filters: filters,
		SortKey: sortKey,
		Window:  PaginationWindow{Offset: offset, Limit: limit},
	}
}

// BuildProjectionPlan composes a plan selecting the single targetField instead of the whole entity.
func BuildProjectionPlan(
	schema Schema,
	targetField string,
	filters []FilterTerm,
	sortKey string,
	offset int,
	limit int,
) QueryPlan {

	plan := BuildPlan(schema, filters, sortKey, offset, limit)
	plan.Projection = targetField

	return plan
}

// IsProjection reports whether the plan selects a single field.
func (p QueryPlan) IsProjection() bool {
	return p.Projection != ""
}

/***** Query Assembler *****/

// QueryBuilder is the query-construction surface of the store collaborator.
// Conditions added through AddCondition are combined with AND.
type QueryBuilder[C any] interface {
	ConditionBuilder[C]
	Select(attrs ...Attribute)
	AddCondition(condition C)
	OrderByAscending(attr Attribute)
	SetOffset(n uint)
	SetLimit(n uint)
}

// AssembleQuery drives query through the plan: selection, one condition per filter,
// ascending sort and pagination bounds. It fails before touching query's ordering
// or bounds if any filter, the sort key, or the projection does not resolve.
func AssembleQuery[C any](plan QueryPlan, query QueryBuilder[C]) error {
	selection, err := selectAttributes(plan)
	if err != nil {
		return err
	}

	conditions := make([]C, 0, len(plan.Filters))
	for _, term := range plan.Filters {
		condition, buildErr := BuildCondition[C](query, plan.Schema, term)
		if buildErr != nil {
			return buildErr
		}

		conditions = append(conditions, condition)
	}

	var sortAttr Attribute
	if plan.SortKey != "" {
		if sortAttr, err = ResolvePath(plan.Schema, plan.SortKey); err != nil {
			return err
		}
	}

	query.Select(selection...)

	for _, condition := range conditions {
		query.AddCondition(condition)
	}

	if plan.SortKey != "" {
		query.OrderByAscending(sortAttr)
	}

	if plan.Window.HasOffset() {
		query.SetOffset(uint(plan.Window.Offset))
	}

	if plan.Window.HasLimit() {
		query.SetLimit(uint(plan.Window.Limit))
	}

	return nil
}

func selectAttributes(plan QueryPlan) ([]Attribute, error) {
	if plan.IsProjection() {
		attr, err := ResolvePath(plan.Schema, plan.Projection)
		if err != nil {
			return nil, err
		}

		return []Attribute{attr}, nil
	}

	return plan.Schema.Attributes(), nil
}
