package postgresengine

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
)

const dialectPostgres = "postgres"

// selectQuery implements repository.QueryBuilder on top of a goqu select dataset.
type selectQuery struct {
	ds *goqu.SelectDataset
}

var _ repository.QueryBuilder[exp.Expression] = (*selectQuery)(nil)

func newSelectQuery(table string) *selectQuery {
	return &selectQuery{ds: goqu.Dialect(dialectPostgres).From(table)}
}

// buildSelectSQL assembles plan into a Postgres SELECT statement.
func buildSelectSQL(plan repository.QueryPlan) (sqlQueryString, error) {
	query := newSelectQuery(plan.Schema.Table())

	if err := repository.AssembleQuery[exp.Expression](plan, query); err != nil {
		return "", err
	}

	return query.ToSQL()
}

func (q *selectQuery) Equal(attr repository.Attribute, value any) exp.Expression {
	return goqu.C(attr.Column).Eq(value)
}

func (q *selectQuery) NotEqual(attr repository.Attribute, value any) exp.Expression {
	return goqu.C(attr.Column).Neq(value)
}

func (q *selectQuery) GreaterThan(attr repository.Attribute, value any) exp.Expression {
	return goqu.C(attr.Column).Gt(value)
}

func (q *selectQuery) GreaterOrEqual(attr repository.Attribute, value any) exp.Expression {
	return goqu.C(attr.Column).Gte(value)
}

func (q *selectQuery) LessThan(attr repository.Attribute, value any) exp.Expression {
	return goqu.C(attr.Column).Lt(value)
}

func (q *selectQuery) LessOrEqual(attr repository.Attribute, value any) exp.Expression {
	return goqu.C(attr.Column).Lte(value)
}

func (q *selectQuery) Like(attr repository.Attribute, pattern string) exp.Expression {
	return goqu.C(attr.Column).Like(pattern)
}

func (q *selectQuery) Select(attrs ...repository.Attribute) {
	columns := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		columns = append(columns, goqu.C(attr.Column))
	}

	q.ds = q.ds.Select(columns...)
}

// AddCondition adds condition to the WHERE clause, goqu combines multiple calls with AND.
func (q *selectQuery) AddCondition(condition exp.Expression) {
	q.ds = q.ds.Where(condition)
}

func (q *selectQuery) OrderByAscending(attr repository.Attribute) {
	q.ds = q.ds.OrderAppend(goqu.C(attr.Column).Asc())
}

func (q *selectQuery) SetOffset(n uint) {
	q.ds = q.ds.Offset(n)
}

func (q *selectQuery) SetLimit(n uint) {
	q.ds = q.ds.Limit(n)
}

func (q *selectQuery) ToSQL() (sqlQueryString, error) {
	sqlQuery, _, toSQLErr := q.ds.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func buildInsertSQL(schema repository.Schema, values map[string]any) (sqlQueryString, error) {
	returning := make([]any, 0, len(schema.Columns()))
	for _, column := range schema.Columns() {
		returning = append(returning, goqu.C(column))
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(schema.Table()).
		Rows(goqu.Record(values)).
		Returning(returning...)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func buildUpdateSQL(schema repository.Schema, id any, values map[string]any) (sqlQueryString, error) {
	idColumn := schema.ID().Column

	record := make(goqu.Record, len(values))
	for column, value := range values {
		if column == idColumn {
			continue
		}
		record[column] = value
	}

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(schema.Table()).
		Set(record).
		Where(goqu.C(idColumn).Eq(id))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func buildDeleteSQL(schema repository.Schema, id any) (sqlQueryString, error) {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(schema.Table()).
		Where(goqu.C(schema.ID().Column).Eq(id))

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(repository.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}
