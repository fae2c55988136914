package postgresengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	. "github.com/AntonStoeckl/dynamic-filter-repository-go/testutil/helper" //nolint:revive
)

const customerSelection = `SELECT "id", "name", "age", "street", "city" FROM "customers"`

func Test_BuildSelectSQL(t *testing.T) {
	tests := []struct {
		name     string
		plan     repository.QueryPlan
		expected string
	}{
		{
			name:     "whole_table",
			plan:     repository.BuildPlan(CustomerSchema, nil, "", 0, 0),
			expected: customerSelection,
		},
		{
			name: "single_condition_with_single_result_limit",
			plan: repository.BuildPlan(
				CustomerSchema,
				[]repository.FilterTerm{repository.T("name", repository.Equal, "alice")},
				"", 0, repository.SingleResultLimit,
			),
			expected: customerSelection + ` WHERE ("name" = 'alice') LIMIT 2`,
		},
		{
			name: "conditions_are_combined_with_and",
			plan: repository.BuildPlan(
				CustomerSchema,
				[]repository.FilterTerm{
					repository.T("name", repository.Equal, "alice"),
					repository.T("age", repository.GreaterOrEqual, 30),
				},
				"", 0, 0,
			),
			expected: customerSelection + ` WHERE (("name" = 'alice') AND ("age" >= 30))`,
		},
		{
			name:     "sorted_and_paginated",
			plan:     repository.BuildPlan(CustomerSchema, nil, "name", 10, 5),
			expected: customerSelection + ` ORDER BY "name" ASC LIMIT 5 OFFSET 10`,
		},
		{
			name: "embedded_property_uses_its_column",
			plan: repository.BuildPlan(
				CustomerSchema,
				[]repository.FilterTerm{repository.T("address.city", repository.NotEqual, "Berlin")},
				"address.city", 0, 0,
			),
			expected: customerSelection + ` WHERE ("city" != 'Berlin') ORDER BY "city" ASC`,
		},
		{
			name: "less_or_equal_is_inclusive",
			plan: repository.BuildPlan(
				CustomerSchema,
				[]repository.FilterTerm{repository.T("age", repository.LessOrEqual, 65)},
				"", 0, 0,
			),
			expected: customerSelection + ` WHERE ("age" <= 65)`,
		},
		{
			name: "like",
			plan: repository.BuildPlan(
				CustomerSchema,
				[]repository.FilterTerm{repository.T("name", repository.Like, "al%")},
				"", 0, 0,
			),
			expected: customerSelection + ` WHERE ("name" LIKE 'al%')`,
		},
		{
			name: "equal_nil_means_is_null",
			plan: repository.BuildPlan(
				CustomerSchema,
				[]repository.FilterTerm{repository.T("address.street", repository.Equal, nil)},
				"", 0, 0,
			),
			expected: customerSelection + ` WHERE ("street" IS NULL)`,
		},
		{
			name: "projection",
			plan: repository.BuildProjectionPlan(
				CustomerSchema,
				"address.city",
				[]repository.FilterTerm{repository.T("age", repository.GreaterThan, 17)},
				"", 0, 0,
			),
			expected: `SELECT "city" FROM "customers" WHERE ("age" > 17)`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			sqlQuery, err := buildSelectSQL(tc.plan)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sqlQuery)
		})
	}
}

func Test_BuildSelectSQL_ShouldFail_WithUnresolvablePlan(t *testing.T) {
	// arrange
	plan := repository.BuildPlan(CustomerSchema, nil, "address", 0, 0)

	// act
	_, err := buildSelectSQL(plan)

	// assert
	assert.ErrorIs(t, err, repository.ErrUnknownProperty)
}

func Test_BuildInsertSQL_ReturnsAllColumns(t *testing.T) {
	// arrange
	values := CustomerMapping().Values(FixtureCustomer(0, "alice", 30, "Berlin"))

	// act
	sqlQuery, err := buildInsertSQL(CustomerSchema, values)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "customers"`)
	assert.Contains(t, sqlQuery, `("age", "city", "name", "street") VALUES (30, 'Berlin', 'alice', 'Main Street 1')`)
	assert.Contains(t, sqlQuery, `RETURNING "id", "name", "age", "street", "city"`)
}

func Test_BuildUpdateSQL_SetsEverythingButTheID(t *testing.T) {
	// arrange
	customer := FixtureCustomer(7, "alice", 31, "Berlin")

	// act
	sqlQuery, err := buildUpdateSQL(CustomerSchema, customer.ID, CustomerMapping().Values(customer))

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `UPDATE "customers" SET `)
	assert.Contains(t, sqlQuery, `"age"=31`)
	assert.NotContains(t, sqlQuery, `"id"=7`)
	assert.Contains(t, sqlQuery, `WHERE ("id" = 7)`)
}

func Test_BuildDeleteSQL(t *testing.T) {
	// act
	sqlQuery, err := buildDeleteSQL(CustomerSchema, int64(7))

	// assert
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "customers" WHERE ("id" = 7)`, sqlQuery)
}
