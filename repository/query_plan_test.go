package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	. "github.com/AntonStoeckl/dynamic-filter-repository-go/testutil/helper" //nolint:revive
)

func Test_PaginationWindow_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		window    repository.PaginationWindow
		hasOffset bool
		hasLimit  bool
	}{
		{name: "unbounded", window: repository.PaginationWindow{}, hasOffset: false, hasLimit: false},
		{name: "negative_is_unbounded", window: repository.PaginationWindow{Offset: -1, Limit: -5}, hasOffset: false, hasLimit: false},
		{name: "bounded", window: repository.PaginationWindow{Offset: 10, Limit: 5}, hasOffset: true, hasLimit: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.hasOffset, tc.window.HasOffset())
			assert.Equal(t, tc.hasLimit, tc.window.HasLimit())
		})
	}
}

func Test_AssembleQuery_DrivesTheBuilderThroughThePlan(t *testing.T) {
	// arrange
	terms, err := repository.ParseFilter("name, age>=", "alice", 30)
	require.NoError(t, err)
	plan := repository.BuildPlan(CustomerSchema, terms, "address.city", 10, 5)
	recorder := &conditionRecorder{}

	// act
	err = repository.AssembleQuery[string](plan, recorder)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		"select [id name age street city]",
		"where name=alice",
		"where age>=30",
		"order city",
		"offset 10",
		"limit 5",
	}, recorder.calls)
}

func Test_AssembleQuery_UnboundedPlanAddsNoOrderingOrBounds(t *testing.T) {
	// arrange
	plan := repository.BuildPlan(CustomerSchema, nil, "", 0, 0)
	recorder := &conditionRecorder{}

	// act
	err := repository.AssembleQuery[string](plan, recorder)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"select [id name age street city]"}, recorder.calls)
}

func Test_AssembleQuery_ProjectionSelectsTheTargetField(t *testing.T) {
	// arrange
	plan := repository.BuildProjectionPlan(
		CustomerSchema,
		"address.city",
		[]repository.FilterTerm{repository.T("age", repository.LessThan, 18)},
		"",
		0,
		repository.SingleResultLimit,
	)
	recorder := &conditionRecorder{}

	// act
	err := repository.AssembleQuery[string](plan, recorder)

	// assert
	require.NoError(t, err)
	assert.True(t, plan.IsProjection())
	assert.Equal(t, []string{"select [city]", "where age<18", "limit 2"}, recorder.calls)
}

func Test_AssembleQuery_ShouldFail_BeforeTouchingTheBuilder(t *testing.T) {
	tests := []struct {
		name        string
		plan        repository.QueryPlan
		expectedErr error
	}{
		{
			name:        "unknown_sort_key",
			plan:        repository.BuildPlan(CustomerSchema, nil, "address.zip", 0, 10),
			expectedErr: repository.ErrUnknownProperty,
		},
		{
			name: "unknown_filter_property",
			plan: repository.BuildPlan(
				CustomerSchema,
				[]repository.FilterTerm{repository.T("nickname", repository.Equal, "al")},
				"name", 0, 10,
			),
			expectedErr: repository.ErrUnknownProperty,
		},
		{
			name: "predicate_type_mismatch",
			plan: repository.BuildPlan(
				CustomerSchema,
				[]repository.FilterTerm{repository.T("age", repository.GreaterThan, map[string]int{})},
				"", 0, 0,
			),
			expectedErr: repository.ErrPredicateType,
		},
		{
			name:        "unknown_projection",
			plan:        repository.BuildProjectionPlan(CustomerSchema, "address", nil, "", 0, 0),
			expectedErr: repository.ErrUnknownProperty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			recorder := &conditionRecorder{}

			// act
			err := repository.AssembleQuery[string](tc.plan, recorder)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Empty(t, recorder.calls)
		})
	}
}
