package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	. "github.com/AntonStoeckl/dynamic-filter-repository-go/testutil/helper" //nolint:revive
)

func appendToName(suffix string, calls *[]string) repository.HookFunc[Customer] {
	return func(_ context.Context, c Customer) (Customer, error) {
		*calls = append(*calls, suffix)
		c.Name += suffix
		return c, nil
	}
}

func Test_Hooks_RunConsistBeforeInsertAndUpdateStages(t *testing.T) {
	// arrange
	var calls []string
	hooks := repository.Hooks[Customer]{
		Consist:      appendToName("-consist", &calls),
		BeforeInsert: appendToName("-insert", &calls),
		BeforeUpdate: appendToName("-update", &calls),
	}
	customer := FixtureCustomer(1, "alice", 30, "Berlin")

	// act
	inserted, insertErr := hooks.RunBeforeInsert(context.Background(), customer)
	updated, updateErr := hooks.RunBeforeUpdate(context.Background(), customer)

	// assert
	require.NoError(t, insertErr)
	require.NoError(t, updateErr)
	assert.Equal(t, "alice-consist-insert", inserted.Name)
	assert.Equal(t, "alice-consist-update", updated.Name)
	assert.Equal(t, []string{"-consist", "-insert", "-consist", "-update"}, calls)
}

func Test_Hooks_ZeroValueIsANoOp(t *testing.T) {
	// arrange
	hooks := repository.Hooks[Customer]{}
	customer := FixtureCustomer(1, "alice", 30, "Berlin")
	ctx := context.Background()
	runs := []func(context.Context, Customer) (Customer, error){
		hooks.RunBeforeInsert, hooks.RunAfterInsert,
		hooks.RunBeforeUpdate, hooks.RunAfterUpdate,
		hooks.RunBeforeDelete, hooks.RunAfterDelete,
	}

	for _, run := range runs {
		// act
		result, err := run(ctx, customer)

		// assert
		require.NoError(t, err)
		assert.Equal(t, customer, result)
	}
}

func Test_Hooks_ShouldFail_WhenAStageFails(t *testing.T) {
	// arrange
	var calls []string
	cause := errors.New("login is taken")
	hooks := repository.Hooks[Customer]{
		Consist: func(_ context.Context, c Customer) (Customer, error) {
			c.Name = strings.ToUpper(c.Name)
			return c, cause
		},
		BeforeInsert: appendToName("-insert", &calls),
	}

	// act
	result, err := hooks.RunBeforeInsert(context.Background(), FixtureCustomer(1, "alice", 30, "Berlin"))

	// assert
	assert.ErrorIs(t, err, repository.ErrHookFailed)
	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "consist")
	assert.Equal(t, Customer{}, result)
	assert.Empty(t, calls, "later stages must not run")
}

func Test_Hooks_ShouldFail_WhenAfterDeleteFails(t *testing.T) {
	// arrange
	cause := errors.New("audit log unavailable")
	hooks := repository.Hooks[Customer]{
		AfterDelete: func(_ context.Context, c Customer) (Customer, error) {
			return c, cause
		},
	}

	// act
	_, err := hooks.RunAfterDelete(context.Background(), FixtureCustomer(1, "alice", 30, "Berlin"))

	// assert
	assert.ErrorIs(t, err, repository.ErrHookFailed)
	assert.ErrorContains(t, err, "after_delete")
}
