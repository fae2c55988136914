package postgresengine_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository/postgresengine"
	. "github.com/AntonStoeckl/dynamic-filter-repository-go/testutil/helper" //nolint:revive
)

func Test_FactoryFunctions_NewRepository_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func() (*postgresengine.Repository[Customer], error)
	}{
		{
			name: "NewRepositoryFromPGXPool with nil",
			factoryFunc: func() (*postgresengine.Repository[Customer], error) {
				return postgresengine.NewRepositoryFromPGXPool(nil, CustomerMapping())
			},
		},
		{
			name: "NewRepositoryFromPGXPoolWithReplica with nil",
			factoryFunc: func() (*postgresengine.Repository[Customer], error) {
				return postgresengine.NewRepositoryFromPGXPoolWithReplica(nil, nil, CustomerMapping())
			},
		},
		{
			name: "NewRepositoryFromSQLDB with nil",
			factoryFunc: func() (*postgresengine.Repository[Customer], error) {
				return postgresengine.NewRepositoryFromSQLDB(nil, CustomerMapping())
			},
		},
		{
			name: "NewRepositoryFromSQLX with nil",
			factoryFunc: func() (*postgresengine.Repository[Customer], error) {
				return postgresengine.NewRepositoryFromSQLX(nil, CustomerMapping())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc()

			// assert
			assert.ErrorIs(t, err, repository.ErrNilDatabaseConnection)
		})
	}
}

func Test_FactoryFunctions_NewRepository_ShouldFail_WithInvalidMapping(t *testing.T) {
	// setup
	db, _ := GivenMockDB(t)
	mapping := CustomerMapping()
	mapping.Values = nil

	// act
	_, err := postgresengine.NewRepositoryFromSQLDB(db, mapping)

	// assert
	assert.ErrorIs(t, err, repository.ErrInvalidMapping)
}

func Test_FactoryFunctions_NewRepository_ShouldFail_WithHooksOfAnotherEntityType(t *testing.T) {
	// setup
	db, _ := GivenMockDB(t)
	hooks := repository.Hooks[Address]{}

	// act
	_, err := postgresengine.NewRepositoryFromSQLDB(db, CustomerMapping(), postgresengine.WithHooks(hooks))

	// assert
	assert.ErrorIs(t, err, repository.ErrHooksTypeMismatch)
}

func Test_FactoryFunctions_NewRepositoryFromSQLX_WorksWithSQLMock(t *testing.T) {
	// setup
	db, mock := GivenMockDB(t)
	repo, err := postgresengine.NewRepositoryFromSQLX(sqlx.NewDb(db, "sqlmock"), CustomerMapping())
	require.NoError(t, err)

	// arrange
	mock.ExpectQuery(customerSelection + ` LIMIT 1`).WillReturnRows(CustomerRows())

	// act
	customers, err := repo.List(t.Context(), 0, 1, "")

	// assert
	require.NoError(t, err)
	assert.Empty(t, customers)
}
