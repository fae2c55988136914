package postgresengine_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	. "github.com/AntonStoeckl/dynamic-filter-repository-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/dynamic-filter-repository-go/testutil/helper/postgreswrapper"
)

func Test_Repository_BehavesTheSame_OnEveryAdapter(t *testing.T) {
	for _, adapterType := range postgreswrapper.AdapterTypesFromEnv() {
		t.Run(adapterType, func(t *testing.T) {
			t.Run("find by properties", func(t *testing.T) {
				// setup
				wrapper := postgreswrapper.CreateMockWrapper(t, adapterType, CustomerMapping())

				// arrange
				wrapper.Mock.ExpectQuery(customerSelection + ` WHERE (("city" = 'Berlin') AND ("age" >= 30)) ORDER BY "name" ASC`).
					WillReturnRows(CustomerRows(FixtureCustomer(1, "alice", 31, "Berlin"), FixtureCustomer(2, "bob", 40, "Berlin")))

				// act
				customers, err := wrapper.Repository.FindByProperties(context.Background(), 0, 0, "name", "address.city, age>=", "Berlin", 30)

				// assert
				require.NoError(t, err)
				assert.Len(t, customers, 2)
				assert.Equal(t, "bob", customers[1].Name)
			})

			t.Run("find by id", func(t *testing.T) {
				// setup
				wrapper := postgreswrapper.CreateMockWrapper(t, adapterType, CustomerMapping())

				// arrange
				wrapper.Mock.ExpectQuery(customerSelection + ` WHERE ("id" = 1) LIMIT 1`).
					WillReturnRows(CustomerRows(FixtureCustomer(1, "alice", 31, "Berlin")))

				// act
				customer, found, err := wrapper.Repository.FindByID(context.Background(), 1)

				// assert
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, "Main Street 1", customer.Address.Street)
			})

			t.Run("delete of a missing row", func(t *testing.T) {
				// setup
				wrapper := postgreswrapper.CreateMockWrapper(t, adapterType, CustomerMapping())

				// arrange
				wrapper.Mock.ExpectExec(`DELETE FROM "customers" WHERE ("id" = 9)`).
					WillReturnResult(sqlmock.NewResult(0, 0))

				// act
				_, err := wrapper.Repository.Delete(context.Background(), FixtureCustomer(9, "nobody", 1, "Berlin"))

				// assert
				assert.ErrorIs(t, err, repository.ErrEntityNotFound)
			})
		})
	}
}
