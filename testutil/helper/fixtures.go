package helper

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
)

// Address is embedded in Customer and stored in the customers table.
type Address struct {
	Street string
	City   string
}

// Customer is the fixture entity of the repository tests.
type Customer struct {
	ID      int64
	Name    string
	Age     int
	Address Address
}

// CustomerColumns lists the customers columns in schema order.
var CustomerColumns = []string{"id", "name", "age", "street", "city"}

// CustomerSchema describes Customer with its embedded Address.
var CustomerSchema = repository.MustSchema(
	"Customer",
	"customers",
	"id",
	repository.NewField("id"),
	repository.NewField("name"),
	repository.NewField("age"),
	repository.NewEmbedded("address",
		repository.NewField("street"),
		repository.NewField("city"),
	),
)

// CustomerMapping maps Customer to and from rows of CustomerSchema.
func CustomerMapping() repository.Mapping[Customer] {
	return repository.Mapping[Customer]{
		Schema: CustomerSchema,
		ScanTargets: func(c *Customer) []any {
			return []any{&c.ID, &c.Name, &c.Age, &c.Address.Street, &c.Address.City}
		},
		Values: func(c Customer) map[string]any {
			values := map[string]any{
				"name":   c.Name,
				"age":    c.Age,
				"street": c.Address.Street,
				"city":   c.Address.City,
			}

			if c.ID != 0 {
				values["id"] = c.ID
			}

			return values
		},
		ID: func(c Customer) any {
			return c.ID
		},
	}
}

// FixtureCustomer returns a Customer living in the given city.
func FixtureCustomer(id int64, name string, age int, city string) Customer {
	return Customer{
		ID:      id,
		Name:    name,
		Age:     age,
		Address: Address{Street: "Main Street 1", City: city},
	}
}

// CustomerRows builds sqlmock rows for the given customers.
func CustomerRows(customers ...Customer) *sqlmock.Rows {
	rows := sqlmock.NewRows(CustomerColumns)
	for _, c := range customers {
		rows.AddRow(c.ID, c.Name, c.Age, c.Address.Street, c.Address.City)
	}

	return rows
}

// ValueRows builds single-column sqlmock rows.
func ValueRows(column string, values ...driver.Value) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{column})
	for _, v := range values {
		rows.AddRow(v)
	}

	return rows
}

// GivenMockDB opens a sqlmock database that matches statements literally and
// verifies all expectations when the test finishes.
func GivenMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return db, mock
}

// GivenRegexMockDB opens a sqlmock database that matches statements by regular expression.
func GivenRegexMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return db, mock
}
