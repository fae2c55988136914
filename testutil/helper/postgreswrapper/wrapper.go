package postgreswrapper

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository/postgresengine"
)

// Adapter type constants
const (
	TypeSQLDB = "sqldb"
	TypeSQLX  = "sqlx"
)

// MockableTypes are the adapter types that can run against sqlmock.
// pgxpool needs a real server and is covered by the config package.
var MockableTypes = []string{TypeSQLDB, TypeSQLX}

// Wrapper bundles a repository with the sqlmock expectations of its connection.
type Wrapper[T any] struct {
	AdapterType string
	Repository  *postgresengine.Repository[T]
	Mock        sqlmock.Sqlmock
}

// CreateMockWrapper creates a repository on a sqlmock connection using the given adapter type.
// Statements are matched literally, all expectations are verified when the test finishes.
func CreateMockWrapper[T any](
	t testing.TB,
	adapterType string,
	mapping repository.Mapping[T],
	opts ...postgresengine.Option,
) Wrapper[T] {

	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err, "error creating the mock database in test setup")

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close() // ignore error
	})

	var repo *postgresengine.Repository[T]

	switch strings.ToLower(adapterType) {
	case TypeSQLDB, "":
		repo, err = postgresengine.NewRepositoryFromSQLDB(db, mapping, opts...)

	case TypeSQLX:
		repo, err = postgresengine.NewRepositoryFromSQLX(sqlx.NewDb(db, "sqlmock"), mapping, opts...)

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type: %s", adapterType))
	}

	require.NoError(t, err, "error creating the repository in test setup")

	return Wrapper[T]{AdapterType: adapterType, Repository: repo, Mock: mock}
}

// AdapterTypesFromEnv returns the adapter types to test, ADAPTER_TYPE narrows them down to one.
func AdapterTypesFromEnv() []string {
	if adapterType := strings.ToLower(os.Getenv("ADAPTER_TYPE")); adapterType != "" {
		return []string{adapterType}
	}

	return MockableTypes
}
