package postgresengine_test

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	. "github.com/AntonStoeckl/dynamic-filter-repository-go/testutil/helper" //nolint:revive
)

func sqlmockResult(rowsAffected int64) driver.Result {
	return sqlmock.NewResult(0, rowsAffected)
}

func failingBeforeInsert() repository.Hooks[Customer] {
	return repository.Hooks[Customer]{
		BeforeInsert: func(_ context.Context, c Customer) (Customer, error) {
			return c, errors.New("rejected")
		},
	}
}
