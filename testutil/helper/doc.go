// Package helper provides test doubles and fixtures for repository tests.
//
// The spies capture what a Repository reports through its observability collaborators,
// the fixtures describe a small customer entity with an embedded address.
package helper
