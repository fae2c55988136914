// Package core contains the User entity of the example: a user account store
// queried through the dynamic-filter repository.
//
// It defines the entity, its schema and row mapping, and the lifecycle hooks that keep
// stored users consistent (normalized login and email, hashed passwords, generated ids).
package core
