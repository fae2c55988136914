package core

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
)

// Access levels of a User.
const (
	LevelGuest = "guest"
	LevelUser  = "user"
	LevelAdmin = "admin"
)

// Email is embedded in User and stored in the users table.
type Email struct {
	Address string `json:"address"`
}

// User is a user account.
type User struct {
	ID       uuid.UUID `json:"id"`
	Login    string    `json:"login"`
	Password string    `json:"-"` // bcrypt hash once stored
	Level    string    `json:"level"`
	Email    Email     `json:"email"`
}

// UserSchema describes how User is stored:
//
//	CREATE TABLE users (
//	    id            UUID PRIMARY KEY,
//	    login         TEXT NOT NULL UNIQUE,
//	    password_hash TEXT NOT NULL,
//	    level         TEXT NOT NULL,
//	    email         TEXT NOT NULL
//	);
var UserSchema = repository.MustSchema(
	"User",
	"users",
	"id",
	repository.NewField("id"),
	repository.NewField("login"),
	repository.NewColumnField("password", "password_hash"),
	repository.NewField("level"),
	repository.NewEmbedded("email",
		repository.NewColumnField("address", "email"),
	),
)

// UserMapping maps User to and from rows of UserSchema.
func UserMapping() repository.Mapping[User] {
	return repository.Mapping[User]{
		Schema: UserSchema,
		ScanTargets: func(u *User) []any {
			return []any{&u.ID, &u.Login, &u.Password, &u.Level, &u.Email.Address}
		},
		Values: func(u User) map[string]any {
			return map[string]any{
				"id":            u.ID,
				"login":         u.Login,
				"password_hash": u.Password,
				"level":         u.Level,
				"email":         u.Email.Address,
			}
		},
		ID: func(u User) any {
			return u.ID
		},
	}
}
