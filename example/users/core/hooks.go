package core

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
)

var (
	ErrEmptyLogin      = errors.New("login must not be empty")
	ErrEmptyPassword   = errors.New("password must not be empty")
	ErrInvalidLevel    = errors.New("unknown access level")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrHashingPassword = errors.New("hashing password failed")
)

var knownLevels = []string{LevelGuest, LevelUser, LevelAdmin}

// UserHooks returns the lifecycle hooks of the users repository.
func UserHooks() repository.Hooks[User] {
	return UserHooksWithCost(bcrypt.DefaultCost)
}

// UserHooksWithCost is like UserHooks with a custom bcrypt cost, tests use bcrypt.MinCost.
func UserHooksWithCost(cost int) repository.Hooks[User] {
	return repository.Hooks[User]{
		Consist: consist,
		BeforeInsert: func(_ context.Context, u User) (User, error) {
			if u.ID == uuid.Nil {
				u.ID = uuid.New()
			}

			return hashPassword(u, cost)
		},
		BeforeUpdate: func(_ context.Context, u User) (User, error) {
			return hashPassword(u, cost)
		},
	}
}

// consist normalizes login, email and level and rejects users that cannot be stored.
func consist(_ context.Context, u User) (User, error) {
	u.Login = strings.ToLower(strings.TrimSpace(u.Login))
	if u.Login == "" {
		return u, ErrEmptyLogin
	}

	u.Email.Address = strings.ToLower(strings.TrimSpace(u.Email.Address))
	if _, err := mail.ParseAddress(u.Email.Address); err != nil {
		return u, fmt.Errorf("%w: %q", ErrInvalidEmail, u.Email.Address)
	}

	if u.Level == "" {
		u.Level = LevelUser
	}

	if !slices.Contains(knownLevels, u.Level) {
		return u, fmt.Errorf("%w: %q", ErrInvalidLevel, u.Level)
	}

	if u.Password == "" {
		return u, ErrEmptyPassword
	}

	return u, nil
}

// hashPassword replaces a plain password with its bcrypt hash, hashes are kept as they are.
func hashPassword(u User, cost int) (User, error) {
	if isBcryptHash(u.Password) {
		return u, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
	if err != nil {
		return u, errors.Join(ErrHashingPassword, err)
	}

	u.Password = string(hash)

	return u, nil
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// CheckPassword reports whether plain matches the stored password hash of u.
func CheckPassword(u User, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
