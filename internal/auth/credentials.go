// Package auth owns user credentials and the tokens issued for them.
package auth

import (
	"context"
	"strings"

	"blog-platform/internal/db"
	"blog-platform/internal/types"
	"blog-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Credentials struct {
	users     db.UserStore
	cost      int
	clock     utils.Clock
	dummyHash []byte
}

// NewCredentials hashes with the given bcrypt cost, falling back to
// bcrypt.DefaultCost when it is out of range.
func NewCredentials(users db.UserStore, cost int, clock utils.Clock) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// compared against when the email is unknown, so that path costs the
	// same as a wrong password
	dummy, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	return &Credentials{users: users, cost: cost, clock: clock, dummyHash: dummy}
}

func (c *Credentials) Register(ctx context.Context, email, username, password string) (*db.User, error) {
	return c.create(ctx, email, username, password, false)
}

// CreateAdmin does not check who is asking; callers authorize first.
func (c *Credentials) CreateAdmin(ctx context.Context, email, username, password string) (*db.User, error) {
	return c.create(ctx, email, username, password, true)
}

// VerifyCredentials returns types.ErrInvalidCredentials for both an
// unknown email and a wrong password.
func (c *Credentials) VerifyCredentials(ctx context.Context, email, password string) (*db.User, error) {
	user, err := c.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, types.ErrNotFound) {
		passwordMatches(c.dummyHash, password)
		return nil, types.ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	ok, err := passwordMatches(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, types.ErrInvalidCredentials
	}
	return user, nil
}

func (c *Credentials) Profile(ctx context.Context, id string) (*db.User, error) {
	return c.users.GetUserByID(ctx, id)
}

func (c *Credentials) create(ctx context.Context, email, username, password string, isAdmin bool) (*db.User, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)
	switch {
	case email == "":
		return nil, types.NewValidationError("email", "is required")
	case username == "":
		return nil, types.NewValidationError("username", "is required")
	case password == "":
		return nil, types.NewValidationError("password", "is required")
	}

	if _, err := c.users.GetUserByEmail(ctx, email); err == nil {
		return nil, errors.Wrapf(types.ErrDuplicateEmail, "email=%q", email)
	} else if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, types.NewValidationError("password", "must be at most 72 bytes")
	} else if err != nil {
		return nil, errors.Wrap(err, "hashing password failed")
	}

	now := c.clock.NowUtc()
	user := &db.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func passwordMatches(hash []byte, input string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(input))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			//invalid password
			return false, nil
		default:
			//unknown error
			return false, errors.Wrap(err, "comparing password hash failed")
		}
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetRole grants or revokes admin rights for the user with the given email.
// Tokens already issued keep the role they were issued with.
func (c *Credentials) SetRole(ctx context.Context, email string, isAdmin bool) (*db.User, error) {
	user, err := c.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	now := c.clock.NowUtc()
	if err := c.users.SetAdmin(ctx, user.ID, isAdmin, now); err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	user.UpdatedAt = now
	return user, nil
}
