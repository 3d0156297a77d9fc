// Package db persists users, posts and comments.
//
// Two backends implement Store: SQLite (the default, a single file) and
// PostgreSQL via pgx. Lookups that find nothing return an error wrapping
// types.ErrNotFound, and a second user with an existing email returns one
// wrapping types.ErrDuplicateEmail.
package db

import (
	"context"
	"time"

	"blog-platform/internal/config"

	"github.com/pkg/errors"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool, updatedAt time.Time) error
}

type PostStore interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	GetAllPosts(ctx context.Context) ([]*Post, error)
	// UpdatePost writes title, content and updated_at. Author is never written.
	UpdatePost(ctx context.Context, post *Post) error
	// DeletePost removes the post and its comments in one transaction.
	DeletePost(ctx context.Context, id string) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, id string) (*Comment, error)
	GetCommentsByPost(ctx context.Context, postID string) ([]*Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

type Store interface {
	UserStore
	PostStore
	CommentStore
	CreateTables(ctx context.Context) error
	Truncate(ctx context.Context) error
	Close() error
}

// Open connects to the configured backend and makes sure the schema exists.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var store Store
	var err error
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err = NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		store, err = NewSQLiteStore(ctx, cfg.DatabaseURL)
	default:
		return nil, errors.Errorf("unsupported driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.CreateTables(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
