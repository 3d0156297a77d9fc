package db

import (
	"context"
	"time"

	"blog-platform/internal/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL,
    password_hash BYTEA NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
    id UUID PRIMARY KEY,
    author_id UUID NOT NULL REFERENCES users(id),
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS comments (
    id UUID PRIMARY KEY,
    post_id UUID NOT NULL,
    author_id UUID NOT NULL REFERENCES users(id),
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comments_on_post_id ON comments(post_id);
`

const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"

	pgUserColumns = `id::text, email, username, password_hash, is_admin, created_at, updated_at`
	pgPostSelect  = `
		SELECT p.id::text, p.author_id::text, u.username, u.email, p.title, p.content, p.created_at, p.updated_at
		FROM posts p JOIN users u ON u.id = p.author_id`
	pgCommentSelect = `
		SELECT c.id::text, c.post_id::text, c.author_id::text, u.username, u.email, c.content, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id`
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = &PostgresStore{}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, errors.Wrap(err, "creating connection pool failed")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "pinging database failed")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) CreateTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresSchema)
	return errors.Wrap(err, "creating postgres tables failed")
}

// Truncate empties every table. Used by the migrate command's --reset flag and tests.
func (s *PostgresStore) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE comments, posts, users`)
	return errors.Wrap(err, "truncating tables failed")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// --- Users ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, username, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Username, user.PasswordHash, user.IsAdmin, user.CreatedAt, user.UpdatedAt)
	if pgCode(err) == pgUniqueViolation {
		return errors.Wrapf(types.ErrDuplicateEmail, "email=%q", user.Email)
	}
	return errors.Wrap(err, "inserting user failed")
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+pgUserColumns+` FROM users WHERE id = $1`, id)
	return scanPgUser(row, "user "+id)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+pgUserColumns+` FROM users WHERE email = $1`, email)
	return scanPgUser(row, "user with email "+email)
}

func (s *PostgresStore) SetAdmin(ctx context.Context, id string, isAdmin bool, updatedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET is_admin = $1, updated_at = $2 WHERE id = $3`, isAdmin, updatedAt, id)
	return pgAffectedOne(tag, err, "user "+id)
}

func scanPgUser(row pgx.Row, what string) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, pgLoadError(err, what)
	}
	return &user, nil
}

// --- Posts ---

func (s *PostgresStore) CreatePost(ctx context.Context, post *Post) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO posts (id, author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID, post.AuthorID, post.Title, post.Content, post.CreatedAt, post.UpdatedAt)
	return errors.Wrap(err, "inserting post failed")
}

func (s *PostgresStore) GetPost(ctx context.Context, id string) (*Post, error) {
	var post Post
	row := s.pool.QueryRow(ctx, pgPostSelect+` WHERE p.id = $1`, id)
	err := row.Scan(&post.ID, &post.AuthorID, &post.Author.Username, &post.Author.Email,
		&post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, pgLoadError(err, "post "+id)
	}
	post.Author.ID = post.AuthorID
	return &post, nil
}

func (s *PostgresStore) GetAllPosts(ctx context.Context) ([]*Post, error) {
	rows, err := s.pool.Query(ctx, pgPostSelect+` ORDER BY p.created_at DESC, p.id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing posts failed")
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.Author.Username, &post.Author.Email,
			&post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning post failed")
		}
		post.Author.ID = post.AuthorID
		posts = append(posts, &post)
	}
	return posts, errors.Wrap(rows.Err(), "listing posts failed")
}

func (s *PostgresStore) UpdatePost(ctx context.Context, post *Post) error {
	tag, err := s.pool.Exec(ctx, `UPDATE posts SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		post.Title, post.Content, post.UpdatedAt, post.ID)
	return pgAffectedOne(tag, err, "post "+post.ID)
}

func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "starting transaction failed")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		return pgLoadError(err, "comments of post "+id)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err := pgAffectedOne(tag, err, "post "+id); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "committing post delete failed")
}

// --- Comments ---

func (s *PostgresStore) CreateComment(ctx context.Context, comment *Comment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt)
	return errors.Wrap(err, "inserting comment failed")
}

func (s *PostgresStore) GetComment(ctx context.Context, id string) (*Comment, error) {
	var c Comment
	row := s.pool.QueryRow(ctx, pgCommentSelect+` WHERE c.id = $1`, id)
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author.Username, &c.Author.Email, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, pgLoadError(err, "comment "+id)
	}
	c.Author.ID = c.AuthorID
	return &c, nil
}

func (s *PostgresStore) GetCommentsByPost(ctx context.Context, postID string) ([]*Comment, error) {
	comments := []*Comment{}
	if _, err := uuid.Parse(postID); err != nil {
		return comments, nil
	}

	rows, err := s.pool.Query(ctx, pgCommentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, errors.Wrap(err, "listing comments failed")
	}
	defer rows.Close()

	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author.Username, &c.Author.Email, &c.Content, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning comment failed")
		}
		c.Author.ID = c.AuthorID
		comments = append(comments, &c)
	}
	return comments, errors.Wrap(rows.Err(), "listing comments failed")
}

func (s *PostgresStore) DeleteComment(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return pgAffectedOne(tag, err, "comment "+id)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// pgLoadError maps a missing row, or an id that is not a UUID, to ErrNotFound.
func pgLoadError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == pgInvalidText {
		return errors.Wrap(types.ErrNotFound, what)
	}
	return errors.Wrapf(err, "loading %s failed", what)
}

func pgAffectedOne(tag pgconn.CommandTag, err error, what string) error {
	if err != nil {
		return pgLoadError(err, what)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(types.ErrNotFound, what)
	}
	return nil
}
