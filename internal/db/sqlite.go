package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"blog-platform/internal/types"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users(
	id TEXT NOT NULL PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	username VARCHAR(255) NOT NULL,
	password_hash BLOB NOT NULL,
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS posts(
	id TEXT NOT NULL PRIMARY KEY,
	author_id TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	FOREIGN KEY(author_id) REFERENCES users(id)
);
CREATE TABLE IF NOT EXISTS comments(
	id TEXT NOT NULL PRIMARY KEY,
	post_id TEXT NOT NULL,
	author_id TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	FOREIGN KEY(author_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);
`

const (
	sqliteUserColumns = `id, email, username, password_hash, is_admin, created_at, updated_at`
	sqlitePostSelect  = `
		SELECT p.id, p.author_id, u.username, u.email, p.title, p.content, p.created_at, p.updated_at
		FROM posts p JOIN users u ON u.id = p.author_id`
	sqliteCommentSelect = `
		SELECT c.id, c.post_id, c.author_id, u.username, u.email, c.content, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id`
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = &SQLiteStore{}

// NewSQLiteStore opens the database file at path. ":memory:" gives a
// private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	memory := path == ":memory:"
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite database failed, path=%q", path)
	}
	if memory {
		// every new connection to :memory: would be a fresh, empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "pinging sqlite database failed")
	}
	return &SQLiteStore{db: db}, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

func (s *SQLiteStore) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)
	return errors.Wrap(err, "creating sqlite tables failed")
}

func (s *SQLiteStore) Truncate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments; DELETE FROM posts; DELETE FROM users;`)
	return errors.Wrap(err, "truncating tables failed")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Users ---

func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+sqliteUserColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Username, user.PasswordHash, user.IsAdmin, user.CreatedAt, user.UpdatedAt)
	if isSQLiteUniqueViolation(err) {
		return errors.Wrapf(types.ErrDuplicateEmail, "email=%q", user.Email)
	}
	return errors.Wrap(err, "inserting user failed")
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteUserColumns+` FROM users WHERE id = ?`, id)
	return scanSQLiteUser(row, "user "+id)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteUserColumns+` FROM users WHERE email = ?`, email)
	return scanSQLiteUser(row, "user with email "+email)
}

func (s *SQLiteStore) SetAdmin(ctx context.Context, id string, isAdmin bool, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_admin = ?, updated_at = ? WHERE id = ?`, isAdmin, updatedAt, id)
	return affectedOne(res, err, "user "+id)
}

func scanSQLiteUser(row *sql.Row, what string) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(types.ErrNotFound, what)
	} else if err != nil {
		return nil, errors.Wrapf(err, "loading %s failed", what)
	}
	return &user, nil
}

// --- Posts ---

func (s *SQLiteStore) CreatePost(ctx context.Context, post *Post) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, author_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID, post.AuthorID, post.Title, post.Content, post.CreatedAt, post.UpdatedAt)
	return errors.Wrap(err, "inserting post failed")
}

func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*Post, error) {
	var post Post
	row := s.db.QueryRowContext(ctx, sqlitePostSelect+` WHERE p.id = ?`, id)
	err := row.Scan(&post.ID, &post.AuthorID, &post.Author.Username, &post.Author.Email,
		&post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(types.ErrNotFound, "post %s", id)
	} else if err != nil {
		return nil, errors.Wrapf(err, "loading post %s failed", id)
	}
	post.Author.ID = post.AuthorID
	return &post, nil
}

func (s *SQLiteStore) GetAllPosts(ctx context.Context) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx, sqlitePostSelect+` ORDER BY p.created_at DESC, p.id`)
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

func (s *SQLiteStore) UpdatePost(ctx context.Context, post *Post) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		post.Title, post.Content, post.UpdatedAt, post.ID)
	return affectedOne(res, err, "post "+post.ID)
}

func (s *SQLiteStore) DeletePost(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction failed")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return errors.Wrapf(err, "deleting comments of post %s failed", id)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err := affectedOne(res, err, "post "+id); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "committing post delete failed")
}

// --- Comments ---

func (s *SQLiteStore) CreateComment(ctx context.Context, comment *Comment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt)
	return errors.Wrap(err, "inserting comment failed")
}

func (s *SQLiteStore) GetComment(ctx context.Context, id string) (*Comment, error) {
	var c Comment
	row := s.db.QueryRowContext(ctx, sqliteCommentSelect+` WHERE c.id = ?`, id)
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author.Username, &c.Author.Email, &c.Content, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(types.ErrNotFound, "comment %s", id)
	} else if err != nil {
		return nil, errors.Wrapf(err, "loading comment %s failed", id)
	}
	c.Author.ID = c.AuthorID
	return &c, nil
}

func (s *SQLiteStore) GetCommentsByPost(ctx context.Context, postID string) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx, sqliteCommentSelect+` WHERE c.post_id = ? ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, errors.Wrap(err, "listing comments failed")
	}
	defer rows.Close()

	comments := []*Comment{}
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

func (s *SQLiteStore) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	return affectedOne(res, err, "comment "+id)
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// affectedOne turns "no row matched" into ErrNotFound.
func affectedOne(res sql.Result, err error, what string) error {
	if err != nil {
		return errors.Wrapf(err, "writing %s failed", what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "writing %s failed", what)
	}
	if n == 0 {
		return errors.Wrap(types.ErrNotFound, what)
	}
	return nil
}
