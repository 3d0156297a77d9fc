package db

import "time"

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash []byte
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Author is the public summary of a User attached to posts and comments.
type Author struct {
	ID       string
	Username string
	Email    string
}

type Post struct {
	ID        string
	AuthorID  string
	Author    Author
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Author    Author
	Content   string
	CreatedAt time.Time
}
