package server

import (
	"time"

	"blog-platform/internal/authz"
	"blog-platform/internal/db"
	"blog-platform/internal/markdown"
	"blog-platform/pkg/utils"

	"github.com/pkg/errors"
)

// userView never carries the password hash.
type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type authorView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type postView struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Content     string            `json:"content"`
	ContentHTML string            `json:"contentHtml"`
	Author      authorView        `json:"author"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Permissions authz.Permissions `json:"permissions"`
}

type commentView struct {
	ID          string            `json:"id"`
	PostID      string            `json:"postId"`
	Content     string            `json:"content"`
	Author      authorView        `json:"author"`
	CreatedAt   time.Time         `json:"createdAt"`
	Permissions authz.Permissions `json:"permissions"`
}

func newUserView(u *db.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func newAuthorView(a db.Author) authorView {
	return authorView{ID: a.ID, Username: a.Username, Email: a.Email}
}

func newPostView(actor *authz.Actor, p *db.Post) (postView, error) {
	html, err := markdown.ParseMD(p.Content)
	if err != nil {
		return postView{}, errors.Wrapf(err, "rendering post %s failed", p.ID)
	}
	return postView{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        utils.TitleToSlug(p.Title),
		Content:     p.Content,
		ContentHTML: html,
		Author:      newAuthorView(p.Author),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Permissions: authz.PermissionsFor(actor, authz.Post(p.AuthorID)),
	}, nil
}

func newPostViews(actor *authz.Actor, posts []*db.Post) ([]postView, error) {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		v, err := newPostView(actor, p)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func newCommentViews(actor *authz.Actor, comments []*db.Comment) []commentView {
	return utils.Map(comments, func(c *db.Comment) commentView {
		return newCommentView(actor, c)
	})
}

func newCommentView(actor *authz.Actor, c *db.Comment) commentView {
	return commentView{
		ID:          c.ID,
		PostID:      c.PostID,
		Content:     c.Content,
		Author:      newAuthorView(c.Author),
		CreatedAt:   c.CreatedAt,
		Permissions: authz.PermissionsFor(actor, authz.Comment(c.AuthorID)),
	}
}
