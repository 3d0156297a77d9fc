// Package repository applies the ownership rules to post and comment storage.
//
// Every mutation loads the current row first (types.ErrNotFound when it is
// gone), authorizes against what was loaded, and only then writes.
// Concurrent writers to the same post are last-write-wins.
package repository

import (
	"context"
	"strings"

	"blog-platform/internal/authz"
	"blog-platform/internal/db"
	"blog-platform/internal/types"
	"blog-platform/pkg/utils"

	"github.com/google/uuid"
)

type PostInput struct {
	Title   string
	Content string
}

// PostPatch leaves a field unchanged when it is nil or blank.
type PostPatch struct {
	Title   *string
	Content *string
}

type PostRepository struct {
	store db.PostStore
	clock utils.Clock
}

func NewPostRepository(store db.PostStore, clock utils.Clock) *PostRepository {
	return &PostRepository{store: store, clock: clock}
}

func (r *PostRepository) Create(ctx context.Context, actor *authz.Actor, in PostInput) (*db.Post, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.Post("")); err != nil {
		return nil, err
	}

	title, content := strings.TrimSpace(in.Title), strings.TrimSpace(in.Content)
	if title == "" {
		return nil, types.NewValidationError("title", "is required")
	}
	if content == "" {
		return nil, types.NewValidationError("content", "is required")
	}

	now := r.clock.NowUtc()
	post := &db.Post{
		ID:        uuid.NewString(),
		AuthorID:  actor.ID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return r.store.GetPost(ctx, post.ID)
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*db.Post, error) {
	return r.store.GetPost(ctx, id)
}

func (r *PostRepository) ListAll(ctx context.Context) ([]*db.Post, error) {
	return r.store.GetAllPosts(ctx)
}

func (r *PostRepository) Update(ctx context.Context, actor *authz.Actor, id string, patch PostPatch) (*db.Post, error) {
	post, err := r.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionUpdate, authz.Post(post.AuthorID)); err != nil {
		return nil, err
	}

	if v := trimmed(patch.Title); v != "" {
		post.Title = v
	}
	if v := trimmed(patch.Content); v != "" {
		post.Content = v
	}
	post.UpdatedAt = r.clock.NowUtc()

	if err := r.store.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post and, with it, all of its comments.
func (r *PostRepository) Delete(ctx context.Context, actor *authz.Actor, id string) error {
	post, err := r.store.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ActionDelete, authz.Post(post.AuthorID)); err != nil {
		return err
	}
	return r.store.DeletePost(ctx, id)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
