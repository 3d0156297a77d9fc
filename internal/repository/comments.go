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

type CommentRepository struct {
	store db.CommentStore
	posts db.PostStore
	clock utils.Clock
}

func NewCommentRepository(store db.CommentStore, posts db.PostStore, clock utils.Clock) *CommentRepository {
	return &CommentRepository{store: store, posts: posts, clock: clock}
}

// Create fails with types.ErrNotFound when the post does not exist.
func (r *CommentRepository) Create(ctx context.Context, actor *authz.Actor, postID, content string) (*db.Comment, error) {
	if _, err := r.posts.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionCreate, authz.Comment("")); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, types.NewValidationError("content", "is required")
	}

	comment := &db.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  actor.ID,
		Content:   content,
		CreatedAt: r.clock.NowUtc(),
	}
	if err := r.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return r.store.GetComment(ctx, comment.ID)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*db.Comment, error) {
	return r.store.GetComment(ctx, id)
}

// ListByPost returns the post's comments oldest first. An unknown post has none.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*db.Comment, error) {
	return r.store.GetCommentsByPost(ctx, postID)
}

func (r *CommentRepository) Delete(ctx context.Context, actor *authz.Actor, id string) error {
	comment, err := r.store.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.ActionDelete, authz.Comment(comment.AuthorID)); err != nil {
		return err
	}
	return r.store.DeleteComment(ctx, id)
}
