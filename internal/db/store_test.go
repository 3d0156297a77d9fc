package db_test

import (
	"context"
	"testing"
	"time"

	"blog-platform/internal/db"
	"blog-platform/internal/types"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// runStoreTests exercises the Store contract against any backend.
func runStoreTests(t *testing.T, newStore func(t *testing.T) db.Store) {
	t.Run("CreateAndGetUser", func(t *testing.T) { testCreateAndGetUser(t, newStore(t)) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, newStore(t)) })
	t.Run("SetAdmin", func(t *testing.T) { testSetAdmin(t, newStore(t)) })
	t.Run("PostLifecycle", func(t *testing.T) { testPostLifecycle(t, newStore(t)) })
	t.Run("ListPostsNewestFirst", func(t *testing.T) { testListPostsNewestFirst(t, newStore(t)) })
	t.Run("Comments", func(t *testing.T) { testComments(t, newStore(t)) })
	t.Run("DeletePostCascades", func(t *testing.T) { testDeletePostCascades(t, newStore(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newStore(t)) })
}

func getTestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func newTestUser(isAdmin bool) *db.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &db.User{
		ID:           uuid.NewString(),
		Email:        gofakeit.Email(),
		Username:     gofakeit.Username(),
		PasswordHash: []byte("$2a$04$notarealhashbutlongenoughforthetest"),
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTestPost(authorID string, at time.Time) *db.Post {
	return &db.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     gofakeit.Sentence(4),
		Content:   gofakeit.Paragraph(1, 3, 10, " "),
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func newTestComment(postID, authorID string, at time.Time) *db.Comment {
	return &db.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   gofakeit.Sentence(8),
		CreatedAt: at,
	}
}

func mustCreateUser(ctx context.Context, t *testing.T, store db.Store, isAdmin bool) *db.User {
	user := newTestUser(isAdmin)
	require.NoError(t, store.CreateUser(ctx, user))
	return user
}

func testCreateAndGetUser(t *testing.T, store db.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	user := mustCreateUser(ctx, t, store, false)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, byID.ID)
	require.Equal(t, user.Email, byID.Email)
	require.Equal(t, user.Username, byID.Username)
	require.Equal(t, user.PasswordHash, byID.PasswordHash)
	require.False(t, byID.IsAdmin)
	require.WithinDuration(t, user.CreatedAt, byID.CreatedAt, time.Second)

	byEmail, err := store.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)
}

func testDuplicateEmail(t *testing.T, store db.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	first := mustCreateUser(ctx, t, store, false)
	second := newTestUser(false)
	second.Email = first.Email

	err := store.CreateUser(ctx, second)
	require.ErrorIs(t, err, types.ErrDuplicateEmail)
}

func testSetAdmin(t *testing.T, store db.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	user := mustCreateUser(ctx, t, store, false)
	require.NoError(t, store.SetAdmin(ctx, user.ID, true, time.Now().UTC()))

	loaded, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, loaded.IsAdmin)

	err = store.SetAdmin(ctx, uuid.NewString(), true, time.Now().UTC())
	require.ErrorIs(t, err, types.ErrNotFound)
}

func testPostLifecycle(t *testing.T, store db.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	author := mustCreateUser(ctx, t, store, false)
	now := time.Now().UTC().Truncate(time.Second)
	post := newTestPost(author.ID, now)
	require.NoError(t, store.CreatePost(ctx, post))

	loaded, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, post.Title, loaded.Title)
	require.Equal(t, post.Content, loaded.Content)
	require.Equal(t, author.ID, loaded.AuthorID)
	require.Equal(t, db.Author{ID: author.ID, Username: author.Username, Email: author.Email}, loaded.Author)

	loaded.Title = "Edited"
	loaded.Content = "Edited content"
	loaded.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, store.UpdatePost(ctx, loaded))

	updated, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, "Edited", updated.Title)
	require.Equal(t, "Edited content", updated.Content)
	require.Equal(t, author.ID, updated.AuthorID)
	require.WithinDuration(t, now.Add(time.Minute), updated.UpdatedAt, time.Second)

	require.NoError(t, store.DeletePost(ctx, post.ID))
	_, err = store.GetPost(ctx, post.ID)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func testListPostsNewestFirst(t *testing.T, store db.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	author := mustCreateUser(ctx, t, store, false)
	start := time.Now().UTC().Truncate(time.Second)
	older := newTestPost(author.ID, start)
	newer := newTestPost(author.ID, start.Add(time.Hour))
	require.NoError(t, store.CreatePost(ctx, older))
	require.NoError(t, store.CreatePost(ctx, newer))

	posts, err := store.GetAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, newer.ID, posts[0].ID)
	require.Equal(t, older.ID, posts[1].ID)
	require.Equal(t, author.Username, posts[0].Author.Username)
}

func testComments(t *testing.T, store db.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	author := mustCreateUser(ctx, t, store, false)
	commenter := mustCreateUser(ctx, t, store, false)
	start := time.Now().UTC().Truncate(time.Second)
	post := newTestPost(author.ID, start)
	require.NoError(t, store.CreatePost(ctx, post))

	first := newTestComment(post.ID, commenter.ID, start.Add(time.Minute))
	second := newTestComment(post.ID, author.ID, start.Add(2*time.Minute))
	require.NoError(t, store.CreateComment(ctx, second))
	require.NoError(t, store.CreateComment(ctx, first))

	comments, err := store.GetCommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, first.ID, comments[0].ID)
	require.Equal(t, commenter.Email, comments[0].Author.Email)
	require.Equal(t, second.ID, comments[1].ID)

	loaded, err := store.GetComment(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, first.Content, loaded.Content)
	require.Equal(t, post.ID, loaded.PostID)
	require.Equal(t, commenter.ID, loaded.AuthorID)

	require.NoError(t, store.DeleteComment(ctx, first.ID))
	_, err = store.GetComment(ctx, first.ID)
	require.ErrorIs(t, err, types.ErrNotFound)

	empty, err := store.GetCommentsByPost(ctx, uuid.NewString())
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func testDeletePostCascades(t *testing.T, store db.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	author := mustCreateUser(ctx, t, store, false)
	now := time.Now().UTC().Truncate(time.Second)
	doomed := newTestPost(author.ID, now)
	kept := newTestPost(author.ID, now)
	require.NoError(t, store.CreatePost(ctx, doomed))
	require.NoError(t, store.CreatePost(ctx, kept))

	orphan := newTestComment(doomed.ID, author.ID, now)
	survivor := newTestComment(kept.ID, author.ID, now)
	require.NoError(t, store.CreateComment(ctx, orphan))
	require.NoError(t, store.CreateComment(ctx, survivor))

	require.NoError(t, store.DeletePost(ctx, doomed.ID))

	_, err := store.GetComment(ctx, orphan.ID)
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = store.GetComment(ctx, survivor.ID)
	require.NoError(t, err)
}

func testNotFound(t *testing.T, store db.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	missing := uuid.NewString()
	_, err := store.GetUserByID(ctx, missing)
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = store.GetUserByEmail(ctx, gofakeit.Email())
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = store.GetPost(ctx, missing)
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = store.GetPost(ctx, "not-a-uuid")
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = store.GetComment(ctx, missing)
	require.ErrorIs(t, err, types.ErrNotFound)
	require.ErrorIs(t, store.UpdatePost(ctx, &db.Post{ID: missing, Title: "t", Content: "c"}), types.ErrNotFound)
	require.ErrorIs(t, store.DeletePost(ctx, missing), types.ErrNotFound)
	require.ErrorIs(t, store.DeleteComment(ctx, missing), types.ErrNotFound)
}
