package server

import (
	"net/http"

	"blog-platform/internal/db"
	"blog-platform/internal/repository"

	"github.com/go-chi/chi/v5"
)

type postRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views, err := newPostViews(ActorFromContext(r.Context()), posts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, views)
}

func (s *Server) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writePost(w, r, http.StatusOK, post)
}

func (s *Server) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := repository.PostInput{}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Content != nil {
		in.Content = *req.Content
	}

	post, err := s.posts.Create(r.Context(), ActorFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writePost(w, r, http.StatusCreated, post)
}

func (s *Server) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := s.posts.Update(r.Context(), ActorFromContext(r.Context()), chi.URLParam(r, "id"),
		repository.PostPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writePost(w, r, http.StatusOK, post)
}

func (s *Server) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.Delete(r.Context(), ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, messageResponse{Message: "Post deleted"})
}

func (s *Server) HandleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.comments.ListByPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, newCommentViews(ActorFromContext(r.Context()), comments))
}

func (s *Server) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	actor := ActorFromContext(r.Context())
	comment, err := s.comments.Create(r.Context(), actor, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, newCommentView(actor, comment))
}

func (s *Server) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.comments.Delete(r.Context(), ActorFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, messageResponse{Message: "Comment deleted"})
}

func (s *Server) writePost(w http.ResponseWriter, r *http.Request, status int, post *db.Post) {
	view, err := newPostView(ActorFromContext(r.Context()), post)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, status, view)
}
