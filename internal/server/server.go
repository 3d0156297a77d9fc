// Package server is the HTTP surface: chi routing, token extraction and
// the JSON error boundary.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"blog-platform/internal/auth"
	"blog-platform/internal/config"
	"blog-platform/internal/db"
	"blog-platform/internal/repository"
	"blog-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg      *config.Config
	creds    *auth.Credentials
	tokens   *auth.TokenService
	posts    *repository.PostRepository
	comments *repository.CommentRepository
}

func New(cfg *config.Config, store db.Store, clock utils.Clock) *Server {
	return &Server{
		cfg:      cfg,
		creds:    auth.NewCredentials(store, cfg.BcryptCost, clock),
		tokens:   auth.NewTokenService(cfg.SignKey, cfg.TokenTTL, clock),
		posts:    repository.NewPostRepository(store, clock),
		comments: repository.NewCommentRepository(store, store, clock),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID) // add unique id to each request context
	r.Use(middleware.RealIP)    // add request RemoteAddr to X-Real-IP
	r.Use(middleware.Logger)    // log start and end of each request
	r.Use(middleware.Recoverer) // recover and log from panic, return 500
	r.Use(middleware.Heartbeat("/ping"))
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errors.Wrapf(errNoRoute, "%s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorEnvelope{Error: errorBody{
			Message: http.StatusText(http.StatusMethodNotAllowed),
			Code:    codeMethodNotAllowed,
		}})
	})

	jsonBody := middleware.AllowContentType("application/json")

	r.Route("/user", func(r chi.Router) {
		// outside Authenticate: a stale jwt cookie never blocks these
		r.With(jsonBody).Post("/register", s.HandleRegister)
		r.With(jsonBody).Post("/login", s.HandleLogin)
		r.Post("/logout", s.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.Authenticate, RequireActor)
			r.Get("/me", s.HandleMe)
			r.With(jsonBody).Post("/create-admin", s.HandleCreateAdmin)
		})
	})

	r.Group(func(r chi.Router) {
		// anonymous callers may read; the actor only shapes the permission flags
		r.Use(s.Authenticate)

		r.Route("/post", func(r chi.Router) {
			r.Get("/", s.HandleListPosts)
			r.Get("/{id}", s.HandleGetPost)

			r.Group(func(r chi.Router) {
				r.Use(RequireActor)
				r.With(jsonBody).Post("/", s.HandleCreatePost)
				r.With(jsonBody).Put("/{id}", s.HandleUpdatePost)
				r.Delete("/{id}", s.HandleDeletePost)
			})
		})

		// {id} is the post id for GET and POST, the comment id for DELETE
		r.Route("/comment", func(r chi.Router) {
			r.Get("/{id}", s.HandleListComments)

			r.Group(func(r chi.Router) {
				r.Use(RequireActor)
				r.With(jsonBody).Post("/{id}", s.HandleCreateComment)
				r.Delete("/{id}", s.HandleDeleteComment)
			})
		})
	})

	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running at http://%s\n", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		log.Print("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown failed")
	}
}
