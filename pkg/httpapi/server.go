package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/pkg/catalog"
	"github.com/goliatone/go-docwizard/pkg/dictionary"
	"github.com/goliatone/go-docwizard/pkg/orchestrator"
	"github.com/goliatone/go-docwizard/pkg/preview"
)

// Default session limits.
const (
	DefaultSessionMaxAge  = 24 * time.Hour
	DefaultSessionIdle    = 30 * time.Minute
	DefaultCleanupPeriod  = time.Minute
	defaultShutdownPeriod = 10 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithLogger injects a structured logger. The default discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPolicy sets the validation policy for sessions that do not pick one.
func WithPolicy(p orchestrator.Policy) Option {
	return func(s *Server) {
		s.policy = p
	}
}

// WithGeneratorRegistry resolves generators by the final step's output.
func WithGeneratorRegistry(r *orchestrator.GeneratorRegistry) Option {
	return func(s *Server) {
		s.generators = r
	}
}

// WithGenerator sets the fallback generator.
func WithGenerator(g orchestrator.Generator) Option {
	return func(s *Server) {
		s.generator = g
	}
}

// WithDictionary sets the provider behind optionsFrom lists.
func WithDictionary(p dictionary.Provider) Option {
	return func(s *Server) {
		if p != nil {
			s.dict = p
		}
	}
}

// WithPreview enables GET /sessions/{sid}/preview.
func WithPreview(e *preview.Engine) Option {
	return func(s *Server) {
		s.preview = e
	}
}

// WithSessionLimits overrides the session max age, the idle timeout and how
// often Run sweeps expired sessions. A non-positive period keeps the default.
func WithSessionLimits(maxAge, idle, cleanup time.Duration) Option {
	return func(s *Server) {
		s.sessions = NewSessions(maxAge, idle)
		if cleanup > 0 {
			s.cleanupPeriod = cleanup
		}
	}
}

// WithWizardOptions appends orchestrator options applied to every session.
func WithWizardOptions(opts ...orchestrator.Option) Option {
	return func(s *Server) {
		s.wizardOptions = append(s.wizardOptions, opts...)
	}
}

// Server exposes wizard sessions over HTTP.
type Server struct {
	store         *catalog.Store
	sessions      *Sessions
	validate      *validator.Validate
	logger        logrus.FieldLogger
	policy        orchestrator.Policy
	generator     orchestrator.Generator
	generators    *orchestrator.GeneratorRegistry
	dict          dictionary.Provider
	preview       *preview.Engine
	wizardOptions []orchestrator.Option
	cleanupPeriod time.Duration
	router        chi.Router
}

// New builds a server over a document store.
func New(store *catalog.Store, options ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("httpapi: document store is required")
	}
	l := logrus.New()
	l.SetOutput(io.Discard)

	s := &Server{
		store:    store,
		sessions: NewSessions(DefaultSessionMaxAge, DefaultSessionIdle),
		validate: newValidator(),
		logger:   l,
		policy:   orchestrator.Advisory,
		dict:     dictionary.Default(),

		cleanupPeriod: DefaultCleanupPeriod,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

// Sessions exposes the session registry.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Get("/{id}", s.getDocument)
		r.Post("/{id}/sessions", s.createSession)
	})
	r.Get("/categories", s.listCategories)

	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Get("/", s.getSession)
		r.Delete("/", s.deleteSession)
		r.Post("/answers", s.commitAnswers)
		r.Post("/next", s.next)
		r.Post("/back", s.back)
		r.Post("/mode", s.selectMode)
		r.Delete("/mode", s.resetMode)
		r.Post("/groups/add", s.addElement)
		r.Post("/groups/remove", s.removeElement)
		r.Post("/attachments", s.attach)
		r.Delete("/attachments", s.detach)
		r.Get("/preview", s.renderPreview)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

// Run serves on addr until ctx is cancelled, sweeping expired sessions in
// the background.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(s.cleanupPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					s.logger.WithError(err).Warn("shutdown")
				}
				return
			case <-ticker.C:
				if n := s.sessions.Cleanup(); n > 0 {
					s.logger.WithField("dropped", n).Info("expired sessions removed")
				}
			}
		}
	}()

	s.logger.WithFields(logrus.Fields{"addr": addr, "documents": s.store.Len()}).Info("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
