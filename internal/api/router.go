// Package api exposes the services over HTTP.
package api

import (
	"net/http"
	"time"

	"glossa/internal/proxy"
	"glossa/internal/service"
	"glossa/internal/session"
	"glossa/internal/webhook"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Services bundles what the HTTP handlers call into
type Services struct {
	Users        *service.UserService
	Suggestions  *service.SuggestionService
	Vocabulary   *service.VocabularyService
	Translations *service.TranslationService
	Community    *service.CommunityService
	Quiz         *service.QuizService
}

// Options configures the optional parts of the router
type Options struct {
	SignatureSecret string
	Proxy           *proxy.Client
	BotWebhookPath  string
	BotWebhook      http.Handler
}

// NewRouter builds the HTTP surface
func NewRouter(svc Services, sessions *session.Manager, opts Options, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/suggestions", newSuggestionHandler(svc.Suggestions, svc.Users, logger).RegisterRoutes)
		v1.Route("/vocabulary", newVocabularyHandler(svc.Vocabulary, svc.Users, logger).RegisterRoutes)
		v1.Route("/translations", newTranslationHandler(svc.Translations, logger).RegisterRoutes)

		community := newCommunityHandler(svc.Community, logger)
		v1.Post("/messages", community.sendMessage)
		v1.Post("/reports", community.fileReport)
		v1.Post("/referrals", community.refer)

		v1.Route("/tests", newQuizHandler(svc.Quiz, logger).RegisterRoutes)
	})

	r.Group(func(signed chi.Router) {
		signed.Use(webhook.Middleware(opts.SignatureSecret, logger))
		events := newEventHandler(svc.Suggestions, sessions, logger)
		signed.Post("/webhooks/events", events.handle)
	})

	if opts.Proxy != nil {
		r.Handle("/proxy/*", opts.Proxy.Handler("/proxy"))
	}

	if opts.BotWebhook != nil && opts.BotWebhookPath != "" {
		r.Method(http.MethodPost, opts.BotWebhookPath, opts.BotWebhook)
	}

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
