package apiapp

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/TumaeProject/tumae-be/internal/pkg/validate"
	"github.com/TumaeProject/tumae-be/internal/services/identity"
	httperrors "github.com/TumaeProject/tumae-be/internal/transport/http/errors"
)

// UserIDHeader carries the authenticated caller id, set by the upstream
// gateway after it validates the session.
const UserIDHeader = "X-User-ID"

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

func IdentityMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if !validate.Required(raw) {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "missing user identity header",
				})
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || !validate.PositiveID(userID) {
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Code:    "UNAUTHORIZED",
					Message: "invalid user identity header",
				})
				return
			}

			ctx := identity.WithIdentity(r.Context(), identity.Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
