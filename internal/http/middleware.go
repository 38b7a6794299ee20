package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/fjod/krmotors/internal/domain"
	"github.com/fjod/krmotors/internal/session"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	visitorIDKey
)

const (
	VisitorHeader = "X-Visitor-ID"
	VisitorCookie = "visitor_id"

	visitorCookieMaxAge = 30 * 24 * time.Hour
	maxVisitorIDLen     = 64
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// VisitorMiddleware identifies the browser a cart belongs to. The id comes
// from the X-Visitor-ID header or the visitor_id cookie; a new one is
// minted and set as a cookie when neither is present.
func VisitorMiddleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID := r.Header.Get(VisitorHeader)
			if visitorID == "" {
				if c, err := r.Cookie(VisitorCookie); err == nil {
					visitorID = c.Value
				}
			}
			if visitorID == "" || len(visitorID) > maxVisitorIDLen {
				visitorID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookie,
					Value:    visitorID,
					Path:     "/",
					MaxAge:   int(visitorCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			w.Header().Set(VisitorHeader, visitorID)
			ctx := context.WithValue(r.Context(), visitorIDKey, visitorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getVisitorID(ctx context.Context) string {
	if visitorID, ok := ctx.Value(visitorIDKey).(string); ok {
		return visitorID
	}
	return ""
}

// SessionMiddleware attaches the bearer session, if any. A missing or
// expired token just leaves the request anonymous.
func SessionMiddleware(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			s, err := session.FromBearer(header, now())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()) == nil {
			handleError(w, session.ErrNoSession)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserLookup resolves the account behind a bearer token.
type UserLookup interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// RequireAdmin rejects requests without an admin session. The token's role
// claim is unverified, so a claimed admin is confirmed against the backend
// before the request goes through.
func RequireAdmin(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			if s == nil {
				handleError(w, session.ErrNoSession)
				return
			}
			if !s.IsAdmin() {
				handleError(w, session.ErrForbidden)
				return
			}

			user, err := users.CurrentUser(r.Context(), s.Token)
			if err != nil {
				handleError(w, err)
				return
			}
			confirmed := *s
			confirmed.User = *user
			if !confirmed.IsAdmin() {
				handleError(w, session.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), &confirmed)))
		})
	}
}

// MaxBodyMiddleware caps the request body size.
func MaxBodyMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.InfoContext(r.Context(), "request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", getRequestID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
