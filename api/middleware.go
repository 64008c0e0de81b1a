package api

import (
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jhzhou002/blog-yk/database"
	"github.com/jhzhou002/blog-yk/errs"
	"github.com/jhzhou002/blog-yk/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authMiddleware struct {
	responder Responder
	userRepo  *database.UserRepo
	jwtSecret []byte
}

func newAuthMiddleware(userRepo *database.UserRepo, jwtSecret []byte) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// authenticate requires a valid bearer token and loads the requester into the
// request context.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, apiErr := m.resolveUser(r)
		if apiErr != nil {
			m.responder.WriteError(w, apiErr)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithUser(r.Context(), user)))
	})
}

// maybeAuthenticate loads the requester when a valid token is present but
// lets unauthenticated requests through. Used where anonymous access is a
// site-settings decision, not a routing one.
func (m authMiddleware) maybeAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, apiErr := m.resolveUser(r); apiErr == nil {
			r = r.WithContext(ctxWithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// requireStaff gates dashboard routes. It re-checks the stored staff flag
// rather than trusting the token claim.
func (m authMiddleware) requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			m.responder.WriteError(w, errs.Unauthorized)
			return
		}
		if !user.IsStaff {
			m.responder.WriteError(w, errs.NewForbiddenError("staff access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m authMiddleware) resolveUser(r *http.Request) (*models.User, *errs.ApiErr) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errs.Unauthorized
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	userID, err := parseToken(tokenString, m.jwtSecret)
	if err != nil {
		return nil, errs.NewUnauthorizedError("invalid access token")
	}

	user, err := m.userRepo.FindByID(userID)
	if err != nil {
		return nil, errs.NewUnauthorizedError("unknown user")
	}
	return user, nil
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// CORSCheckMiddleware rejects disallowed cross-origin preflights with a
// proper error body before the CORS handler answers them.
func CORSCheckMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// If no origin header, it's likely a same-origin request
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := false
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					allowed = true
					break
				}
			}

			if !allowed && r.Method == "OPTIONS" {
				responder := NewResponder(log.Logger)
				responder.WriteError(w, errs.NewCORSError(origin))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		duration := time.Since(start)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
