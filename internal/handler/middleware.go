package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthit/accounts-api/internal/token"
)

type contextKey struct{ name string }

var (
	userIDKey = contextKey{"userID"}
	loggerKey = contextKey{"logger"}
)

// requestLogger attaches a request-scoped logger carrying a request id to
// the context and logs one line per request.
func requestLogger(base *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := base.With().
				Str("request_id", uuid.NewString()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()

			reqLogger.Debug().Msg("request received")

			ctx := context.WithValue(r.Context(), loggerKey, &reqLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// loggerFrom returns the request-scoped logger, or a disabled logger when
// the middleware did not run (tests that call handlers directly).
func loggerFrom(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok {
		return l
	}

	nop := zerolog.Nop()
	return &nop
}

// verifyAccessToken guards routes that require a valid access token. The
// bearer token travels in the Authorization header; the verified user id
// is placed on the request context for the handler.
func verifyAccessToken(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "you are not authenticated")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusForbidden, "invalid authorization header format")
				return
			}

			userID, err := tokens.VerifyAccessToken(parts[1])
			if err != nil {
				writeError(w, http.StatusForbidden, "access token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userIDFrom returns the user id placed on the context by verifyAccessToken.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
