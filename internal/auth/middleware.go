package auth

import (
	"errors"
	"net/http"
	"strings"

	"bookshelf/internal/httpx"

	"go.uber.org/zap"
)

// Gate rejects requests without a valid bearer token with 401 before the
// wrapped handler runs. On success the user is available via UserFrom.
func Gate(service *Service, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.Write(w, r, httpx.Unauthorized())
				return
			}

			u, claims, err := service.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, ErrUnauthorized) {
					logger.Error("authentication failed",
						zap.String("request_id", httpx.RequestIDFrom(r)),
						zap.Error(err),
					)
				}
				httpx.Write(w, r, httpx.Unauthorized())
				return
			}

			r = httpx.SetUserID(r, u.ID)
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), u, claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
