package authenticate

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"storefront/entity"
	"storefront/lib/api/cont"
	"storefront/lib/api/response"
	"storefront/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Authenticate interface {
	AuthenticateByToken(token string) (*entity.User, error)
}

func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod).Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			logger := log.With(
				mod,
				slog.String("path", r.URL.Path),
				slog.String("request_id", id),
			)

			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn("authentication failed", sl.Err(err))
				authFailed(w, r, err.Error())
				return
			}
			logger = logger.With(sl.Secret("token", token))

			if auth == nil {
				authFailed(w, r, "Unauthorized: authentication not enabled")
				return
			}

			user, err := auth.AuthenticateByToken(token)
			if err != nil {
				logger.Warn("authentication failed", sl.Err(err))
				authFailed(w, r, "Unauthorized: token not found")
				return
			}
			ctx := cont.PutUser(r.Context(), user)

			w.Header().Set("X-User", user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("Authorization header not found")
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("Bearer token expected")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("Token not found")
	}
	return token, nil
}

// Require rejects authenticated users lacking the permission checked by allowed
func Require(allowed func(user *entity.User) bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			user := cont.GetUser(r.Context())
			if user == nil || !allowed(user) {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("Forbidden: missing permission"))
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func authFailed(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(message))
}
