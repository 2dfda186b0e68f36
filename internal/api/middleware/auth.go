package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/staffdesk/admin-panel/internal/api/metrics"
	"github.com/staffdesk/admin-panel/internal/core/domain"
	"github.com/staffdesk/admin-panel/internal/core/ports"
)

const identityKey = "identity"

// IdentityFrom returns the identity attached by the Auth middleware.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(*domain.Identity)
	return identity, ok
}

// SetIdentity attaches an identity to the context. Exposed for tests and for
// handlers that run behind alternative resolution paths.
func SetIdentity(c echo.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
}

// Auth resolves the session: it extracts the bearer token, verifies it,
// loads the identity from the role partition named in the claims and attaches
// it to the request context. The loaded record never includes the password
// hash. A missing record or a deactivated account fails exactly like a bad
// token; the concrete reason goes to the log only.
func Auth(verifier ports.TokenVerifier, repo ports.IdentityRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				log.Debug().Err(err).Msg("token verification failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			identity, err := repo.FindByID(c.Request().Context(), claims.Role, claims.ID, false)
			if err != nil || !identity.IsActive {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				log.Debug().Err(err).Str("role", string(claims.Role)).Str("id", claims.ID).Msg("identity not resolvable or inactive")
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, user not found or inactive")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth when an Authorization header is present and
// passes the request through anonymously when it is not. Admin registration
// uses it: the very first admin registers without a session, every later one
// registers under an authenticated admin.
func OptionalAuth(verifier ports.TokenVerifier, repo ports.IdentityRepository, log zerolog.Logger) echo.MiddlewareFunc {
	authed := Auth(verifier, repo, log)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withAuth := authed(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			return withAuth(c)
		}
	}
}
