package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/pkg/auth"
	"github.com/abgdnv/storefront/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Authorizer decides whether an Authorization header grants a permission.
// It is implemented by *auth.Gate.
type Authorizer interface {
	Authorize(ctx context.Context, header, permission string) (*auth.Claims, error)
}

// Authorization builds per-route permission middlewares around an Authorizer.
type Authorization struct {
	authorizer Authorizer
	logger     *slog.Logger
	denied     metric.Int64Counter
}

// NewAuthorization creates an Authorization using authorizer to check requests.
func NewAuthorization(authorizer Authorizer, logger *slog.Logger) *Authorization {
	denied, err := otel.Meter("storefront").Int64Counter("auth_denied",
		metric.WithDescription("Total number of requests rejected by the authorization gate"))
	if err != nil {
		panic(fmt.Sprintf("failed to create auth_denied counter: %v", err))
	}
	return &Authorization{
		authorizer: authorizer,
		logger:     logger.With("component", "authorization"),
		denied:     denied,
	}
}

// Require returns a middleware that admits only requests whose bearer token grants permission.
// Admitted requests carry the verified claims, see ClaimsFromContext, and log the token subject.
func (a *Authorization) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, err := a.authorizer.Authorize(ctx, r.Header.Get("Authorization"), permission)
			if err != nil {
				var authErr *auth.AuthError
				if errors.As(err, &authErr) {
					a.logger.WarnContext(ctx, "Request denied", "permission", permission, "code", authErr.Code, "status", authErr.StatusCode)
					a.denied.Add(ctx, 1, metric.WithAttributes(attribute.String("code", authErr.Code)))
				} else {
					a.logger.ErrorContext(ctx, "Authorization failed", "permission", permission, "error", err)
				}
				RespondAuthError(w, a.logger, err)
				return
			}
			ctx = logger.WithAttrs(WithClaims(ctx, claims), slog.String("subject", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
