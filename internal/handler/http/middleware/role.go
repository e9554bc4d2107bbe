package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/groundops/ops-backend-go/internal/domain/auth"
	"github.com/groundops/ops-backend-go/internal/domain/user"
	"github.com/groundops/ops-backend-go/internal/handler/http/response"
)

type principalKey struct{}

// WithPrincipal stores the verified caller on ctx.
func WithPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller stored by AuthRequired.
func PrincipalFromContext(ctx context.Context) (user.Principal, error) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	if !ok {
		return user.Principal{}, auth.ErrInvalidToken
	}
	return p, nil
}

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := PrincipalFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !p.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
