package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/fintrack/internal/identity"
	"github.com/GregMSThompson/fintrack/internal/models"
	"github.com/GregMSThompson/fintrack/internal/response"
	"github.com/GregMSThompson/fintrack/pkg/logger"
)

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient tokenVerifier
}

func NewMiddleware(client tokenVerifier) *Middleware {
	return &Middleware{AuthClient: client}
}

// context key
type contextKey string

const PrincipalKey contextKey = "principal"

// FirebaseAuth verifies the bearer ID token and stores the caller's Principal
// in the request context. Tokens without a valid role claim are treated as
// members.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		if header == "" {
			response.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "missing Authorization header")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "invalid Authorization header")
			return
		}

		// Verify ID Token
		token, err := m.AuthClient.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			response.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		p := principalFrom(token)
		_, ctx := logger.With(r.Context(), "uid", p.UID, "role", p.Role)
		ctx = WithPrincipal(ctx, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFrom(token *auth.Token) models.Principal {
	p := models.Principal{UID: token.UID, Role: models.RoleMember}
	if email, ok := token.Claims["email"].(string); ok {
		p.Email = email
	}
	if role, ok := token.Claims[identity.RoleClaim].(string); ok && models.Role(role).Valid() {
		p.Role = models.Role(role)
	}
	return p
}

// RequireRole rejects callers whose role is not in roles. It must run after
// FirebaseAuth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				response.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			logger.FromContext(r.Context()).Warn("role not permitted", "path", r.URL.Path)
			response.WriteError(w, r, http.StatusForbidden, "forbidden", "insufficient role for this operation")
		})
	}
}

func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(models.Principal)
	return p, ok
}

// Principal returns the caller, or the zero Principal for anonymous requests.
func Principal(ctx context.Context) models.Principal {
	p, _ := PrincipalFrom(ctx)
	return p
}

// Helper to extract UID
func UID(ctx context.Context) string {
	return Principal(ctx).UID
}
