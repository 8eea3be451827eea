// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient is an alias so DI can pass *middleware.FirebaseAuthClient.
type FirebaseAuthClient = fbauth.Client

// context key uses a private type to avoid collisions (SA1029).
type ctxKey struct{ name string }

var ctxKeyUserID = ctxKey{name: "userId"}

// UserIDFrom returns the authenticated user id set by IdentityMiddleware.
func UserIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// IdentityMiddleware resolves the stable user identity the cart is keyed by.
//
//   - Authorization: Bearer <ID_TOKEN> is verified against Firebase Auth and
//     the token uid becomes the user id.
//   - When no Firebase client is configured (local mode), the X-User-Id
//     header is trusted instead.
//
// Anonymous-to-identified migration is the identity provider's concern: this
// layer only guarantees "same identifier, same cart".
type IdentityMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *IdentityMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := m.resolve(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *IdentityMiddleware) resolve(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") && m.FirebaseAuth != nil {
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			return "", false
		}

		tok, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			log.Printf("[identity_mw] token verify failed: %v", err)
			return "", false
		}
		return tok.UID, true
	}

	if m.FirebaseAuth == nil {
		// local mode: header-supplied identity
		if uid := strings.TrimSpace(r.Header.Get("X-User-Id")); uid != "" {
			return uid, true
		}
	}

	return "", false
}
