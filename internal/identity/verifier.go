package identity

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity attributes the provider asserts after verifying
// a token.
type Claims struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// Verifier is the capability surface of the identity provider. The real
// implementation is Provider; tests substitute a fake.
type Verifier interface {
	// VerifyIDToken checks a short-lived token freshly obtained by the
	// client during sign-in.
	VerifyIDToken(ctx context.Context, idToken string) (*Claims, error)
	// MintSessionCookie exchanges a verified ID token for a long-lived
	// session cookie at the provider.
	MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error)
	// VerifySessionCookie checks a cookie previously minted by the
	// provider. Expired, forged and malformed cookies all fail.
	VerifySessionCookie(ctx context.Context, cookie string) (*Claims, error)
}
