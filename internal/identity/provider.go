package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Provider talks to the hosted identity service: token and session-cookie
// verification happens locally against the provider JWKS, cookie minting
// goes through the provider's REST endpoint. Stateless, safe to share.
type Provider struct {
	keys     *keyCache
	mintURL  string
	apiKey   string
	issuer   string
	audience string
	http     *http.Client
}

type ProviderOpts struct {
	JWKSURL  string
	MintURL  string
	APIKey   string
	Issuer   string
	Audience string
	// JWKSCacheTTL defaults to 10 minutes.
	JWKSCacheTTL time.Duration
}

func NewProvider(o ProviderOpts) *Provider {
	ttl := o.JWKSCacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Provider{
		keys:     newKeyCache(o.JWKSURL, ttl),
		mintURL:  o.MintURL,
		apiKey:   o.APIKey,
		issuer:   o.Issuer,
		audience: o.Audience,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *Provider) VerifyIDToken(ctx context.Context, idToken string) (*Claims, error) {
	return p.verify(ctx, idToken)
}

func (p *Provider) VerifySessionCookie(ctx context.Context, cookie string) (*Claims, error) {
	return p.verify(ctx, cookie)
}

// verify checks signature (RS256 against the JWKS), expiry, issuer and
// audience, and requires a subject.
func (p *Provider) verify(ctx context.Context, tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	token, parts, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil || len(parts) != 3 {
		return nil, errors.New("malformed token")
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("no kid")
	}
	pub, err := p.keys.get(ctx, kid)
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("bad method")
		}
		return pub, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.UID == "" && claims.Subject != "" {
		claims.UID = claims.Subject
	}
	if claims.UID == "" {
		return nil, errors.New("no uid in claims")
	}
	return claims, nil
}

type mintReq struct {
	IDToken       string `json:"idToken"`
	ValidDuration int64  `json:"validDuration"` // seconds
}

type mintResp struct {
	SessionCookie string `json:"sessionCookie"`
}

func (p *Provider) MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	body, err := json.Marshal(mintReq{IDToken: idToken, ValidDuration: int64(ttl.Seconds())})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.mintURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mint session cookie: provider status %d", resp.StatusCode)
	}
	var out mintResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SessionCookie == "" {
		return "", errors.New("provider returned empty session cookie")
	}
	return out.SessionCookie, nil
}
