package identity

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// keyCache pulls the provider's JWKS document and caches the RSA public
// keys by kid. Refreshed on expiry or on an unknown kid.
type keyCache struct {
	url string
	ttl time.Duration

	mu    sync.RWMutex
	keys  map[string]*rsa.PublicKey
	expAt time.Time

	http *http.Client
}

func newKeyCache(jwksURL string, ttl time.Duration) *keyCache {
	return &keyCache{
		url:  jwksURL,
		ttl:  ttl,
		keys: make(map[string]*rsa.PublicKey),
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"` // base64url
	E   string `json:"e"` // base64url
}

type jwksDoc struct {
	Keys []jwk `json:"keys"`
}

func (kc *keyCache) refresh(ctx context.Context) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, kc.url, nil)
	resp, err := kc.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var doc jwksDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return err
	}
	tmp := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		nb, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			continue
		}
		eb, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil || len(eb) == 0 {
			continue
		}
		e := 0
		for _, b := range eb {
			e = e<<8 + int(b)
		}
		tmp[k.Kid] = &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}
	}
	kc.mu.Lock()
	kc.keys = tmp
	kc.expAt = time.Now().Add(kc.ttl)
	kc.mu.Unlock()
	return nil
}

func (kc *keyCache) get(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	kc.mu.RLock()
	if pk, ok := kc.keys[kid]; ok && time.Now().Before(kc.expAt) {
		kc.mu.RUnlock()
		return pk, nil
	}
	kc.mu.RUnlock()

	if err := kc.refresh(ctx); err != nil {
		return nil, err
	}
	kc.mu.RLock()
	defer kc.mu.RUnlock()
	if pk, ok := kc.keys[kid]; ok {
		return pk, nil
	}
	return nil, errors.New("kid not found in JWKS")
}
