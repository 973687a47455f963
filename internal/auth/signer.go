// AngelaMos | 2026
// signer.go

package auth

import (
	"crypto"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/slideview/internal/config"
	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/middleware"
)

const (
	claimType      = "type"
	claimRole      = "role"
	claimPlan      = "plan"
	claimVersion   = "token_version"
	accessTokenTyp = "access"
)

// Signer issues and verifies ES256 access tokens and publishes the matching
// JWKS.
type Signer struct {
	private  jwk.Key
	public   jwk.Key
	jwks     []byte
	keyID    string
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// LoadSigner reads the PEM encoded P-256 private key named by the config.
func LoadSigner(cfg config.JWTConfig) (*Signer, error) {
	pemBytes, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	key, err := jwk.ParseKey(pemBytes, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return newSigner(key, cfg)
}

func NewSigner(priv *ecdsa.PrivateKey, cfg config.JWTConfig) (*Signer, error) {
	key, err := jwk.Import(priv)
	if err != nil {
		return nil, fmt.Errorf("import private key: %w", err)
	}
	return newSigner(key, cfg)
}

func newSigner(key jwk.Key, cfg config.JWTConfig) (*Signer, error) {
	public, err := key.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	// The thumbprint keeps the kid stable across restarts.
	thumb, err := public.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("key thumbprint: %w", err)
	}
	kid := base64.RawURLEncoding.EncodeToString(thumb)[:16]

	for _, k := range []jwk.Key{key, public} {
		if err := k.Set(jwk.KeyIDKey, kid); err != nil {
			return nil, fmt.Errorf("set key id: %w", err)
		}
		if err := k.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
			return nil, fmt.Errorf("set algorithm: %w", err)
		}
	}
	if err := public.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(public); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}
	jwks, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("encode jwks: %w", err)
	}

	return &Signer{
		private:  key,
		public:   public,
		jwks:     jwks,
		keyID:    kid,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.AccessTokenExpire,
		now:      time.Now,
	}, nil
}

func (s *Signer) KeyID() string { return s.keyID }

func (s *Signer) TTL() time.Duration { return s.ttl }

func (s *Signer) Issue(a *Account) (IssuedToken, error) {
	now := s.now()
	issued := IssuedToken{
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
	}

	tok, err := jwt.NewBuilder().
		JwtID(issued.ID).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		Subject(a.ID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(issued.ExpiresAt).
		Claim(claimType, accessTokenTyp).
		Claim(claimRole, a.Role).
		Claim(claimPlan, a.Plan).
		Claim(claimVersion, a.TokenVersion).
		Build()
	if err != nil {
		return IssuedToken{}, fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.ES256(), s.private))
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign access token: %w", err)
	}

	issued.Token = string(signed)
	return issued, nil
}

// Parse checks signature, issuer, audience and time claims. It does not
// consult revocations.
func (s *Signer) Parse(raw string) (*middleware.AccessTokenClaims, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.ES256(), s.public),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		if isExpired(err) {
			return nil, fmt.Errorf("parse access token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("parse access token: %w", core.ErrTokenInvalid)
	}

	var (
		typ     string
		claims  middleware.AccessTokenClaims
		version float64
		ok      bool
	)
	if err := tok.Get(claimType, &typ); err != nil || typ != accessTokenTyp {
		return nil, fmt.Errorf("parse access token: wrong type: %w", core.ErrTokenInvalid)
	}
	if claims.UserID, ok = tok.Subject(); !ok || claims.UserID == "" {
		return nil, fmt.Errorf("parse access token: no subject: %w", core.ErrTokenInvalid)
	}
	if claims.ID, ok = tok.JwtID(); !ok {
		return nil, fmt.Errorf("parse access token: no jti: %w", core.ErrTokenInvalid)
	}
	if claims.ExpiresAt, ok = tok.Expiration(); !ok {
		return nil, fmt.Errorf("parse access token: no exp: %w", core.ErrTokenInvalid)
	}
	if tok.Get(claimRole, &claims.Role) != nil ||
		tok.Get(claimPlan, &claims.Plan) != nil ||
		tok.Get(claimVersion, &version) != nil {
		return nil, fmt.Errorf("parse access token: missing claims: %w", core.ErrTokenInvalid)
	}
	claims.TokenVersion = int(version)

	return &claims, nil
}

func isExpired(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, `"exp"`) && strings.Contains(msg, "not satisfied")
}

func (s *Signer) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(s.jwks)
	}
}
