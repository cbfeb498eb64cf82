package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Verifier checks a bearer token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// TokenClaims is the JWT body issued by the identity provider (Cognito ID or
// access token layout).
type TokenClaims struct {
	TokenUse string   `json:"token_use,omitempty"`
	Username string   `json:"cognito:username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Groups   []string `json:"cognito:groups,omitempty"`
	ClientID string   `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

func (tc *TokenClaims) toClaims() *Claims {
	username := tc.Username
	if username == "" {
		username = tc.Email
	}
	return &Claims{
		Subject:  tc.Subject,
		Username: username,
		Email:    tc.Email,
		Groups:   tc.Groups,
	}
}

// HMACVerifier verifies HS256 tokens signed with a shared secret. Used for local
// development and tests, where no identity provider is available.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(_ context.Context, tokenStr string) (*Claims, error) {
	tc := &TokenClaims{}
	t, err := jwt.ParseWithClaims(tokenStr, tc, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}
	return tc.toClaims(), nil
}

// GenerateToken issues an HS256 token understood by HMACVerifier.
func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	tc := TokenClaims{
		TokenUse: "id",
		Username: claims.Username,
		Email:    claims.Email,
		Groups:   claims.Groups,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString([]byte(secret))
}

// JWKSVerifier verifies RS256 tokens against the identity provider's published keys.
type JWKSVerifier struct {
	keys     *JWKSCache
	issuer   string
	clientID string
}

// NewJWKSVerifier builds a verifier. issuer and clientID are checked only when non-empty.
func NewJWKSVerifier(keys *JWKSCache, issuer, clientID string) *JWKSVerifier {
	return &JWKSVerifier{keys: keys, issuer: issuer, clientID: clientID}
}

func (v *JWKSVerifier) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	tc := &TokenClaims{}
	t, err := jwt.ParseWithClaims(tokenStr, tc, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid header")
		}
		return v.keys.GetKey(ctx, kid)
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}

	if v.clientID != "" && !v.audienceMatches(tc) {
		return nil, fmt.Errorf("%w: token not issued for this client", ErrInvalidToken)
	}
	return tc.toClaims(), nil
}

// ID tokens carry the app client in aud, access tokens in client_id.
func (v *JWKSVerifier) audienceMatches(tc *TokenClaims) bool {
	if tc.ClientID == v.clientID {
		return true
	}
	for _, aud := range tc.Audience {
		if aud == v.clientID {
			return true
		}
	}
	return false
}
