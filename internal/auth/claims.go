// Package auth resolves who is calling.
//
// Verified claims reach a request context in one of two ways: the HTTP middleware
// verifies a bearer token, or the serverless adapter copies the claims that API
// Gateway's authorizer already verified. CallerID turns whatever is there into the
// owner key used for reading-list storage.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Anonymous is the owner key of callers without verified claims.
const Anonymous = "anonymous"

// UserIDParam is the query parameter unverified callers may use to pick an owner.
const UserIDParam = "userId"

// Claims are the verified identity attributes of a caller.
type Claims struct {
	Subject  string
	Username string
	Email    string
	Groups   []string
}

// InGroup reports whether the caller belongs to group.
func (c *Claims) InGroup(group string) bool {
	if c == nil || group == "" {
		return false
	}
	return slices.Contains(c.Groups, group)
}

type claimsKey struct{}

// ContextWithClaims marks ctx as carrying verified claims.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFrom returns the verified claims in ctx, or nil.
func ClaimsFrom(ctx context.Context) *Claims {
	if c, ok := ctx.Value(claimsKey{}).(*Claims); ok {
		return c
	}
	return nil
}

// IdentityFromClaims returns sub, falling back to the username claim.
func IdentityFromClaims(c *Claims) string {
	if c == nil {
		return ""
	}
	if c.Subject != "" {
		return c.Subject
	}
	return c.Username
}

// CallerID returns the owner key for r: the verified identity when present,
// otherwise the userId query parameter, otherwise Anonymous.
//
// The fallback lets any unauthenticated caller act as "anonymous" or as any
// userId it names. Servers that cannot accept that run with anonymous access
// disabled (see RequireIdentity).
func CallerID(r *http.Request) string {
	if id := IdentityFromClaims(ClaimsFrom(r.Context())); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.URL.Query().Get(UserIDParam)); id != "" {
		return id
	}
	return Anonymous
}

// ClaimsFromMap converts an authorizer claims map (API Gateway Cognito
// authorizer format) into Claims. It returns nil for an empty map.
func ClaimsFromMap(m map[string]any) *Claims {
	if len(m) == 0 {
		return nil
	}
	c := &Claims{
		Subject:  stringClaim(m["sub"]),
		Username: stringClaim(m["cognito:username"]),
		Email:    stringClaim(m["email"]),
		Groups:   groupsClaim(m["cognito:groups"]),
	}
	if c.Username == "" {
		c.Username = stringClaim(m["username"])
	}
	return c
}

func stringClaim(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// groupsClaim accepts a JSON array, or the string forms API Gateway produces:
// "[admin readers]" or "admin,readers".
func groupsClaim(v any) []string {
	switch g := v.(type) {
	case []string:
		return g
	case []any:
		out := make([]string, 0, len(g))
		for _, item := range g {
			if s := stringClaim(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		g = strings.Trim(strings.TrimSpace(g), "[]")
		if g == "" {
			return nil
		}
		return strings.FieldsFunc(g, func(r rune) bool { return r == ',' || r == ' ' })
	default:
		return nil
	}
}
