package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// PermissionsClaim is the private claim holding the granted scopes.
const PermissionsClaim = "permissions"

const bearerScheme = "Bearer"

// Claims is the verified token payload handed to route handlers.
type Claims struct {
	Subject     string
	Permissions []string
	Token       jwt.Token
}

// HasPermission reports whether the permission was granted.
func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// Gate admits or rejects requests based on their bearer credential.
type Gate struct {
	keys     KeySource
	issuer   string
	audience string
	alg      jwa.SignatureAlgorithm
}

// NewGate creates a Gate verifying tokens with keys from the given source.
func NewGate(keys KeySource, cfg config.IdP) (*Gate, error) {
	alg, ok := jwa.LookupSignatureAlgorithm(cfg.Algorithm)
	if !ok {
		return nil, fmt.Errorf("unsupported signature algorithm %q", cfg.Algorithm)
	}
	return &Gate{
		keys:     keys,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		alg:      alg,
	}, nil
}

// Authorize verifies the Authorization header value and checks that the token
// grants permission. A denial is returned as *AuthError; any other error means
// the gate could not reach a decision (e.g. the key set is unavailable).
func (g *Gate) Authorize(ctx context.Context, header, permission string) (*Claims, error) {
	raw, authErr := bearerToken(header)
	if authErr != nil {
		return nil, authErr
	}

	kid, authErr := keyID(raw)
	if authErr != nil {
		return nil, authErr
	}

	key, err := g.keys.LookupKey(ctx, kid)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, errKeyNotFound
		}
		return nil, fmt.Errorf("failed to resolve signing key: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(g.alg, key),
		jwt.WithValidate(true),
		jwt.WithIssuer(g.issuer),
		jwt.WithAudience(g.audience),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.TokenExpiredError()):
			return nil, errTokenExpired
		case errors.Is(err, jwt.InvalidIssuerError()), errors.Is(err, jwt.InvalidAudienceError()):
			return nil, errIncorrectClaims
		default:
			return nil, errUnparsableToken
		}
	}

	permissions, ok := permissionsOf(token)
	if !ok {
		return nil, errMissingPermission
	}
	claims := &Claims{Permissions: permissions, Token: token}
	claims.Subject, _ = token.Subject()

	if !claims.HasPermission(permission) {
		return nil, errPermissionDenied
	}
	return claims, nil
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, *AuthError) {
	if header == "" {
		return "", errHeaderMissing
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return "", errNotBearer
	}
	return parts[1], nil
}

// keyID reads the kid from the protected header without verifying the signature.
func keyID(raw string) (string, *AuthError) {
	msg, err := jws.Parse([]byte(raw), jws.WithCompact())
	if err != nil {
		return "", errMalformedHeader
	}
	sigs := msg.Signatures()
	if len(sigs) == 0 {
		return "", errMalformedHeader
	}
	kid, ok := sigs[0].ProtectedHeaders().KeyID()
	if !ok || kid == "" {
		return "", errMalformedHeader
	}
	return kid, nil
}

func permissionsOf(token jwt.Token) ([]string, bool) {
	var raw any
	if err := token.Get(PermissionsClaim, &raw); err != nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		permissions := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			permissions = append(permissions, s)
		}
		return permissions, true
	default:
		return nil, false
	}
}
