package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

var jwtSigningMethod = jwt.SigningMethodHS256

type providerClaims struct {
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// LocalVerifier checks provider-issued tokens against the shared HS256
// secret without calling the provider. The claim layout mirrors what the
// provider embeds in its access tokens.
type LocalVerifier struct {
	secret []byte
}

// NewLocalVerifier builds a verifier for the provider's signing secret.
func NewLocalVerifier(secret string) (*LocalVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity jwt secret is required")
	}
	return &LocalVerifier{secret: []byte(secret)}, nil
}

// Verify parses and validates the token signature and expiry, then derives
// the principal from the embedded metadata claims.
func (v *LocalVerifier) Verify(_ context.Context, token string) (*Principal, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "access token is required")
	}

	claims := &providerClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
	}

	return principalFromMetadata(token, claims.Subject, claims.AppMetadata, claims.UserMetadata)
}
