package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// RemoteVerifier verifies tokens with a round trip to the identity provider.
type RemoteVerifier struct {
	provider *ProviderClient
}

// NewRemoteVerifier wires a verifier onto an existing provider client.
func NewRemoteVerifier(provider *ProviderClient) (*RemoteVerifier, error) {
	if provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity provider client is required")
	}
	return &RemoteVerifier{provider: provider}, nil
}

// Verify resolves the token into a principal via the provider's user endpoint.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "access token is required")
	}

	user, err := v.provider.GetUser(ctx, token)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeDependency {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
	}

	return principalFromMetadata(token, user.ID, user.AppMetadata, user.UserMetadata)
}

// principalFromMetadata derives the local principal from provider metadata.
// app_metadata wins over user_metadata for every claim.
func principalFromMetadata(token, rawID string, appMeta, userMeta map[string]any) (*Principal, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token does not identify a user")
	}

	rawType := metadataString(appMeta, userMeta, "type")
	if rawType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token is missing the principal type")
	}
	principalType, err := enums.ParsePrincipalType(rawType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries an unknown principal type")
	}

	principal := &Principal{
		ID:    id,
		Type:  principalType,
		Token: token,
	}

	if rawStoreID := metadataString(appMeta, userMeta, "storeId"); rawStoreID != "" {
		storeID, err := uuid.Parse(rawStoreID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries a malformed store id")
		}
		principal.StoreID = &storeID
	}

	if rawRole := metadataString(appMeta, userMeta, "role"); rawRole != "" {
		role := enums.MerchantRole(rawRole)
		if role.IsValid() {
			principal.Role = &role
		}
	}

	return principal, nil
}

func metadataString(appMeta, userMeta map[string]any, key string) string {
	if v, ok := appMeta[key].(string); ok && v != "" {
		return v
	}
	if v, ok := userMeta[key].(string); ok && v != "" {
		return v
	}
	return ""
}
