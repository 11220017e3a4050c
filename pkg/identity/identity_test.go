package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

const testSecret = "local-test-secret"

func mintToken(t *testing.T, subject string, appMeta, userMeta map[string]any, expiry time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(expiry).Unix(),
	}
	if appMeta != nil {
		claims["app_metadata"] = appMeta
	}
	if userMeta != nil {
		claims["user_metadata"] = userMeta
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestLocalVerifier_ResolvesPrincipal(t *testing.T) {
	verifier, err := NewLocalVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewLocalVerifier returned error: %v", err)
	}

	userID := uuid.New()
	storeID := uuid.New()
	token := mintToken(t, userID.String(), map[string]any{
		"type":    "merchant",
		"storeId": storeID.String(),
		"role":    "admin",
	}, nil, time.Hour)

	principal, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if principal.ID != userID {
		t.Fatalf("principal id = %s, want %s", principal.ID, userID)
	}
	if !principal.IsMerchant() {
		t.Fatalf("expected merchant principal, got %s", principal.Type)
	}
	if principal.StoreID == nil || *principal.StoreID != storeID {
		t.Fatalf("store id not carried through")
	}
	if principal.Role == nil || *principal.Role != enums.MerchantRoleAdmin {
		t.Fatalf("role not carried through")
	}
}

func TestLocalVerifier_UserMetadataFallback(t *testing.T) {
	verifier, err := NewLocalVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewLocalVerifier returned error: %v", err)
	}

	userID := uuid.New()
	token := mintToken(t, userID.String(), nil, map[string]any{"type": "customer"}, time.Hour)

	principal, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !principal.IsCustomer() {
		t.Fatalf("expected customer principal, got %s", principal.Type)
	}
}

func TestLocalVerifier_RejectsBadTokens(t *testing.T) {
	verifier, err := NewLocalVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewLocalVerifier returned error: %v", err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "expired", token: mintToken(t, uuid.NewString(), map[string]any{"type": "customer"}, nil, -time.Minute)},
		{name: "missing type", token: mintToken(t, uuid.NewString(), nil, nil, time.Hour)},
		{name: "unknown type", token: mintToken(t, uuid.NewString(), map[string]any{"type": "bot"}, nil, time.Hour)},
		{name: "missing subject", token: mintToken(t, "", map[string]any{"type": "customer"}, nil, time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), tc.token)
			if err == nil {
				t.Fatal("expected Verify to fail")
			}
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestRemoteVerifier_ResolvesPrincipal(t *testing.T) {
	userID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid token"})
			return
		}
		_ = json.NewEncoder(w).Encode(User{
			ID:          userID.String(),
			Email:       "buyer@example.com",
			AppMetadata: map[string]any{"type": "customer"},
		})
	}))
	defer srv.Close()

	provider, err := NewProviderClient(config.IdentityConfig{BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("NewProviderClient returned error: %v", err)
	}
	verifier, err := NewRemoteVerifier(provider)
	if err != nil {
		t.Fatalf("NewRemoteVerifier returned error: %v", err)
	}

	principal, err := verifier.Verify(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if principal.ID != userID {
		t.Fatalf("principal id = %s, want %s", principal.ID, userID)
	}

	_, err = verifier.Verify(context.Background(), "bad-token")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for rejected token, got %v", err)
	}
}

func TestProviderClient_SignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.String())
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["password"] != "hunter2" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(Session{AccessToken: "at", RefreshToken: "rt"})
	}))
	defer srv.Close()

	provider, err := NewProviderClient(config.IdentityConfig{BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("NewProviderClient returned error: %v", err)
	}

	session, err := provider.SignInWithPassword(context.Background(), "buyer@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignInWithPassword returned error: %v", err)
	}
	if session.AccessToken != "at" || session.RefreshToken != "rt" {
		t.Fatalf("unexpected session %+v", session)
	}

	_, err = provider.SignInWithPassword(context.Background(), "buyer@example.com", "wrong")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for rejected credentials, got %v", err)
	}
}
