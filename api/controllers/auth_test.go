package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	authsvc "github.com/vitrinelabs/vitrine-backend/internal/auth"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

type stubAuthService struct {
	customerResult *authsvc.CustomerAuthResult
	merchantResult *authsvc.MerchantAuthResult
	session        *authsvc.Session
	profile        *authsvc.Profile
	err            error

	signUpInput  authsvc.CustomerSignUpInput
	loggedOut    bool
	logoutToken  string
	refreshToken string
}

func (s *stubAuthService) CustomerSignUp(_ context.Context, input authsvc.CustomerSignUpInput) (*authsvc.CustomerAuthResult, error) {
	s.signUpInput = input
	return s.customerResult, s.err
}

func (s *stubAuthService) CustomerLogin(context.Context, authsvc.CustomerLoginInput) (*authsvc.CustomerAuthResult, error) {
	return s.customerResult, s.err
}

func (s *stubAuthService) MerchantLogin(context.Context, authsvc.MerchantLoginInput) (*authsvc.MerchantAuthResult, error) {
	return s.merchantResult, s.err
}

func (s *stubAuthService) Refresh(_ context.Context, input authsvc.RefreshInput) (*authsvc.Session, error) {
	s.refreshToken = input.RefreshToken
	return s.session, s.err
}

func (s *stubAuthService) Logout(_ context.Context, accessToken string) error {
	s.loggedOut = true
	s.logoutToken = accessToken
	return s.err
}

func (s *stubAuthService) GetProfile(context.Context, string) (*authsvc.Profile, error) {
	return s.profile, s.err
}

func TestCustomerSignUpCreated(t *testing.T) {
	storeID := uuid.New()
	stub := &stubAuthService{customerResult: &authsvc.CustomerAuthResult{}}

	body := `{
		"email": "ana@example.com",
		"password": "secret1",
		"name": "Ana",
		"phone": "+5511999990000",
		"store_id": "` + storeID.String() + `"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/customer/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	CustomerSignUp(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.signUpInput.StoreID != storeID {
		t.Fatalf("expected store id %s, got %s", storeID, stub.signUpInput.StoreID)
	}
}

func TestCustomerSignUpValidatesEmail(t *testing.T) {
	stub := &stubAuthService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/customer/signup",
		strings.NewReader(`{"email": "nope", "password": "secret1", "name": "Ana", "phone": "1", "store_id": "`+uuid.NewString()+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	CustomerSignUp(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed email, got %d", rec.Code)
	}
}

func TestAuthRefreshForwardsToken(t *testing.T) {
	stub := &stubAuthService{session: &authsvc.Session{AccessToken: "new"}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh",
		strings.NewReader(`{"refresh_token": "abc"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	AuthRefresh(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.refreshToken != "abc" {
		t.Fatalf("expected refresh token to reach the service, got %q", stub.refreshToken)
	}
}

func TestAuthLogoutRequiresPrincipal(t *testing.T) {
	stub := &stubAuthService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()

	AuthLogout(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer context, got %d", rec.Code)
	}
	if stub.loggedOut {
		t.Fatalf("expected no logout call")
	}
}

func TestAuthLogoutRevokesProviderSession(t *testing.T) {
	stub := &stubAuthService{}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeCustomer)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	AuthLogout(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !stub.loggedOut || stub.logoutToken != "access-token" {
		t.Fatalf("expected provider logout with bearer token, got %q", stub.logoutToken)
	}
}
