package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	profilesvc "github.com/vitrinelabs/vitrine-backend/internal/profile"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

type stubProfileService struct {
	customer *models.Customer
	err      error

	updateInput profilesvc.UpdateProfileInput
}

func (s *stubProfileService) GetProfile(context.Context, uuid.UUID) (*models.Customer, error) {
	return s.customer, s.err
}

func (s *stubProfileService) UpdateProfile(_ context.Context, input profilesvc.UpdateProfileInput) (*models.Customer, error) {
	s.updateInput = input
	return s.customer, s.err
}

func TestUpdateProfileArrayPayloadReplacesAddresses(t *testing.T) {
	stub := &stubProfileService{customer: &models.Customer{}}

	body := `{
		"name": "Ana",
		"addresses": [{
			"address_type": "home",
			"street": "Rua A",
			"number": "10",
			"neighborhood": "Centro",
			"city": "Sao Paulo",
			"state": "SP",
			"zip_code": "01000-000"
		}]
	}`
	ctx, authUserID := principalContext(context.Background(), enums.PrincipalTypeCustomer)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/profile", strings.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	UpdateProfile(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.updateInput.AuthUserID != authUserID {
		t.Fatalf("expected caller id on input")
	}
	changes := stub.updateInput.Addresses
	if changes == nil || changes.Kind != profilesvc.AddressChangeReplace {
		t.Fatalf("expected replace change set, got %+v", changes)
	}
	if len(changes.Replace) != 1 || changes.Replace[0].Street != "Rua A" {
		t.Fatalf("unexpected replace payload: %+v", changes.Replace)
	}
}

func TestUpdateProfileObjectPayloadAppliesPartialChanges(t *testing.T) {
	stub := &stubProfileService{customer: &models.Customer{}}
	removeID := uuid.New()

	body := `{
		"addresses": {
			"add": [{
				"address_type": "work",
				"street": "Av. B",
				"number": "200",
				"neighborhood": "Pinheiros",
				"city": "Sao Paulo",
				"state": "SP",
				"zip_code": "05400-000"
			}],
			"remove": ["` + removeID.String() + `"]
		}
	}`
	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeCustomer)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/auth/profile", strings.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	UpdateProfile(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	changes := stub.updateInput.Addresses
	if changes == nil || changes.Kind != profilesvc.AddressChangePartial {
		t.Fatalf("expected partial change set, got %+v", changes)
	}
	if len(changes.Add) != 1 || len(changes.Remove) != 1 || changes.Remove[0] != removeID {
		t.Fatalf("unexpected partial payload: %+v", changes)
	}
}

func TestUpdateProfileRejectsScalarAddresses(t *testing.T) {
	stub := &stubProfileService{customer: &models.Customer{}}

	ctx, _ := principalContext(context.Background(), enums.PrincipalTypeCustomer)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/profile",
		strings.NewReader(`{"addresses": "oops"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	UpdateProfile(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for scalar addresses, got %d", rec.Code)
	}
}

func TestGetProfileRequiresPrincipal(t *testing.T) {
	stub := &stubProfileService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile", nil)
	rec := httptest.NewRecorder()

	GetProfile(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", rec.Code)
	}
}
