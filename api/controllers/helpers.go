package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/api/middleware"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/identity"
)

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
			WithDetails(map[string]string{name: "must be a valid uuid"})
	}
	return id, nil
}

func requirePrincipal(r *http.Request) (*identity.Principal, error) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil || principal.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return principal, nil
}

// productPathScope resolves the caller plus the storeId/productId path
// segments shared by the merchant product endpoints.
func productPathScope(r *http.Request) (authUserID, storeID, productID uuid.UUID, err error) {
	principal, err := requirePrincipal(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	storeID, err = pathUUID(r, "storeId")
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	productID, err = pathUUID(r, "productId")
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	return principal.ID, storeID, productID, nil
}
