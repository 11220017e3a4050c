package controllers

import (
	"net/http"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	uploadsvc "github.com/vitrinelabs/vitrine-backend/internal/uploads"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

// multipartMemoryLimit bounds how much of the form body is buffered in
// memory before spilling to disk.
const multipartMemoryLimit = 4 << 20

func formFile(r *http.Request) (*uploadsvc.FileInput, func(), error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "request must be multipart/form-data")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required").
			WithDetails(map[string]string{"file": "multipart file field is required"})
	}
	input := &uploadsvc.FileInput{
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return input, func() { file.Close() }, nil
}

// UploadProductImage replaces the product's image and returns the public URL.
func UploadProductImage(svc uploadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authUserID, storeID, productID, err := productPathScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, closeFile, err := formFile(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		url, err := svc.UploadProductImage(r.Context(), authUserID, storeID, productID, *file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}

// UploadStoreBanner replaces the store banner and returns the public URL.
func UploadStoreBanner(svc uploadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := pathUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, closeFile, err := formFile(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		url, err := svc.UploadStoreBanner(r.Context(), principal.ID, storeID, *file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}

// UploadDeliveryProof attaches a delivery photo to a store order.
func UploadDeliveryProof(svc uploadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := pathUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, closeFile, err := formFile(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeFile()

		url, err := svc.UploadDeliveryProof(r.Context(), principal.ID, storeID, orderID, *file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}
