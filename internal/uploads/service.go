package uploads

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

const maxUploadBytes = 10 * 1024 * 1024

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type objectUploader interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) (string, error)
}

// FileInput is one received multipart file.
type FileInput struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service stores entity-scoped images in the blob store and records the
// resulting public URL on the owning row.
type Service interface {
	UploadProductImage(ctx context.Context, authUserID, storeID, productID uuid.UUID, file FileInput) (string, error)
	UploadStoreBanner(ctx context.Context, authUserID, storeID uuid.UUID, file FileInput) (string, error)
	UploadDeliveryProof(ctx context.Context, authUserID, storeID, orderID uuid.UUID, file FileInput) (string, error)
}

type service struct {
	repo    Repository
	storage objectUploader
	bucket  string
	logg    *logger.Logger
}

// NewService builds the uploads service.
func NewService(repo Repository, storage objectUploader, bucket string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("uploads repository is required")
	}
	if storage == nil {
		return nil, fmt.Errorf("object storage client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, storage: storage, bucket: bucket, logg: logg}, nil
}

func (s *service) UploadProductImage(ctx context.Context, authUserID, storeID, productID uuid.UUID, file FileInput) (string, error) {
	ext, err := validateImage(file)
	if err != nil {
		return "", err
	}
	if _, err := s.authorize(ctx, authUserID, storeID); err != nil {
		return "", err
	}

	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil || product.StoreID != storeID {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	object := fmt.Sprintf("stores/%s/products/%s/%s.%s", storeID, productID, uuid.NewString(), ext)
	url, err := s.storage.UploadObject(ctx, s.bucket, object, file.ContentType, file.Body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: upload product image")
	}

	if err := s.repo.SetProductImageURL(ctx, productID, url); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: store product image url")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"store_id":   storeID.String(),
		"product_id": productID.String(),
		"object":     object,
	})
	s.logg.Info(logCtx, "product image uploaded")
	return url, nil
}

func (s *service) UploadStoreBanner(ctx context.Context, authUserID, storeID uuid.UUID, file FileInput) (string, error) {
	ext, err := validateImage(file)
	if err != nil {
		return "", err
	}
	if _, err := s.authorize(ctx, authUserID, storeID); err != nil {
		return "", err
	}

	object := fmt.Sprintf("stores/%s/banner/%s.%s", storeID, uuid.NewString(), ext)
	url, err := s.storage.UploadObject(ctx, s.bucket, object, file.ContentType, file.Body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: upload store banner")
	}

	if err := s.repo.SetStoreBannerURL(ctx, storeID, url); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: store banner url")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"store_id": storeID.String(),
		"object":   object,
	})
	s.logg.Info(logCtx, "store banner uploaded")
	return url, nil
}

func (s *service) UploadDeliveryProof(ctx context.Context, authUserID, storeID, orderID uuid.UUID, file FileInput) (string, error) {
	ext, err := validateImage(file)
	if err != nil {
		return "", err
	}
	if _, err := s.authorize(ctx, authUserID, storeID); err != nil {
		return "", err
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	if order == nil || order.StoreID != storeID {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	object := fmt.Sprintf("stores/%s/orders/%s/proof/%s.%s", storeID, orderID, uuid.NewString(), ext)
	url, err := s.storage.UploadObject(ctx, s.bucket, object, file.ContentType, file.Body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: upload delivery proof")
	}

	if err := s.repo.SetOrderDeliveryProofURL(ctx, orderID, url); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: store delivery proof url")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"store_id": storeID.String(),
		"order_id": orderID.String(),
		"object":   object,
	})
	s.logg.Info(logCtx, "delivery proof uploaded")
	return url, nil
}

func (s *service) authorize(ctx context.Context, authUserID, storeID uuid.UUID) (*models.Merchant, error) {
	if authUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	merchant, err := s.repo.FindMerchantByAuthID(ctx, authUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load merchant")
	}
	if merchant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant account not found")
	}

	store, err := s.repo.FindStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	if store.MerchantID != merchant.ID {
		member, err := s.repo.HasActiveMembership(ctx, store.ID, merchant.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check store membership")
		}
		if !member {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store does not belong to merchant")
		}
	}
	return merchant, nil
}

func validateImage(file FileInput) (string, error) {
	if file.Body == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if file.Size <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if file.Size > maxUploadBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file must be at most %d bytes", maxUploadBytes))
	}

	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file must be a png, jpeg, webp, or gif image")
	}
	return ext, nil
}
