package uploads

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type stubUploadsRepo struct {
	merchant *models.Merchant
	store    *models.Store
	member   bool
	product  *models.Product
	order    *models.Order

	productURL string
	bannerURL  string
	proofURL   string
}

func (s *stubUploadsRepo) FindMerchantByAuthID(context.Context, uuid.UUID) (*models.Merchant, error) {
	return s.merchant, nil
}

func (s *stubUploadsRepo) FindStore(context.Context, uuid.UUID) (*models.Store, error) {
	return s.store, nil
}

func (s *stubUploadsRepo) HasActiveMembership(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return s.member, nil
}

func (s *stubUploadsRepo) FindProduct(context.Context, uuid.UUID) (*models.Product, error) {
	return s.product, nil
}

func (s *stubUploadsRepo) FindOrder(context.Context, uuid.UUID) (*models.Order, error) {
	return s.order, nil
}

func (s *stubUploadsRepo) SetProductImageURL(_ context.Context, _ uuid.UUID, url string) error {
	s.productURL = url
	return nil
}

func (s *stubUploadsRepo) SetStoreBannerURL(_ context.Context, _ uuid.UUID, url string) error {
	s.bannerURL = url
	return nil
}

func (s *stubUploadsRepo) SetOrderDeliveryProofURL(_ context.Context, _ uuid.UUID, url string) error {
	s.proofURL = url
	return nil
}

type stubUploader struct {
	object      string
	contentType string
	calls       int
}

func (s *stubUploader) UploadObject(_ context.Context, bucket, object, contentType string, _ io.Reader) (string, error) {
	s.calls++
	s.object = object
	s.contentType = contentType
	return "https://storage.googleapis.com/" + bucket + "/" + object, nil
}

func newUploadsFixture(t *testing.T) (*stubUploadsRepo, *stubUploader, Service) {
	t.Helper()
	merchant := &models.Merchant{ID: uuid.New(), AuthUserID: uuid.New()}
	store := &models.Store{ID: uuid.New(), MerchantID: merchant.ID, IsActive: true}
	repo := &stubUploadsRepo{merchant: merchant, store: store}

	logg := logger.New(logger.Options{ServiceName: "uploads-test", Output: io.Discard})
	uploader := &stubUploader{}
	svc, err := NewService(repo, uploader, "vitrine-media", logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return repo, uploader, svc
}

func pngFile() FileInput {
	return FileInput{ContentType: "image/png", Size: 128, Body: strings.NewReader("png-bytes")}
}

func TestUploadProductImageStoresURL(t *testing.T) {
	repo, uploader, svc := newUploadsFixture(t)
	productID := uuid.New()
	repo.product = &models.Product{ID: productID, StoreID: repo.store.ID}

	url, err := svc.UploadProductImage(context.Background(), repo.merchant.AuthUserID, repo.store.ID, productID, pngFile())
	if err != nil {
		t.Fatalf("UploadProductImage: %v", err)
	}
	if uploader.calls != 1 || uploader.contentType != "image/png" {
		t.Fatalf("unexpected uploader call: %+v", uploader)
	}
	if !strings.Contains(uploader.object, "stores/"+repo.store.ID.String()+"/products/"+productID.String()+"/") {
		t.Fatalf("object path not entity scoped: %s", uploader.object)
	}
	if !strings.HasSuffix(uploader.object, ".png") {
		t.Fatalf("expected png extension, got %s", uploader.object)
	}
	if repo.productURL != url {
		t.Fatalf("url not written back to row: %q vs %q", repo.productURL, url)
	}
}

func TestUploadProductImageForeignProductIsNotFound(t *testing.T) {
	repo, uploader, svc := newUploadsFixture(t)
	repo.product = &models.Product{ID: uuid.New(), StoreID: uuid.New()}

	_, err := svc.UploadProductImage(context.Background(), repo.merchant.AuthUserID, repo.store.ID, repo.product.ID, pngFile())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if uploader.calls != 0 {
		t.Fatal("nothing may be uploaded for a foreign product")
	}
}

func TestUploadRejectsNonImagePayload(t *testing.T) {
	repo, uploader, svc := newUploadsFixture(t)

	file := FileInput{ContentType: "application/pdf", Size: 64, Body: strings.NewReader("%PDF")}
	_, err := svc.UploadStoreBanner(context.Background(), repo.merchant.AuthUserID, repo.store.ID, file)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if uploader.calls != 0 {
		t.Fatal("invalid payloads must not reach storage")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	repo, _, svc := newUploadsFixture(t)

	file := FileInput{ContentType: "image/jpeg", Size: maxUploadBytes + 1, Body: strings.NewReader("x")}
	_, err := svc.UploadStoreBanner(context.Background(), repo.merchant.AuthUserID, repo.store.ID, file)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadDeliveryProofRequiresStoreOrder(t *testing.T) {
	repo, uploader, svc := newUploadsFixture(t)
	orderID := uuid.New()
	repo.order = &models.Order{ID: orderID, StoreID: repo.store.ID}

	url, err := svc.UploadDeliveryProof(context.Background(), repo.merchant.AuthUserID, repo.store.ID, orderID, pngFile())
	if err != nil {
		t.Fatalf("UploadDeliveryProof: %v", err)
	}
	if repo.proofURL != url {
		t.Fatalf("proof url not persisted: %q", repo.proofURL)
	}

	repo.order = &models.Order{ID: orderID, StoreID: uuid.New()}
	_, err = svc.UploadDeliveryProof(context.Background(), repo.merchant.AuthUserID, repo.store.ID, orderID, pngFile())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
	if uploader.calls != 1 {
		t.Fatalf("foreign order must not upload, calls=%d", uploader.calls)
	}
}

func TestUploadForbiddenForNonMember(t *testing.T) {
	repo, _, svc := newUploadsFixture(t)
	repo.store.MerchantID = uuid.New()
	repo.member = false

	_, err := svc.UploadStoreBanner(context.Background(), repo.merchant.AuthUserID, repo.store.ID, pngFile())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
