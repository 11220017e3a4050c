package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// Service exposes the public catalog read paths.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters, page pagination.Params) (*ProductList, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)
	GetStore(ctx context.Context, id uuid.UUID) (*StoreDetail, error)
	GetStoreBySlug(ctx context.Context, slug string) (*StoreDetail, error)
	ListStores(ctx context.Context, filters StoreFilters, page pagination.Params) (*StoreList, error)
}

type catalogReader interface {
	ListProducts(ctx context.Context, filters ProductFilters, page pagination.Params) ([]ProductRecord, int64, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*ProductRecord, error)
	ListActiveProductsByStore(ctx context.Context, storeID uuid.UUID) ([]ProductRecord, error)
	GetStoreByID(ctx context.Context, id uuid.UUID) (*StoreRecord, error)
	GetStoreBySlug(ctx context.Context, slug string) (*StoreRecord, error)
	ListStores(ctx context.Context, filters StoreFilters, page pagination.Params) ([]StoreRecord, int64, error)
}

type service struct {
	repo catalogReader
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo catalogReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters, page pagination.Params) (*ProductList, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.repo.ListProducts(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	products := make([]ProductView, 0, len(rows))
	for _, row := range rows {
		products = append(products, productViewFromRecord(row))
	}
	return &ProductList{
		Products:   products,
		Pagination: pagination.NewMeta(page, total),
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	row, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	view := productViewFromRecord(*row)
	return &view, nil
}

func (s *service) GetStore(ctx context.Context, id uuid.UUID) (*StoreDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	row, err := s.repo.GetStoreByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	return s.buildStoreDetail(ctx, row)
}

func (s *service) GetStoreBySlug(ctx context.Context, slug string) (*StoreDetail, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug required")
	}
	row, err := s.repo.GetStoreBySlug(ctx, slug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store by slug")
	}
	return s.buildStoreDetail(ctx, row)
}

func (s *service) ListStores(ctx context.Context, filters StoreFilters, page pagination.Params) (*StoreList, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.repo.ListStores(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stores")
	}
	stores := make([]StoreView, 0, len(rows))
	for _, row := range rows {
		stores = append(stores, storeViewFromRecord(row))
	}
	return &StoreList{
		Stores:     stores,
		Pagination: pagination.NewMeta(page, total),
	}, nil
}

func (s *service) buildStoreDetail(ctx context.Context, row *StoreRecord) (*StoreDetail, error) {
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	productRows, err := s.repo.ListActiveProductsByStore(ctx, row.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list store products")
	}
	products := make([]ProductView, 0, len(productRows))
	for _, productRow := range productRows {
		products = append(products, productViewFromRecord(productRow))
	}
	return &StoreDetail{
		StoreView: storeViewFromRecord(*row),
		Products:  products,
	}, nil
}
