package stores

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type stubStoreRepo struct {
	store      *models.Store
	merchant   *models.Merchant
	member     bool
	err        error
	setActive  []bool
	updates    map[string]any
	address    *AddressInput
	hoursSaved []models.StoreWorkingHour
}

func (s *stubStoreRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubStoreRepo) FindByID(context.Context, uuid.UUID) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.store, nil
}

func (s *stubStoreRepo) FindMerchantByAuthID(context.Context, uuid.UUID) (*models.Merchant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.merchant, nil
}

func (s *stubStoreRepo) HasActiveMembership(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return s.member, nil
}

func (s *stubStoreRepo) UpdateStore(_ context.Context, _ uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubStoreRepo) UpsertAddress(_ context.Context, _ uuid.UUID, input AddressInput) error {
	s.address = &input
	return nil
}

func (s *stubStoreRepo) ReplaceWorkingHours(_ context.Context, _ uuid.UUID, entries []models.StoreWorkingHour) error {
	s.hoursSaved = entries
	return nil
}

func (s *stubStoreRepo) SetActive(_ context.Context, _ uuid.UUID, active bool) error {
	s.setActive = append(s.setActive, active)
	return nil
}

type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

func newStoreService(t *testing.T, repo Repository) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "stores-test", Output: io.Discard})
	svc, err := NewService(repo, stubTxRunner{}, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func ownedFixture() (*models.Store, *models.Merchant) {
	merchant := &models.Merchant{ID: uuid.New(), AuthUserID: uuid.New()}
	store := &models.Store{
		ID:         uuid.New(),
		MerchantID: merchant.ID,
		Name:       "Vitrine Burgers",
		Slug:       "vitrine-burgers",
		Category:   "burgers",
		IsActive:   true,
	}
	return store, merchant
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "stores-test", Output: io.Discard})
	if _, err := NewService(nil, stubTxRunner{}, logg); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(&stubStoreRepo{}, nil, logg); err == nil {
		t.Fatal("expected error without tx runner")
	}
	if _, err := NewService(&stubStoreRepo{}, stubTxRunner{}, nil); err == nil {
		t.Fatal("expected error without logger")
	}
}

func TestGetStoreForbiddenForNonMember(t *testing.T) {
	store, _ := ownedFixture()
	stranger := &models.Merchant{ID: uuid.New(), AuthUserID: uuid.New()}
	repo := &stubStoreRepo{store: store, merchant: stranger}
	svc := newStoreService(t, repo)

	_, err := svc.GetStore(context.Background(), stranger.AuthUserID, store.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetStoreAllowsActiveMember(t *testing.T) {
	store, _ := ownedFixture()
	member := &models.Merchant{ID: uuid.New(), AuthUserID: uuid.New()}
	repo := &stubStoreRepo{store: store, merchant: member, member: true}
	svc := newStoreService(t, repo)

	got, err := svc.GetStore(context.Background(), member.AuthUserID, store.ID)
	if err != nil {
		t.Fatalf("GetStore: %v", err)
	}
	if got.ID != store.ID {
		t.Fatalf("expected store %s, got %s", store.ID, got.ID)
	}
}

func TestGetStoreNotFound(t *testing.T) {
	_, merchant := ownedFixture()
	repo := &stubStoreRepo{merchant: merchant}
	svc := newStoreService(t, repo)

	_, err := svc.GetStore(context.Background(), merchant.AuthUserID, uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetStoreUnknownMerchant(t *testing.T) {
	store, _ := ownedFixture()
	repo := &stubStoreRepo{store: store}
	svc := newStoreService(t, repo)

	_, err := svc.GetStore(context.Background(), uuid.New(), store.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestUpdateStoreAppliesFieldsAndSchedule(t *testing.T) {
	store, merchant := ownedFixture()
	repo := &stubStoreRepo{store: store, merchant: merchant}
	svc := newStoreService(t, repo)

	name := "New Name"
	open := "10:00"
	closeAt := "20:00"
	_, err := svc.UpdateStore(context.Background(), UpdateStoreInput{
		StoreID:    store.ID,
		AuthUserID: merchant.AuthUserID,
		Name:       &name,
		WorkingHours: []WorkingHourInput{
			{Weekday: 1, OpenTime: &open, CloseTime: &closeAt},
		},
	})
	if err != nil {
		t.Fatalf("UpdateStore: %v", err)
	}
	if repo.updates["name"] != name {
		t.Fatalf("expected name update, got %+v", repo.updates)
	}
	if len(repo.hoursSaved) != 1 || repo.hoursSaved[0].Weekday != 1 {
		t.Fatalf("expected schedule replacement, got %+v", repo.hoursSaved)
	}
}

func TestUpdateStoreRejectsInvalidSchedule(t *testing.T) {
	store, merchant := ownedFixture()
	repo := &stubStoreRepo{store: store, merchant: merchant}
	svc := newStoreService(t, repo)

	bad := "25:00"
	_, err := svc.UpdateStore(context.Background(), UpdateStoreInput{
		StoreID:      store.ID,
		AuthUserID:   merchant.AuthUserID,
		WorkingHours: []WorkingHourInput{{Weekday: 1, OpenTime: &bad, CloseTime: &bad}},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestToggleActiveFlips(t *testing.T) {
	store, merchant := ownedFixture()
	repo := &stubStoreRepo{store: store, merchant: merchant}
	svc := newStoreService(t, repo)

	got, err := svc.ToggleActive(context.Background(), merchant.AuthUserID, store.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if got.IsActive {
		t.Fatal("expected active store to become inactive")
	}
	if len(repo.setActive) != 1 || repo.setActive[0] {
		t.Fatalf("expected SetActive(false), got %+v", repo.setActive)
	}
}

func TestGetStatusDependencyError(t *testing.T) {
	repo := &stubStoreRepo{err: errors.New("db down")}
	svc := newStoreService(t, repo)

	_, err := svc.GetStatus(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
