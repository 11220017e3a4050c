package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the customer profile operations.
type Service interface {
	GetProfile(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.Customer, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the profile service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) GetProfile(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error) {
	customer, err := s.loadCustomer(ctx, authUserID)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.Customer, error) {
	customer, err := s.loadCustomer(ctx, input.AuthUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty").
			WithDetails(map[string]string{"name": "name cannot be empty"})
	}

	if input.Phone != nil && *input.Phone != customer.Phone {
		taken, err := s.repo.PhoneInUse(ctx, *input.Phone, customer.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check phone uniqueness")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone already in use").
				WithDetails(map[string]string{"phone": "phone already in use"})
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		updates := map[string]any{}
		if input.Name != nil {
			updates["name"] = strings.TrimSpace(*input.Name)
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if len(updates) > 0 {
			updates["updated_at"] = time.Now()
			if err := repo.UpdateCustomer(ctx, customer.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
			}
		}

		if input.Addresses != nil {
			if err := s.applyAddressChanges(ctx, repo, customer.ID, *input.Addresses); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "profile update transaction")
	}

	updated, err := s.repo.FindCustomerByAuthID(ctx, input.AuthUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload customer")
	}
	if updated == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	s.logg.Info(s.logg.WithUserID(ctx, customer.ID.String()), "customer profile updated")
	return updated, nil
}

// applyAddressChanges merges the address book mutation. Partial changes
// apply remove, then update, then add; across the whole batch only the
// first incoming default keeps its flag.
func (s *service) applyAddressChanges(ctx context.Context, repo Repository, customerID uuid.UUID, changes AddressChanges) error {
	switch changes.Kind {
	case AddressChangeReplace:
		if err := repo.SoftDeleteAllAddresses(ctx, customerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear address book")
		}
		defaultClaimed := false
		for _, item := range changes.Replace {
			if err := s.insertAddress(ctx, repo, customerID, item, &defaultClaimed); err != nil {
				return err
			}
		}
		return nil

	case AddressChangePartial:
		for _, id := range changes.Remove {
			address, err := repo.FindAddress(ctx, customerID, id)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load address")
			}
			if address == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			if err := repo.SoftDeleteAddress(ctx, address.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: remove address")
			}
		}

		defaultClaimed := false
		for _, item := range changes.Update {
			if err := s.applyAddressUpdate(ctx, repo, customerID, item, &defaultClaimed); err != nil {
				return err
			}
		}
		for _, item := range changes.Add {
			if err := s.insertAddress(ctx, repo, customerID, item, &defaultClaimed); err != nil {
				return err
			}
		}
		return nil

	default:
		return pkgerrors.New(pkgerrors.CodeBadRequest, "unknown address change kind")
	}
}

func (s *service) insertAddress(ctx context.Context, repo Repository, customerID uuid.UUID, input AddressInput, defaultClaimed *bool) error {
	isDefault := input.IsDefault
	if isDefault {
		if *defaultClaimed {
			isDefault = false
		} else {
			if err := repo.ClearDefaultAddresses(ctx, customerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default addresses")
			}
			*defaultClaimed = true
		}
	}

	addressType := input.AddressType
	if addressType == "" {
		addressType = enums.AddressTypeOther
	}
	if !addressType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid address type").
			WithDetails(map[string]string{"address_type": "must be home, work or other"})
	}

	address := models.CustomerAddress{
		CustomerID:   customerID,
		Label:        input.Label,
		AddressType:  addressType,
		Street:       input.Street,
		Number:       input.Number,
		Neighborhood: input.Neighborhood,
		City:         input.City,
		State:        input.State,
		ZipCode:      input.ZipCode,
		Complement:   input.Complement,
		Reference:    input.Reference,
		IsDefault:    isDefault,
	}
	if err := repo.CreateAddress(ctx, &address); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create address")
	}
	return nil
}

func (s *service) applyAddressUpdate(ctx context.Context, repo Repository, customerID uuid.UUID, input AddressUpdate, defaultClaimed *bool) error {
	address, err := repo.FindAddress(ctx, customerID, input.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load address")
	}
	if address == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}

	updates := map[string]any{}
	if input.Label != nil {
		updates["label"] = *input.Label
	}
	if input.AddressType != nil {
		if !input.AddressType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid address type").
				WithDetails(map[string]string{"address_type": "must be home, work or other"})
		}
		updates["address_type"] = *input.AddressType
	}
	if input.Street != nil {
		updates["street"] = *input.Street
	}
	if input.Number != nil {
		updates["number"] = *input.Number
	}
	if input.Neighborhood != nil {
		updates["neighborhood"] = *input.Neighborhood
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.State != nil {
		updates["state"] = *input.State
	}
	if input.ZipCode != nil {
		updates["zip_code"] = *input.ZipCode
	}
	if input.Complement != nil {
		updates["complement"] = *input.Complement
	}
	if input.Reference != nil {
		updates["reference"] = *input.Reference
	}

	if input.IsDefault != nil && *input.IsDefault {
		if *defaultClaimed {
			updates["is_default"] = false
		} else {
			if err := repo.ClearDefaultAddresses(ctx, customerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default addresses")
			}
			updates["is_default"] = true
			*defaultClaimed = true
		}
	} else if input.IsDefault != nil {
		updates["is_default"] = false
	}

	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	if err := repo.UpdateAddress(ctx, address.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update address")
	}
	return nil
}

func (s *service) loadCustomer(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error) {
	if authUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	customer, err := s.repo.FindCustomerByAuthID(ctx, authUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return customer, nil
}
