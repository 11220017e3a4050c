package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/identity"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// providerGateway is the slice of the identity provider client the auth
// flows consume.
type providerGateway interface {
	SignUp(ctx context.Context, email, password string) (*identity.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*identity.User, error)
	FindUserByEmail(ctx context.Context, email string) (*identity.User, error)
}

// Service exposes signup/login/session flows. All credentials live on the
// identity provider; this service only keeps local customer and merchant
// rows in sync.
type Service interface {
	CustomerSignUp(ctx context.Context, input CustomerSignUpInput) (*CustomerAuthResult, error)
	CustomerLogin(ctx context.Context, input CustomerLoginInput) (*CustomerAuthResult, error)
	MerchantLogin(ctx context.Context, input MerchantLoginInput) (*MerchantAuthResult, error)
	Refresh(ctx context.Context, input RefreshInput) (*Session, error)
	Logout(ctx context.Context, accessToken string) error
	GetProfile(ctx context.Context, accessToken string) (*Profile, error)
}

type service struct {
	repo     Repository
	provider providerGateway
	tx       txRunner
	logg     *logger.Logger
}

// NewService builds the auth service.
func NewService(repo Repository, provider providerGateway, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auth repository is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("identity provider client is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, provider: provider, tx: tx, logg: logg}, nil
}

// CustomerSignUp registers (or reuses) the provider account, upserts the
// local customer row, and binds the customer to the store. A live active
// binding is a conflict.
func (s *service) CustomerSignUp(ctx context.Context, input CustomerSignUpInput) (*CustomerAuthResult, error) {
	if err := validateSignUpInput(input); err != nil {
		return nil, err
	}

	store, err := s.repo.FindStore(ctx, input.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if !store.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "store is not accepting registrations")
	}

	session, authUserID, err := s.establishProviderAccount(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	customer, err := s.repo.FindCustomerByAuthID(ctx, authUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}

	var binding *models.StoreCustomer
	if customer != nil {
		binding, err = s.repo.FindBinding(ctx, store.ID, customer.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store binding")
		}
		if binding != nil && binding.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer is already registered to this store")
		}
	}

	excludeID := uuid.Nil
	if customer != nil {
		excludeID = customer.ID
	}
	inUse, err := s.repo.PhoneInUse(ctx, input.Phone, excludeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check phone")
	}
	if inUse {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone already in use").
			WithDetails(map[string]string{"phone": "phone is already registered to another customer"})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if customer == nil {
			customer = &models.Customer{
				AuthUserID: authUserID,
				Name:       input.Name,
				Phone:      input.Phone,
			}
			if err := repo.CreateCustomer(ctx, customer); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
			}
		} else if customer.Name != input.Name || customer.Phone != input.Phone {
			updates := map[string]any{"name": input.Name, "phone": input.Phone}
			if err := repo.UpdateCustomer(ctx, customer.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
			}
			customer.Name = input.Name
			customer.Phone = input.Phone
		}

		if binding == nil {
			created := &models.StoreCustomer{
				StoreID:    store.ID,
				CustomerID: customer.ID,
				IsActive:   true,
			}
			if err := repo.CreateBinding(ctx, created); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert store binding")
			}
			return nil
		}
		if err := repo.ReactivateBinding(ctx, binding.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reactivate store binding")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "customer signup transaction")
	}

	ctx = s.logg.WithStoreID(s.logg.WithUserID(ctx, authUserID.String()), store.ID.String())
	s.logg.Info(ctx, "customer signed up")

	return &CustomerAuthResult{
		Session:  sessionFrom(session),
		Customer: customerSummary(customer),
	}, nil
}

// CustomerLogin requires an active binding between the customer and the
// store next to valid provider credentials.
func (s *service) CustomerLogin(ctx context.Context, input CustomerLoginInput) (*CustomerAuthResult, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	session, err := s.provider.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	authUserID, err := providerUserID(session.User)
	if err != nil {
		return nil, err
	}

	customer, err := s.repo.FindCustomerByAuthID(ctx, authUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer account not found")
	}

	binding, err := s.repo.FindBinding(ctx, input.StoreID, customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store binding")
	}
	if binding == nil || !binding.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "customer is not registered to this store")
	}

	return &CustomerAuthResult{
		Session:  sessionFrom(session),
		Customer: customerSummary(customer),
	}, nil
}

func (s *service) MerchantLogin(ctx context.Context, input MerchantLoginInput) (*MerchantAuthResult, error) {
	session, err := s.provider.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	authUserID, err := providerUserID(session.User)
	if err != nil {
		return nil, err
	}

	merchant, err := s.repo.FindMerchantByAuthID(ctx, authUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load merchant")
	}
	if merchant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant account not found")
	}

	return &MerchantAuthResult{
		Session:  sessionFrom(session),
		Merchant: merchantSummary(merchant),
	}, nil
}

func (s *service) Refresh(ctx context.Context, input RefreshInput) (*Session, error) {
	if strings.TrimSpace(input.RefreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refresh token required")
	}
	session, err := s.provider.RefreshSession(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	result := sessionFrom(session)
	return &result, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "access token required")
	}
	return s.provider.SignOut(ctx, accessToken)
}

// GetProfile resolves the provider account and attaches the local row
// matching its principal type.
func (s *service) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "access token required")
	}
	user, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	authUserID, err := providerUserID(user)
	if err != nil {
		return nil, err
	}

	profile := &Profile{UserID: authUserID, Email: user.Email}

	merchant, err := s.repo.FindMerchantByAuthID(ctx, authUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load merchant")
	}
	if merchant != nil {
		profile.Type = enums.PrincipalTypeMerchant
		summary := merchantSummary(merchant)
		profile.Merchant = &summary
		return profile, nil
	}

	customer, err := s.repo.FindCustomerByAuthID(ctx, authUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account has no profile")
	}
	profile.Type = enums.PrincipalTypeCustomer
	summary := customerSummary(customer)
	profile.Customer = &summary
	return profile, nil
}

// establishProviderAccount signs the email up with the provider, falling
// back to a password login when the account already exists.
func (s *service) establishProviderAccount(ctx context.Context, email, password string) (*identity.Session, uuid.UUID, error) {
	existing, err := s.provider.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, uuid.Nil, err
	}

	var session *identity.Session
	if existing == nil {
		session, err = s.provider.SignUp(ctx, email, password)
	} else {
		session, err = s.provider.SignInWithPassword(ctx, email, password)
	}
	if err != nil {
		return nil, uuid.Nil, err
	}

	authUserID, err := providerUserID(session.User)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return session, authUserID, nil
}

func providerUserID(user *identity.User) (uuid.UUID, error) {
	if user == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeDependency, "identity provider returned no user")
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity provider returned a malformed user id")
	}
	return id, nil
}

func validateSignUpInput(input CustomerSignUpInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(input.Email) == "" {
		fields["email"] = "email is required"
	}
	if len(input.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(input.Phone) == "" {
		fields["phone"] = "phone is required"
	}
	if input.StoreID == uuid.Nil {
		fields["store_id"] = "store id is required"
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid signup payload").WithDetails(fields)
	}
	return nil
}

func sessionFrom(session *identity.Session) Session {
	if session == nil {
		return Session{}
	}
	return Session{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		TokenType:    session.TokenType,
	}
}

func customerSummary(customer *models.Customer) CustomerSummary {
	return CustomerSummary{ID: customer.ID, Name: customer.Name, Phone: customer.Phone}
}

func merchantSummary(merchant *models.Merchant) MerchantSummary {
	return MerchantSummary{
		ID:    merchant.ID,
		Email: merchant.Email,
		Name:  merchant.Name,
		Role:  merchant.Role,
	}
}
