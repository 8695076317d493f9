package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthdesk-api/internal/apperrors"
	"github.com/harentsoaR/healthdesk-api/internal/metrics"
	"github.com/harentsoaR/healthdesk-api/internal/models"
	"github.com/harentsoaR/healthdesk-api/internal/store"
	"github.com/harentsoaR/healthdesk-api/internal/utils"
	"github.com/harentsoaR/healthdesk-api/internal/validation"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown account, so both failure paths cost one bcrypt comparison.
const dummyPassword = "healthdesk-no-such-account"

// AccountService registers, authenticates and looks up accounts.
type AccountService struct {
	store   store.Store
	hasher  *utils.PasswordHasher
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(st store.Store, hasher *utils.PasswordHasher, logger zerolog.Logger, m *metrics.Metrics) *AccountService {
	return &AccountService{
		store:   st,
		hasher:  hasher,
		log:     logger.With().Str("service", "accounts").Logger(),
		metrics: m,
		now:     time.Now,
	}
}

// Register validates the payload and stores a new account. A duplicate email
// fails with a Conflict error, whether it is caught by the lookup or by the
// store's unique index.
func (s *AccountService) Register(ctx context.Context, payload validation.AccountCreate) (*models.AccountResponse, error) {
	p, err := validation.ValidateAccountCreate(payload)
	if err != nil {
		return nil, err
	}

	exists, err := s.exists(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hashed, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Email:          p.Email,
		FullName:       p.FullName,
		Role:           p.Role,
		IsActive:       p.IsActive,
		HashedPassword: hashed,
		CreatedAt:      timestamp(s.now),
	}
	if err := s.insert(ctx, account); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return nil, apperrors.Conflict("email already registered", err)
		}
		return nil, err
	}

	s.log.Info().
		Str("account_id", account.ID.Hex()).
		Str("role", string(account.Role)).
		Msg("account registered")
	return models.NewAccountResponse(account), nil
}

// Authenticate checks email and password. An unknown email and a wrong
// password produce the same error.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.AccountResponse, error) {
	account, err := s.find(ctx, email)
	if err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
		s.metrics.ObserveAuth("error")
		return nil, err
	}

	if account == nil {
		s.hasher.Verify(password, s.dummy())
		s.metrics.ObserveAuth("invalid_credentials")
		return nil, apperrors.InvalidCredentials()
	}
	if !s.hasher.Verify(password, account.HashedPassword) {
		s.metrics.ObserveAuth("invalid_credentials")
		return nil, apperrors.InvalidCredentials()
	}
	if !account.Active() {
		s.metrics.ObserveAuth("inactive")
		return nil, apperrors.AccountInactive()
	}

	s.metrics.ObserveAuth("success")
	s.log.Debug().Str("account_id", account.ID.Hex()).Msg("login succeeded")
	return models.NewAccountResponse(account), nil
}

// GetByIdentifier returns the account registered under email.
func (s *AccountService) GetByIdentifier(ctx context.Context, email string) (*models.AccountResponse, error) {
	account, err := s.find(ctx, email)
	if err != nil {
		return nil, err
	}
	return models.NewAccountResponse(account), nil
}

// EnsureDefaultAdmin creates an active administrator unless an account with
// email already exists. The inputs are trusted and skip validation. It
// reports whether an account was created.
func (s *AccountService) EnsureDefaultAdmin(ctx context.Context, email, password, fullName string) (bool, error) {
	exists, err := s.exists(ctx, email)
	if err != nil || exists {
		return false, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	active := true
	admin := &models.Account{
		Email:          email,
		FullName:       fullName,
		Role:           models.RoleAdministrator,
		IsActive:       &active,
		HashedPassword: hashed,
		CreatedAt:      timestamp(s.now),
	}
	if err := s.insert(ctx, admin); err != nil {
		// Another instance seeded it first.
		if apperrors.Is(err, apperrors.KindConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *AccountService) find(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := s.store.FindOne(ctx, models.AccountsCollection, bson.M{"email": email}, &account)
	if errors.Is(err, store.ErrNoDocuments) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) exists(ctx context.Context, email string) (bool, error) {
	_, err := s.find(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case apperrors.Is(err, apperrors.KindNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *AccountService) insert(ctx context.Context, account *models.Account) error {
	id, err := s.store.InsertOne(ctx, models.AccountsCollection, account)
	if err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Persistence("insert into "+models.AccountsCollection, err)
	}
	account.ID = oid
	return nil
}

func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	return s.dummyHash
}

// timestamp reads clock in UTC at millisecond precision, the resolution
// MongoDB stores.
func timestamp(clock func() time.Time) time.Time {
	return clock().UTC().Truncate(time.Millisecond)
}
