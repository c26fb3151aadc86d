package postgres

import (
	"context"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/errors"
	"identity/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialStore implements the repository.CredentialStore interface.
type credentialStore struct {
	db   *gorm.DB
	inTx bool // db is already a transaction
}

// NewCredentialStore is the constructor for credentialStore.
func NewCredentialStore(db *gorm.DB) repository.CredentialStore {
	return &credentialStore{db: db}
}

func newTxCredentialStore(tx *gorm.DB) repository.CredentialStore {
	return &credentialStore{db: tx, inTx: true}
}

// FindByEmail retrieves an account by its normalized email.
func (repo *credentialStore) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return repo.findOne(ctx, "find account by email", func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ?", email)
	})
}

// FindByUsername retrieves an account by its username.
func (repo *credentialStore) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return repo.findOne(ctx, "find account by username", func(db *gorm.DB) *gorm.DB {
		return db.Where("username = ?", username)
	})
}

// FindByPhone retrieves the account whose profile holds the canonical phone number.
func (repo *credentialStore) FindByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	return repo.findOne(ctx, "find account by phone", func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN profiles ON profiles.account_id = accounts.id").
			Where("profiles.phone_number = ?", phone)
	})
}

// FindAccountByID retrieves an account by its identifier.
func (repo *credentialStore) FindAccountByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return repo.findOne(ctx, "find account by id", func(db *gorm.DB) *gorm.DB {
		return db.Where("accounts.id = ?", id)
	})
}

// CreateAccountWithProfile inserts the account row and then its profile row.
// Outside a transaction both inserts run in one.
func (repo *credentialStore) CreateAccountWithProfile(ctx context.Context, account *entity.Account) error {
	if account == nil || account.Profile == nil {
		return errors.New("account and profile are required")
	}

	accountM, profileM := fromAccountDomain(account)
	create := func(tx *gorm.DB) error {
		// Associations are inserted explicitly so a profile conflict is never skipped by an upsert.
		if err := tx.Omit(clause.Associations).Create(accountM).Error; err != nil {
			return translateWriteError(err, "failed to create account")
		}
		if err := tx.Create(profileM).Error; err != nil {
			return translateWriteError(err, "failed to create profile")
		}

		return nil
	}

	if repo.inTx {
		return create(repo.db.WithContext(ctx))
	}

	//nolint:wrapcheck // create already returns domain errors.
	return repo.db.WithContext(ctx).Transaction(create)
}

func (repo *credentialStore) findOne(ctx context.Context, details string, scope func(*gorm.DB) *gorm.DB) (*entity.Account, error) {
	var accountM model.AccountModel

	err := scope(repo.db.WithContext(ctx).Model(&model.AccountModel{}).Preload("Profile")).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	return toAccountDomain(&accountM), nil
}

func toAccountDomain(data *model.AccountModel) *entity.Account {
	account := &entity.Account{
		ID:           data.ID,
		Email:        data.Email,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		IsActive:     data.IsActive,
		IsStaff:      data.IsStaff,
		IsVerified:   data.IsVerified,
		JoinedAt:     data.JoinedAt,
	}

	if data.Profile != nil {
		account.Profile = &entity.Profile{
			AccountID:   data.Profile.AccountID,
			PhoneNumber: data.Profile.PhoneNumber,
			Role:        entity.Role(data.Profile.Role),
			DateOfBirth: data.Profile.DateOfBirth,
			CreatedAt:   data.Profile.CreatedAt,
			UpdatedAt:   data.Profile.UpdatedAt,
		}
	}

	return account
}

func fromAccountDomain(data *entity.Account) (*model.AccountModel, *model.ProfileModel) {
	accountM := &model.AccountModel{
		ID:           data.ID,
		Email:        data.Email,
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
		IsActive:     data.IsActive,
		IsStaff:      data.IsStaff,
		IsVerified:   data.IsVerified,
		JoinedAt:     data.JoinedAt,
	}

	profileM := &model.ProfileModel{
		AccountID:   data.ID,
		PhoneNumber: data.Profile.PhoneNumber,
		Role:        data.Role().String(),
		DateOfBirth: data.Profile.DateOfBirth,
		CreatedAt:   data.Profile.CreatedAt,
		UpdatedAt:   data.Profile.UpdatedAt,
	}

	return accountM, profileM
}
