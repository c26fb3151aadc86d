// Package memory provides a process-local CredentialStore for local runs and tests.
package memory

import (
	"context"
	"sync"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/errors"

	"github.com/google/uuid"
)

// Store keeps accounts in maps guarded by a mutex. It implements both
// repository.CredentialStore and repository.TransactionManager.
type Store struct {
	txMu sync.Mutex // serializes transactions

	mu         sync.RWMutex
	accounts   map[uuid.UUID]*entity.Account
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
	byPhone    map[string]uuid.UUID
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:   make(map[uuid.UUID]*entity.Account),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
		byPhone:    make(map[string]uuid.UUID),
	}
}

// Count returns the number of stored accounts.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.accounts)
}

// FindByEmail retrieves an account by its normalized email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return s.findByIndex(ctx, s.byEmail, email)
}

// FindByUsername retrieves an account by its username.
func (s *Store) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return s.findByIndex(ctx, s.byUsername, username)
}

// FindByPhone retrieves the account owning the canonical phone number.
func (s *Store) FindByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	return s.findByIndex(ctx, s.byPhone, phone)
}

// FindAccountByID retrieves an account by its identifier.
func (s *Store) FindAccountByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

// CreateAccountWithProfile stores the account and its profile in a single transaction.
func (s *Store) CreateAccountWithProfile(ctx context.Context, account *entity.Account) error {
	return s.Execute(ctx, func(factory repository.RepositoryFactory) error {
		return factory.CredentialStore().CreateAccountWithProfile(ctx, account)
	})
}

// Execute runs fn in a transaction. Writes staged by fn become visible only
// when fn returns nil; an error or a panic discards them.
func (s *Store) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txStore{store: s}
	if err := fn(tx); err != nil {
		return err
	}

	return s.commit(tx.pending)
}

func (s *Store) findByIndex(ctx context.Context, index map[string]uuid.UUID, key string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(s.accounts[id]), nil
}

// conflictField returns the field of account that collides with stored rows
// or with the staged ones. Callers hold s.mu.
func (s *Store) conflictField(account *entity.Account, staged []*entity.Account) string {
	if _, ok := s.byEmail[account.Email]; ok {
		return "email"
	}
	if _, ok := s.byUsername[account.Username]; ok {
		return "username"
	}
	if _, ok := s.byPhone[account.Profile.PhoneNumber]; ok {
		return "profile.phone_number"
	}

	for _, other := range staged {
		switch {
		case other.Email == account.Email:
			return "email"
		case other.Username == account.Username:
			return "username"
		case other.Profile.PhoneNumber == account.Profile.PhoneNumber:
			return "profile.phone_number"
		}
	}

	return ""
}

func (s *Store) commit(pending []*entity.Account) error {
	if len(pending) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, account := range pending {
		if field := s.conflictField(account, pending[:i]); field != "" {
			return domainerrors.NewConflictError(field, errors.New("duplicate key on commit"))
		}
	}

	for _, account := range pending {
		s.accounts[account.ID] = account
		s.byEmail[account.Email] = account.ID
		s.byUsername[account.Username] = account.ID
		s.byPhone[account.Profile.PhoneNumber] = account.ID
	}

	return nil
}

// txStore is the CredentialStore handed to a transaction callback.
type txStore struct {
	store   *Store
	pending []*entity.Account
}

// CredentialStore returns the transaction itself.
func (tx *txStore) CredentialStore() repository.CredentialStore {
	return tx
}

func (tx *txStore) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return tx.find(ctx, func(a *entity.Account) bool { return a.Email == email }, func() (*entity.Account, error) {
		return tx.store.FindByEmail(ctx, email)
	})
}

func (tx *txStore) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return tx.find(ctx, func(a *entity.Account) bool { return a.Username == username }, func() (*entity.Account, error) {
		return tx.store.FindByUsername(ctx, username)
	})
}

func (tx *txStore) FindByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	return tx.find(ctx, func(a *entity.Account) bool { return a.Profile.PhoneNumber == phone }, func() (*entity.Account, error) {
		return tx.store.FindByPhone(ctx, phone)
	})
}

func (tx *txStore) FindAccountByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return tx.find(ctx, func(a *entity.Account) bool { return a.ID == id }, func() (*entity.Account, error) {
		return tx.store.FindAccountByID(ctx, id)
	})
}

// CreateAccountWithProfile stages the account; it is stored when the transaction commits.
func (tx *txStore) CreateAccountWithProfile(ctx context.Context, account *entity.Account) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	if account == nil || account.Profile == nil {
		return errors.New("account and profile are required")
	}

	staged := cloneAccount(account)
	staged.Profile.AccountID = staged.ID

	tx.store.mu.RLock()
	field := tx.store.conflictField(staged, tx.pending)
	tx.store.mu.RUnlock()
	if field != "" {
		return domainerrors.NewConflictError(field, errors.New("duplicate key"))
	}

	tx.pending = append(tx.pending, staged)

	return nil
}

func (tx *txStore) find(ctx context.Context, match func(*entity.Account) bool, committed func() (*entity.Account, error)) (*entity.Account, error) {
	for _, account := range tx.pending {
		if match(account) {
			return cloneAccount(account), nil
		}
	}

	return committed()
}

func cloneAccount(account *entity.Account) *entity.Account {
	clone := *account
	if account.Profile != nil {
		profile := *account.Profile
		if account.Profile.DateOfBirth != nil {
			dob := *account.Profile.DateOfBirth
			profile.DateOfBirth = &dob
		}
		clone.Profile = &profile
	}

	return &clone
}
