// Package persistence selects the CredentialStore backend configured for the process.
package persistence

import (
	"log/slog"

	"identity/config"
	"identity/internal/domain/repository"
	"identity/internal/errors"
	"identity/internal/infra/persistence/memory"
	"identity/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Storage exposes one backend under the three repository contracts it satisfies.
type Storage struct {
	fx.Out

	CredentialStore    repository.CredentialStore
	AccountFinder      repository.AccountFinder
	TransactionManager repository.TransactionManager
}

// New builds the backend named by storage.driver. An empty driver means postgres.
func New(params Params) (Storage, error) {
	switch params.Config.Storage.Driver {
	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory credential store; accounts are lost on restart")
		store := memory.NewStore()

		return Storage{
			CredentialStore:    store,
			AccountFinder:      store,
			TransactionManager: store,
		}, nil
	case config.StorageDriverPostgres, "":
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Storage{}, err
		}
		store := postgres.NewCredentialStore(db)

		return Storage{
			CredentialStore:    store,
			AccountFinder:      store,
			TransactionManager: postgres.NewTransactionManager(db),
		}, nil
	default:
		return Storage{}, errors.Errorf("unknown storage driver %q", params.Config.Storage.Driver)
	}
}
