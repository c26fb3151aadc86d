package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs fn within a single transaction.
	// The transaction is rolled back when fn returns an error or panics, and committed otherwise.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to one transaction.
type RepositoryFactory interface {
	// CredentialStore returns a CredentialStore bound to the current transaction.
	CredentialStore() CredentialStore
}
