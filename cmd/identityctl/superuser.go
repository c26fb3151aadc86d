package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	domainerrors "identity/internal/domain/errors"
	internalerrors "identity/internal/errors"
	"identity/internal/infra/auth"
	"identity/internal/infra/persistence/postgres"
	"identity/internal/usecase"
	"identity/internal/usecase/impl"
	"identity/internal/validation"

	"github.com/pkg/errors"
)

type superuserInput struct {
	email    string
	username string
	password string
	phone    string
}

func runCreateSuperuser(ctx context.Context, in superuserInput) error {
	if in.password == "" {
		return errors.New("-password flag or IDENTITY_SUPERUSER_PASSWORD is required")
	}

	env, err := openDatabase()
	if err != nil {
		return err
	}
	defer env.close()

	tokenService, err := auth.NewJWTService(env.cfg)
	if err != nil {
		return err
	}

	store := postgres.NewCredentialStore(env.db)
	authService, err := impl.NewAuthService(
		postgres.NewTransactionManager(env.db),
		store,
		validation.New(store),
		auth.NewBcryptHasher(env.cfg),
		tokenService,
		env.logger,
	)
	if err != nil {
		return err
	}

	account, err := authService.CreateSuperuser(ctx, usecase.RegisterInput{
		Email:           in.email,
		Username:        in.username,
		Password:        in.password,
		PasswordConfirm: in.password,
		Profile:         &usecase.ProfileInput{PhoneNumber: in.phone},
	})
	if err != nil {
		printFieldErrors(err)

		return err
	}

	fmt.Printf("Superuser %s created (id %s)\n", account.Username, account.ID)

	return nil
}

func printFieldErrors(err error) {
	appErr, ok := internalerrors.AsType[domainerrors.AppError](err)
	if !ok || len(appErr.Details()) == 0 {
		return
	}

	details := appErr.Details()
	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		for _, message := range details[field] {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, message)
		}
	}
}
