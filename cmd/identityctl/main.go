package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
)

// Supported subcommands:
// - migrate:         Apply, roll back or inspect schema migrations
// - createsuperuser: Create a staff account with the admin role

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	superuserCmd := flag.NewFlagSet("createsuperuser", flag.ExitOnError)

	// createsuperuser parameters
	superuserEmail := superuserCmd.String("email", "", "Email address of the superuser")
	superuserUsername := superuserCmd.String("username", "", "Username of the superuser")
	superuserPassword := superuserCmd.String("password", "", "Password; falls back to IDENTITY_SUPERUSER_PASSWORD")
	superuserPhone := superuserCmd.String("phone", "", "Phone number of the superuser")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flags := ctlFlags{
		Migrate: migrateFlags{
			cmd: migrateCmd,
		},
		Superuser: superuserFlags{
			cmd:      superuserCmd,
			email:    superuserEmail,
			username: superuserUsername,
			password: superuserPassword,
			phone:    superuserPhone,
		},
	}

	if err := runSubcommand(ctx, &flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type ctlFlags struct {
	Migrate   migrateFlags
	Superuser superuserFlags
}

type migrateFlags struct {
	cmd *flag.FlagSet
}

type superuserFlags struct {
	cmd      *flag.FlagSet
	email    *string
	username *string
	password *string
	phone    *string
}

func runSubcommand(ctx context.Context, flags *ctlFlags) error {
	switch os.Args[1] {
	case "migrate":
		return handleMigrate(ctx, flags)
	case "createsuperuser":
		return handleCreateSuperuser(ctx, flags)
	default:
		printUsage()

		return errors.New("unknown subcommand")
	}
}

func handleMigrate(ctx context.Context, flags *ctlFlags) error {
	if err := flags.Migrate.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse migrate flags")
	}

	command := flags.Migrate.cmd.Arg(0)
	if command == "" {
		command = "up"
	}

	return runMigrate(ctx, command)
}

func handleCreateSuperuser(ctx context.Context, flags *ctlFlags) error {
	if err := flags.Superuser.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse createsuperuser flags")
	}

	password := *flags.Superuser.password
	if password == "" {
		password = os.Getenv("IDENTITY_SUPERUSER_PASSWORD")
	}

	return runCreateSuperuser(ctx, superuserInput{
		email:    *flags.Superuser.email,
		username: *flags.Superuser.username,
		password: password,
		phone:    *flags.Superuser.phone,
	})
}

func printUsage() {
	fmt.Println("Usage: identityctl <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate [up|down|status]  Manage the database schema (default: up)")
	fmt.Println("  createsuperuser           Create an admin staff account")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  identityctl migrate status")
	fmt.Println("  identityctl createsuperuser -email admin@example.com -username admin -phone 5551234567")
}
