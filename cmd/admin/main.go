// Command admin manages user accounts directly against the database,
// bypassing the HTTP API. It is how the first account gets created on a
// fresh deployment.
//
// Usage:
//
//	admin add
//	admin remove
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/alexskv/prodviz/internal/admin/cli"
	"github.com/alexskv/prodviz/internal/server/config"
	"github.com/alexskv/prodviz/internal/server/repositories/repomanager"
	"github.com/alexskv/prodviz/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {

	if len(os.Args) < 2 {
		return fmt.Errorf("usage: %s add|remove", os.Args[0])
	}
	command := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	users := services.NewUserService(db, rm, cfg)
	reader := bufio.NewReader(os.Stdin)

	switch command {
	case "add":
		username, err := cli.GetSimpleText(reader, "Username", os.Stdout)
		if err != nil {
			return err
		}
		password, err := cli.GetPassword(os.Stdout)
		if err != nil {
			return err
		}
		user, err := users.Register(ctx, username, string(password))
		if err != nil {
			return err
		}
		fmt.Printf("user %s created (id %s)\n", user.Username, user.ID)
		return nil

	case "remove":
		username, err := cli.GetSimpleText(reader, "Username", os.Stdout)
		if err != nil {
			return err
		}
		if err := users.Remove(ctx, username); err != nil {
			return err
		}
		fmt.Printf("user %s removed\n", username)
		return nil

	default:
		return fmt.Errorf("unknown command %q, expected add or remove", command)
	}
}
