package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"crisisgrid.org/internal/auth"
	"crisisgrid.org/internal/ids"
	"crisisgrid.org/internal/migrate"
)

func main() {
	log.SetFlags(0)
	var (
		dsn            = flag.String("dsn", os.Getenv("CRISISGRID_PG_DSN"), "PostgreSQL DSN")
		migrationsPath = flag.String("migrations", "ops/migrations/sql", "Path to SQL migrations")
		seedsPath      = flag.String("seeds", "ops/migrations/seeds", "Path to SQL seeds")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or CRISISGRID_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|seed|status|create-admin]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	mgr := migrate.NewManager(db, *migrationsPath, *seedsPath)

	switch flag.Arg(0) {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "seed":
		err = mgr.Seed(ctx)
	case "status":
		var history []string
		history, err = mgr.Status(ctx)
		if err == nil {
			for _, item := range history {
				fmt.Println(item)
			}
		}
	case "create-admin":
		err = createAdmin(ctx, db)
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}

// createAdmin provisions the protected super-admin account. The resulting
// id should be exported as CRISISGRID_SUPER_ADMIN_ID for the API.
func createAdmin(ctx context.Context, db *sql.DB) error {
	email := os.Getenv("CRISISGRID_SUPER_ADMIN_EMAIL")
	password := os.Getenv("CRISISGRID_SUPER_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return fmt.Errorf("set CRISISGRID_SUPER_ADMIN_EMAIL and CRISISGRID_SUPER_ADMIN_PASSWORD")
	}

	hash, err := auth.NewHasher(0).Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	id := ids.New()
	_, err = db.ExecContext(ctx, `
		insert into users(id, email, password_hash, first_name, last_name, role, is_active, is_verified)
		values ($1, $2, $3, 'Super', 'Admin', 'super_admin', true, true)
		on conflict (email) do nothing
	`, id, email, hash)
	if err != nil {
		return err
	}

	var storedID string
	if err := db.QueryRowContext(ctx, `select id from users where email=$1`, email).Scan(&storedID); err != nil {
		return err
	}
	fmt.Printf("super admin ready: id=%s email=%s\n", storedID, email)
	return nil
}
