package repos

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"wikimart/internal/apperrors"
	applog "wikimart/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// OpenDB opens the SQLite database and applies pending migrations.
// The pool is pinned to one connection: SQLite allows a single writer
// anyway, and an in-memory database lives only as long as its connection.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies every embedded up-migration not yet recorded.
func Migrate(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	drv, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migrations driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("migrations init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// constraintErr turns SQLite constraint failures into ErrIntegrity.
func constraintErr(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
			sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%w: %v", apperrors.ErrIntegrity, err)
		}
	}
	return err
}

func now() int64 { return time.Now().Unix() }

// SeedDemo inserts demo users and listings (idempotent; safe to run every start).
func SeedDemo(ctx context.Context, db *sqlx.DB) error {
	type u struct{ Username, Email, Raw string }
	users := []u{
		{"alice", "alice@wikimart.test", "Passw0rd!"},
		{"bob", "bob@wikimart.test", "Passw0rd!"},
		{"carol", "carol@wikimart.test", "Passw0rd!"},
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		h, err := bcrypt.GenerateFromPassword([]byte(x.Raw), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users(username,email,password_hash,created_at)
			VALUES(?,?,?,?)
			ON CONFLICT(username) DO NOTHING
		`, x.Username, x.Email, string(h), now()); err != nil {
			return err
		}
	}

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n == 0 {
		applog.Info(nil, "seed.listings", map[string]any{"count": 3})
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO listings(title,description,image_url,category,starting_price,owner_id,active,created_at)
			SELECT 'Vintage denim jacket','Size M, barely worn.','','FSHN',40,id,1,? FROM users WHERE username='alice'
			UNION ALL
			SELECT 'Wooden train set','Complete set with 24 tracks.','','TYS',25,id,1,? FROM users WHERE username='bob'
			UNION ALL
			SELECT 'Mechanical keyboard','Brown switches, full size.','','ELCTRNCS',60,id,1,? FROM users WHERE username='alice'
		`, now(), now(), now()); err != nil {
			return err
		}
	}
	return tx.Commit()
}
