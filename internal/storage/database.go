package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"photo-gallery-app/internal/models"
)

// ErrInvalidCredentials is returned for both an unknown username and a
// wrong password, so callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// DB wraps the database connection holding the account store.
type DB struct {
	*sql.DB
}

// InitDB opens the sqlite database and creates the users table.
func InitDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT 0
	);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Bootstrap ensures the default admin account exists. It is idempotent and
// safe to call any number of times; once the admin row exists it performs a
// single read and no writes.
func (db *DB) Bootstrap(defaultPassword string) error {
	var exists int
	err := db.QueryRow("SELECT 1 FROM users WHERE username = ?", "admin").Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	// INSERT OR IGNORE keeps a concurrent bootstrap from failing on the
	// primary key.
	_, err = db.Exec("INSERT OR IGNORE INTO users (username, password_hash, is_admin) VALUES (?, ?, 1)",
		"admin", string(hash))
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	return nil
}

// Authenticate looks up the account and verifies the password against the
// stored bcrypt hash. Unknown users and wrong passwords both report
// ErrInvalidCredentials.
func (db *DB) Authenticate(username, password string) (*models.Account, error) {
	account := &models.Account{}
	err := db.QueryRow("SELECT username, password_hash, is_admin FROM users WHERE username = ?", username).
		Scan(&account.Username, &account.PasswordHash, &account.IsAdmin)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}
