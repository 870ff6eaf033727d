// Package namestore is the Postgres-backed Name Store: the single
// persisted relation of this repository, players(uuid, name), managed
// with goose migrations over a pgx connection pool.
package namestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"territoryd/migrations"
)

// ErrNameTaken is returned by Create/Update when the name uniqueness
// constraint is violated.
var ErrNameTaken = errors.New("namestore: name already taken")

// ErrNotFound is returned by Lookup when no row exists for the uuid.
var ErrNotFound = errors.New("namestore: player not found")

var gooseOnce sync.Once

// Migrate runs the embedded goose migration set against dsn.
func Migrate(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("namestore: opening migration connection: %w", err)
	}
	defer sqlDB.Close()

	var dialectErr error
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		dialectErr = goose.SetDialect("postgres")
	})
	if dialectErr != nil {
		return fmt.Errorf("namestore: setting goose dialect: %w", dialectErr)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("namestore: running migrations: %w", err)
	}
	return nil
}

// Store wraps a pgx connection pool for the players table.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to PostgreSQL and returns a Store handle.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("namestore: connecting: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("namestore: pinging: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Create persists a new {uuid, name} pair.
func (s *Store) Create(ctx context.Context, uuid, name string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO players (uuid, name) VALUES ($1, $2)`, uuid, name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("namestore: creating player %q: %w", uuid, err)
	}
	return nil
}

// Lookup returns the name bound to uuid.
func (s *Store) Lookup(ctx context.Context, uuid string) (string, error) {
	var name string
	err := s.pool.QueryRow(ctx,
		`SELECT name FROM players WHERE uuid = $1`, uuid).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("namestore: looking up %q: %w", uuid, err)
	}
	return name, nil
}

// Update renames the player bound to uuid. Returns ErrNotFound if no row
// matches, ErrNameTaken if newName collides with another player.
func (s *Store) Update(ctx context.Context, uuid, newName string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE players SET name = $1 WHERE uuid = $2`, newName, uuid)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("namestore: updating %q: %w", uuid, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NameExists reports whether name is already bound to some uuid.
func (s *Store) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM players WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("namestore: checking name %q: %w", name, err)
	}
	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
