package inventory

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPostgresTable = "forticare_assets"

// validIdentifier matches safe PostgreSQL identifiers (letters, digits, underscores).
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithTableName sets the PostgreSQL table name. Default: "forticare_assets".
func WithTableName(name string) PostgresOption {
	return func(s *PostgresStore) {
		s.tableName = name
	}
}

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool      *pgxpool.Pool
	tableName string
	ownsPool  bool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgreSQL-backed inventory.
// It auto-creates the table and index on initialization. The caller keeps
// ownership of pool.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	s := &PostgresStore{
		pool:      pool,
		tableName: defaultPostgresTable,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !validIdentifier.MatchString(s.tableName) {
		return nil, fmt.Errorf("invalid table name %q: must match [a-zA-Z_][a-zA-Z0-9_]*", s.tableName)
	}
	if err := s.ensureTable(ctx); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return s, nil
}

func openPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s, err := NewPostgresStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.ownsPool = true
	return s, nil
}

func (s *PostgresStore) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			serial            TEXT PRIMARY KEY,
			sku               TEXT NOT NULL DEFAULT '',
			registration_code TEXT NOT NULL,
			ipv4              TEXT NOT NULL DEFAULT '',
			license_path      TEXT NOT NULL DEFAULT '',
			run_id            TEXT NOT NULL,
			registered_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_%s_run_id
			ON %s (run_id, registered_at);
	`, s.tableName, s.tableName, s.tableName)
	_, err := s.pool.Exec(ctx, query)
	return err
}

func (s *PostgresStore) Record(ctx context.Context, a Asset) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (serial, sku, registration_code, ipv4, license_path, run_id, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (serial) DO UPDATE SET
			sku = EXCLUDED.sku,
			registration_code = EXCLUDED.registration_code,
			ipv4 = EXCLUDED.ipv4,
			license_path = EXCLUDED.license_path,
			run_id = EXCLUDED.run_id,
			registered_at = EXCLUDED.registered_at
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query,
		a.Serial, a.SKU, a.RegistrationCode, a.IPv4, a.LicensePath, a.RunID, a.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("record asset: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, serial string) (*Asset, error) {
	query := fmt.Sprintf(`
		SELECT serial, sku, registration_code, ipv4, license_path, run_id, registered_at
		FROM %s WHERE serial = $1
	`, s.tableName)

	var a Asset
	err := s.pool.QueryRow(ctx, query, serial).Scan(&a.Serial, &a.SKU, &a.RegistrationCode,
		&a.IPv4, &a.LicensePath, &a.RunID, &a.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) List(ctx context.Context, runID string) ([]Asset, error) {
	query := fmt.Sprintf(`
		SELECT serial, sku, registration_code, ipv4, license_path, run_id, registered_at
		FROM %s WHERE $1::text = '' OR run_id = $1 ORDER BY registered_at
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.Serial, &a.SKU, &a.RegistrationCode, &a.IPv4,
			&a.LicensePath, &a.RunID, &a.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.tableName)
	var count int
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Close(_ context.Context) error {
	if s.ownsPool {
		s.pool.Close()
	}
	return nil
}
