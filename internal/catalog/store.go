package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// ErrUnsupportedFormat is returned for table files DuckDB is not asked to
// read.
var ErrUnsupportedFormat = errors.New("catalog: unsupported table format")

// Store reads Parquet and CSV tables through an in-memory DuckDB.
type Store struct {
	db *sql.DB
}

// Open starts an in-memory DuckDB.
func Open(
	ctx context.Context,
) (
	*Store, error,
) {

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the DuckDB connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// source returns the table function reading path, chosen by extension.
func source(
	path string,
) (
	string, error,
) {

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	quoted := "'" + strings.ReplaceAll(abs, "'", "''") + "'"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return "read_parquet(" + quoted + ")", nil
	case ".csv":
		return "read_csv_auto(" + quoted + ", header=true)", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// query selects columns from the table at path and hands each row to scan.
func (s *Store) query(
	ctx context.Context,
	path string,
	columns []string,
	scan func(*sql.Rows) error,
) (
	error,
) {

	src, err := source(path)
	if err != nil {
		return err
	}

	q := "SELECT " + strings.Join(columns, ", ") + " FROM " + src //nolint:gosec // paths come from config

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return nil
}

func double(col string) string {
	return `CAST("` + col + `" AS DOUBLE)`
}

func bigint(col string) string {
	return `CAST("` + col + `" AS BIGINT)`
}

func varchar(col string) string {
	return `CAST("` + col + `" AS VARCHAR)`
}
