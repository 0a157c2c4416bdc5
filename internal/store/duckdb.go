package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2" // DuckDB driver
	"github.com/rs/zerolog/log"
)

// Store wraps an embedded DuckDB file opened read-only. One Store is
// shared for the lifetime of the hosting process; the underlying pool
// serializes access so concurrent readers each get their own connection.
type Store struct {
	db   *sql.DB
	path string

	schema *schemaCache
}

// Open opens the database file in read-only mode and verifies connectivity.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database file %q: %w", path, err)
	}

	db, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{
		db:     db,
		path:   path,
		schema: newSchemaCache(),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// TestConnection verifies the store is reachable.
func (s *Store) TestConnection(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}

// Tables returns the names of all base tables, sorted.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TableSchema returns column metadata for one table.
func (s *Store) TableSchema(ctx context.Context, table string) ([]ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("table info %q: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull bool
			dflt    sql.NullString
			pk      bool
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		cols = append(cols, ColumnInfo{
			Name:       name,
			Type:       colType,
			NotNull:    notNull,
			PrimaryKey: pk,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return cols, nil
}

// TableCount returns the row count of one table.
func (s *Store) TableCount(ctx context.Context, table string) (int64, error) {
	var count int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))
	if err := s.db.QueryRowContext(ctx, q).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %q: %w", table, err)
	}
	return count, nil
}

// TableSample returns up to limit rows from one table.
func (s *Store) TableSample(ctx context.Context, table string, limit int) (*ResultSet, error) {
	if limit <= 0 {
		limit = 5
	}
	q := fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), limit)
	return s.ExecuteQuery(ctx, q)
}

// DatabaseInfo gathers path, file size and per-table schemas and counts.
func (s *Store) DatabaseInfo(ctx context.Context) (*DatabaseInfo, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}

	info := &DatabaseInfo{Path: s.path}
	if st, err := os.Stat(s.path); err == nil {
		info.SizeBytes = st.Size()
	}

	for _, table := range tables {
		cols, err := s.TableSchema(ctx, table)
		if err != nil {
			return nil, err
		}
		count, err := s.TableCount(ctx, table)
		if err != nil {
			return nil, err
		}
		info.Tables = append(info.Tables, TableDetail{
			Name:     table,
			RowCount: count,
			Columns:  cols,
		})
	}
	return info, nil
}

// ExecuteQuery runs a SQL statement and scans every row into a ResultSet.
// Column kinds are classified once from the driver's declared types.
func (s *Store) ExecuteQuery(ctx context.Context, sqlText string) (*ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}

	kinds := make([]ColumnKind, len(columns))
	if colTypes, err := rows.ColumnTypes(); err == nil {
		for i, ct := range colTypes {
			kinds[i] = classifyKind(ct.DatabaseTypeName())
		}
	} else {
		for i := range kinds {
			kinds[i] = KindOther
		}
	}

	result := &ResultSet{
		Columns: columns,
		Kinds:   kinds,
		Rows:    make([]map[string]any, 0),
	}

	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	log.Debug().
		Int("rows", result.RowCount()).
		Int("columns", len(columns)).
		Msg("query executed")

	return result, nil
}

// Explain asks the planner for a query plan without materializing any rows.
// Used as a cheap syntax and reference check; a plan failure means the
// query would not execute either.
func (s *Store) Explain(ctx context.Context, sqlText string) error {
	rows, err := s.db.QueryContext(ctx, "EXPLAIN "+sqlText)
	if err != nil {
		return fmt.Errorf("query plan: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		// drain; the plan content is not interesting, only that one exists
	}
	return rows.Err()
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return t
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
