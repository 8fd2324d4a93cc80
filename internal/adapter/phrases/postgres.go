package phrases

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stdphrase/internal/domain"
)

// Querier is satisfied by both *pgx.Conn and *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads phrases from a single text column of a table. Rows
// come back in the table's scan order.
type PostgresSource struct {
	db     Querier
	table  string
	column string
}

func NewPostgresSource(db Querier, table, column string) *PostgresSource {
	return &PostgresSource{db: db, table: table, column: column}
}

// OpenPostgres connects to dsn. The caller closes the connection.
func OpenPostgres(ctx context.Context, dsn string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("phrases: connect postgres: %w", err)
	}
	return conn, nil
}

func (s *PostgresSource) query() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL AND btrim(%s) <> ''",
		pgx.Identifier{s.column}.Sanitize(),
		pgx.Identifier{s.table}.Sanitize(),
		pgx.Identifier{s.column}.Sanitize(),
		pgx.Identifier{s.column}.Sanitize(),
	)
}

func (s *PostgresSource) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("phrases: query %s.%s: %w", s.table, s.column, err)
	}
	phrases, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("phrases: scan rows: %w", err)
	}
	if len(phrases) == 0 {
		return nil, fmt.Errorf("phrases: table %s: %w", s.table, domain.ErrNoPhrases)
	}
	return phrases, nil
}
