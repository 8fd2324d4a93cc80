package phrases

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"stdphrase/config"
	"stdphrase/internal/port"
)

// IsPostgresDSN reports whether source names a Postgres database rather than
// a file.
func IsPostgresDSN(source string) bool {
	return strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://")
}

// Open returns the phrase source configured by cfg. The returned close
// function releases any connection and is always non-nil.
func Open(ctx context.Context, cfg config.PhrasesConfig) (port.PhraseSource, func() error, error) {
	noop := func() error { return nil }
	switch {
	case cfg.Source == "":
		return nil, noop, fmt.Errorf("phrases: no source configured")
	case IsPostgresDSN(cfg.Source):
		conn, err := OpenPostgres(ctx, cfg.Source)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() error { return conn.Close(context.Background()) }
		return NewPostgresSource(conn, cfg.Table, cfg.TableColumn), closeFn, nil
	}

	switch strings.ToLower(filepath.Ext(cfg.Source)) {
	case ".csv":
		return NewCSVSource(cfg.Source, cfg.Column), noop, nil
	case ".txt", ".lst", "":
		return NewTextSource(cfg.Source), noop, nil
	default:
		return nil, noop, fmt.Errorf("phrases: unsupported source %q", cfg.Source)
	}
}
