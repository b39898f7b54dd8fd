package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

// Open returns the ledger for dsn. An empty DSN yields an in-memory ledger.
// postgres:// and postgresql:// DSNs use lib/pq; anything else is treated as
// a go-sqlite3 data source. The returned close func releases the database.
func Open(ctx context.Context, dsn string) (interfaces.Ledger, func() error, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return NewMemory(), func() error { return nil }, nil
	}

	db, err := openDB(dsn)
	if err != nil {
		return nil, nil, err
	}
	ledger := NewBunLedger(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ledger: ensure schema: %w", err)
	}
	return ledger, db.Close, nil
}

func openDB(dsn string) (*bun.DB, error) {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("ledger: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}

	sqldb, err := sql.Open("sqlite3", strings.TrimPrefix(dsn, "sqlite://"))
	if err != nil {
		return nil, fmt.Errorf("ledger: open sqlite: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
