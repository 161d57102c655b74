// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/Skotchmaster/projects_api/internal/db"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.Migrate(ctx, conn); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}
