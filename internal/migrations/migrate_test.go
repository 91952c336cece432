package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Simplici0/vitrina/internal/db"
)

func TestUp_AppliesAllMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "migrate-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Up(ctx, database, zap.NewNop()); err != nil {
			t.Fatalf("Up (run %d): %v", i, err)
		}
	}

	version, err := Version(ctx, database)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != 3 {
		t.Fatalf("version = %d, want 3", version)
	}

	for _, table := range []string{"users", "categories", "products", "packaging_rates", "combos", "combo_items"} {
		var n int
		if err := database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n); err != nil {
			t.Fatalf("lookup table %s: %v", table, err)
		}
		if n != 1 {
			t.Fatalf("table %s missing", table)
		}
	}
}
