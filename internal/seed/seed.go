package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/vitrina/internal/pricing"
)

const defaultPackagingName = "Empaque estándar"

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail        string
	AdminPassword     string
	PremiumCategories []string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	steps := []func(context.Context, *sql.Tx, Config, *Stats) error{
		seedAdmin,
		ensurePackaging,
		ensurePremiumCategories,
	}
	for _, step := range steps {
		if err := step(ctx, tx, cfg, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, cfg Config, stats *Stats) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, cfg.AdminEmail).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, cfg.AdminEmail, hash); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func ensurePackaging(ctx context.Context, tx *sql.Tx, _ Config, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM packaging_rates WHERE name = ? LIMIT 1)`, defaultPackagingName).Scan(&exists); err != nil {
		return fmt.Errorf("check packaging existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO packaging_rates (name, flat_cost, notes, active)
		VALUES (?, ?, ?, ?)
	`, defaultPackagingName, 0, "", true); err != nil {
		return fmt.Errorf("insert default packaging: %w", err)
	}
	stats.Inserts++
	return nil
}

// ensurePremiumCategories creates missing premium categories and flags existing ones. Existing
// rows are matched the way the pricing engine matches names, ignoring case and accents.
func ensurePremiumCategories(ctx context.Context, tx *sql.Tx, cfg Config, stats *Stats) error {
	existing, err := loadCategoryKeys(ctx, tx)
	if err != nil {
		return err
	}

	for _, name := range cfg.PremiumCategories {
		key := pricing.NormalizeCategory(name)
		if key == "" {
			continue
		}

		row, ok := existing[key]
		switch {
		case !ok:
			result, err := tx.ExecContext(ctx, `INSERT INTO categories (name, premium) VALUES (?, TRUE)`, strings.TrimSpace(name))
			if err != nil {
				return fmt.Errorf("insert premium category %q: %w", name, err)
			}
			id, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("read category id: %w", err)
			}
			existing[key] = categoryRow{id: id, premium: true}
			stats.Inserts++
		case !row.premium:
			if _, err := tx.ExecContext(ctx, `
				UPDATE categories SET premium = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = ?
			`, row.id); err != nil {
				return fmt.Errorf("flag premium category %q: %w", name, err)
			}
			existing[key] = categoryRow{id: row.id, premium: true}
			stats.Updates++
		}
	}
	return nil
}

type categoryRow struct {
	id      int64
	premium bool
}

func loadCategoryKeys(ctx context.Context, tx *sql.Tx) (map[string]categoryRow, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, premium FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]categoryRow)
	for rows.Next() {
		var (
			row  categoryRow
			name string
		)
		if err := rows.Scan(&row.id, &name, &row.premium); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		key := pricing.NormalizeCategory(name)
		if prev, seen := keys[key]; seen && prev.premium {
			continue
		}
		keys[key] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return keys, nil
}
