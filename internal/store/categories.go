package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/vitrina/internal/pricing"
)

// Category groups products and may carry its own margin rule.
type Category struct {
	ID      int64                 `json:"id"`
	Name    string                `json:"name"`
	Premium bool                  `json:"premium"`
	Rule    pricing.RuleOverrides `json:"rule"`
}

const categoryColumns = `id, name, premium, margin_low, margin_mid, margin_high, margin_premium, endings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var (
		c                       Category
		low, mid, high, premium sql.NullFloat64
		endings                 sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Premium, &low, &mid, &high, &premium, &endings); err != nil {
		return Category{}, err
	}
	c.Rule = ruleFromColumns(low, mid, high, premium, endings)
	return c, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// GetCategory loads one category.
func (s *Store) GetCategory(ctx context.Context, id int64) (Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("query category %d: %w", id, err)
	}
	return c, nil
}

// CreateCategory inserts c and returns its id.
func (s *Store) CreateCategory(ctx context.Context, c Category) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, premium, margin_low, margin_mid, margin_high, margin_premium, endings)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.Name, c.Premium, nullFloat(c.Rule.Low), nullFloat(c.Rule.Mid), nullFloat(c.Rule.High), nullFloat(c.Rule.Premium), encodeEndings(c.Rule.Endings))
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return result.LastInsertId()
}

// UpdateCategory overwrites the category with c.ID.
func (s *Store) UpdateCategory(ctx context.Context, c Category) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET
			name = ?,
			premium = ?,
			margin_low = ?,
			margin_mid = ?,
			margin_high = ?,
			margin_premium = ?,
			endings = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, c.Name, c.Premium, nullFloat(c.Rule.Low), nullFloat(c.Rule.Mid), nullFloat(c.Rule.High), nullFloat(c.Rule.Premium), encodeEndings(c.Rule.Endings), c.ID)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return affectedOrNotFound(result)
}

// PremiumCategoryNames lists the names of categories flagged premium.
func (s *Store) PremiumCategoryNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories WHERE premium = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query premium categories: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan premium category: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate premium categories: %w", err)
	}
	return names, nil
}
