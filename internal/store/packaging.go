package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PackagingRate is a flat packaging surcharge applied to combos.
type PackagingRate struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	FlatCost float64 `json:"flat_cost"`
	Notes    string  `json:"notes"`
	Active   bool    `json:"active"`
}

// ListPackagingRates returns every packaging rate, newest first.
func (s *Store) ListPackagingRates(ctx context.Context) ([]PackagingRate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, flat_cost, COALESCE(notes, ''), active
		FROM packaging_rates
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query packaging rates: %w", err)
	}
	defer rows.Close()

	rates := make([]PackagingRate, 0)
	for rows.Next() {
		var rate PackagingRate
		if err := rows.Scan(&rate.ID, &rate.Name, &rate.FlatCost, &rate.Notes, &rate.Active); err != nil {
			return nil, fmt.Errorf("scan packaging rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate packaging rates: %w", err)
	}
	return rates, nil
}

// GetPackagingRate loads one packaging rate.
func (s *Store) GetPackagingRate(ctx context.Context, id int64) (PackagingRate, error) {
	var rate PackagingRate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, flat_cost, COALESCE(notes, ''), active
		FROM packaging_rates
		WHERE id = ?
	`, id).Scan(&rate.ID, &rate.Name, &rate.FlatCost, &rate.Notes, &rate.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return PackagingRate{}, ErrNotFound
	}
	if err != nil {
		return PackagingRate{}, fmt.Errorf("query packaging rate %d: %w", id, err)
	}
	return rate, nil
}

// CreatePackagingRate inserts rate and returns its id.
func (s *Store) CreatePackagingRate(ctx context.Context, rate PackagingRate) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO packaging_rates (name, flat_cost, notes, active)
		VALUES (?, ?, ?, ?)
	`, rate.Name, rate.FlatCost, rate.Notes, rate.Active)
	if err != nil {
		return 0, fmt.Errorf("insert packaging rate: %w", err)
	}
	return result.LastInsertId()
}

// UpdatePackagingRate overwrites the packaging rate with rate.ID.
func (s *Store) UpdatePackagingRate(ctx context.Context, rate PackagingRate) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE packaging_rates
		SET
			name = ?,
			flat_cost = ?,
			notes = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rate.Name, rate.FlatCost, rate.Notes, rate.Active, rate.ID)
	if err != nil {
		return fmt.Errorf("update packaging rate %d: %w", rate.ID, err)
	}
	return affectedOrNotFound(result)
}
