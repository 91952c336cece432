package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/vitrina/internal/pricing"
)

// ComboLine is one product inside a combo, with the product's current cost.
type ComboLine struct {
	ProductID   *int64  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitCost    float64 `json:"unit_cost"`
	Quantity    int     `json:"quantity"`
	// CostKnown is false when the product was removed and its cost is unknown.
	CostKnown bool `json:"cost_known"`
}

// Combo is a bundle of products sold with one packaging and one price.
type Combo struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	CategoryID    *int64      `json:"category_id"`
	CategoryName  string      `json:"category_name"`
	PackagingID   *int64      `json:"packaging_id"`
	PackagingName string      `json:"packaging_name"`
	PackagingCost float64     `json:"packaging_cost"`
	Price         float64     `json:"price"`
	Active        bool        `json:"active"`
	Lines         []ComboLine `json:"lines"`
}

// ComboItems converts the lines into the aggregator's input.
func (c Combo) ComboItems() []pricing.ComboItem {
	items := make([]pricing.ComboItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, pricing.ComboItem{UnitCost: line.UnitCost, Quantity: line.Quantity})
	}
	return items
}

// NewComboLine is the input for one line of CreateCombo.
type NewComboLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

const comboSelect = `
	SELECT
		cb.id,
		cb.name,
		cb.category_id,
		COALESCE(c.name, ''),
		cb.packaging_id,
		COALESCE(pr.name, ''),
		COALESCE(pr.flat_cost, 0),
		cb.price,
		cb.active
	FROM combos cb
	LEFT JOIN categories c ON c.id = cb.category_id
	LEFT JOIN packaging_rates pr ON pr.id = cb.packaging_id
`

func scanCombo(row rowScanner) (Combo, error) {
	var (
		cb                       Combo
		categoryID, packagingID sql.NullInt64
	)
	if err := row.Scan(&cb.ID, &cb.Name, &categoryID, &cb.CategoryName, &packagingID, &cb.PackagingName, &cb.PackagingCost, &cb.Price, &cb.Active); err != nil {
		return Combo{}, err
	}
	cb.CategoryID = intPtr(categoryID)
	cb.PackagingID = intPtr(packagingID)
	return cb, nil
}

// CreateCombo inserts a combo and its lines in one transaction.
func (s *Store) CreateCombo(ctx context.Context, cb Combo, lines []NewComboLine) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin combo transaction: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO combos (name, category_id, packaging_id, price, active)
		VALUES (?, ?, ?, ?, ?)
	`, cb.Name, nullInt(cb.CategoryID), nullInt(cb.PackagingID), cb.Price, cb.Active)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert combo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read combo id: %w", err)
	}

	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO combo_items (combo_id, product_id, quantity) VALUES (?, ?, ?)
		`, id, line.ProductID, line.Quantity); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert combo item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit combo transaction: %w", err)
	}
	return id, nil
}

// GetCombo loads a combo with its lines and their current product costs.
func (s *Store) GetCombo(ctx context.Context, id int64) (Combo, error) {
	cb, err := scanCombo(s.db.QueryRowContext(ctx, comboSelect+` WHERE cb.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Combo{}, ErrNotFound
	}
	if err != nil {
		return Combo{}, fmt.Errorf("query combo %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ci.product_id, COALESCE(p.name, ''), p.cost_price, ci.quantity
		FROM combo_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.combo_id = ?
		ORDER BY ci.id
	`, id)
	if err != nil {
		return Combo{}, fmt.Errorf("query combo %d items: %w", id, err)
	}
	defer rows.Close()

	cb.Lines = make([]ComboLine, 0)
	for rows.Next() {
		var (
			line      ComboLine
			productID sql.NullInt64
			cost      sql.NullFloat64
		)
		if err := rows.Scan(&productID, &line.ProductName, &cost, &line.Quantity); err != nil {
			return Combo{}, fmt.Errorf("scan combo item: %w", err)
		}
		line.ProductID = intPtr(productID)
		line.UnitCost = cost.Float64
		line.CostKnown = cost.Valid
		cb.Lines = append(cb.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return Combo{}, fmt.Errorf("iterate combo items: %w", err)
	}
	return cb, nil
}

// ListCombos returns combos without their lines, newest first.
func (s *Store) ListCombos(ctx context.Context) ([]Combo, error) {
	rows, err := s.db.QueryContext(ctx, comboSelect+` ORDER BY cb.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query combos: %w", err)
	}
	defer rows.Close()

	combos := make([]Combo, 0)
	for rows.Next() {
		cb, err := scanCombo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan combo: %w", err)
		}
		combos = append(combos, cb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate combos: %w", err)
	}
	return combos, nil
}

// SetComboPrice stores a new retail price for a combo.
func (s *Store) SetComboPrice(ctx context.Context, id int64, price float64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE combos SET price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, price, id)
	if err != nil {
		return fmt.Errorf("update combo %d price: %w", id, err)
	}
	return affectedOrNotFound(result)
}
