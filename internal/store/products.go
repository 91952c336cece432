package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Product is a sellable catalog item.
type Product struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	CategoryID   *int64  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	CostPrice    float64 `json:"cost_price"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	Active       bool    `json:"active"`
}

const productSelect = `
	SELECT p.id, p.name, p.sku, p.category_id, COALESCE(c.name, ''), p.cost_price, p.price, p.stock, p.active
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

func scanProduct(row rowScanner) (Product, error) {
	var (
		p          Product
		categoryID sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &categoryID, &p.CategoryName, &p.CostPrice, &p.Price, &p.Stock, &p.Active); err != nil {
		return Product{}, err
	}
	p.CategoryID = intPtr(categoryID)
	return p, nil
}

// ListProducts returns products whose name or SKU contains query, newest first.
func (s *Store) ListProducts(ctx context.Context, query string) ([]Product, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, productSelect+`
		WHERE (? = '' OR p.name LIKE ? OR p.sku LIKE ?)
		ORDER BY p.id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// GetProduct loads one product with its category name.
func (s *Store) GetProduct(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, productSelect+` WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("query product %d: %w", id, err)
	}
	return p, nil
}

// CreateProduct inserts p and returns its id.
func (s *Store) CreateProduct(ctx context.Context, p Product) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, sku, category_id, cost_price, price, stock, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.SKU, nullInt(p.CategoryID), p.CostPrice, p.Price, p.Stock, p.Active)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return result.LastInsertId()
}

// UpdateProduct overwrites the product with p.ID.
func (s *Store) UpdateProduct(ctx context.Context, p Product) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET
			name = ?,
			sku = ?,
			category_id = ?,
			cost_price = ?,
			price = ?,
			stock = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.SKU, nullInt(p.CategoryID), p.CostPrice, p.Price, p.Stock, p.Active, p.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return affectedOrNotFound(result)
}

// SetProductPrice stores a new retail price for a product.
func (s *Store) SetProductPrice(ctx context.Context, id int64, price float64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE products SET price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, price, id)
	if err != nil {
		return fmt.Errorf("update product %d price: %w", id, err)
	}
	return affectedOrNotFound(result)
}
