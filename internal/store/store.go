// Package store is the SQLite data-access layer for the catalog: categories, products,
// packaging rates and combos.
package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/Simplici0/vitrina/internal/pricing"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a *sql.DB with catalog queries.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that need transactions of their own.
func (s *Store) DB() *sql.DB {
	return s.db
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}

// encodeEndings stores endings as a comma separated list; NULL means "not overridden".
func encodeEndings(endings []string) sql.NullString {
	if endings == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(endings, ","), Valid: true}
}

func decodeEndings(v sql.NullString) []string {
	if !v.Valid {
		return nil
	}
	out := []string{}
	for _, part := range strings.Split(v.String, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func affectedOrNotFound(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ruleFromColumns builds the category override rule from nullable columns.
func ruleFromColumns(low, mid, high, premium sql.NullFloat64, endings sql.NullString) pricing.RuleOverrides {
	return pricing.RuleOverrides{
		Low:     floatPtr(low),
		Mid:     floatPtr(mid),
		High:    floatPtr(high),
		Premium: floatPtr(premium),
		Endings: decodeEndings(endings),
	}
}
