package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Simplici0/vitrina/internal/db"
	"github.com/Simplici0/vitrina/internal/migrations"
	"github.com/Simplici0/vitrina/internal/pricing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "store-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(ctx, database, zap.NewNop()))
	return New(database)
}

func ptr[T any](v T) *T { return &v }

func TestCategories_RoundTripRuleOverrides(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateCategory(ctx, Category{
		Name:    "Perfumería",
		Premium: true,
		Rule:    pricing.RuleOverrides{Premium: ptr(0.9), Endings: []string{"90", "99"}},
	})
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, Category{Name: "Papelería"})
	require.NoError(t, err)

	got, err := s.GetCategory(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Premium)
	assert.Nil(t, got.Rule.Low)
	require.NotNil(t, got.Rule.Premium)
	assert.InDelta(t, 0.9, *got.Rule.Premium, 1e-9)
	assert.Equal(t, []string{"90", "99"}, got.Rule.Endings)

	names, err := s.PremiumCategoryNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Perfumería"}, names)

	all, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Papelería", all[0].Name)
	assert.True(t, all[0].Rule.IsEmpty())
}

func TestCategories_EmptyEndingsOverrideSurvives(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateCategory(ctx, Category{Name: "Sin redondeo", Rule: pricing.RuleOverrides{Endings: []string{}}})
	require.NoError(t, err)

	got, err := s.GetCategory(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, got.Rule.Endings)
	assert.Empty(t, got.Rule.Endings)
}

func TestCategories_UpdateMissingIsNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateCategory(context.Background(), Category{ID: 404, Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetCategory(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProducts_CreateListSearchAndPrice(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	catID, err := s.CreateCategory(ctx, Category{Name: "Joyería", Premium: true})
	require.NoError(t, err)

	ringID, err := s.CreateProduct(ctx, Product{Name: "Anillo plata", SKU: "ANI-001", CategoryID: &catID, CostPrice: 400, Stock: 3, Active: true})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, Product{Name: "Cuaderno", SKU: "CUA-001", CostPrice: 12.5, Stock: 40, Active: true})
	require.NoError(t, err)

	all, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Cuaderno", all[0].Name)

	found, err := s.ListProducts(ctx, "ANI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Joyería", found[0].CategoryName)

	require.NoError(t, s.SetProductPrice(ctx, ringID, 689))
	ring, err := s.GetProduct(ctx, ringID)
	require.NoError(t, err)
	assert.InDelta(t, 689, ring.Price, 1e-9)
	require.NotNil(t, ring.CategoryID)
	assert.Equal(t, catID, *ring.CategoryID)

	ring.Name = "Anillo plata 925"
	ring.CategoryID = nil
	require.NoError(t, s.UpdateProduct(ctx, ring))
	ring, err = s.GetProduct(ctx, ringID)
	require.NoError(t, err)
	assert.Equal(t, "Anillo plata 925", ring.Name)
	assert.Nil(t, ring.CategoryID)
	assert.Empty(t, ring.CategoryName)

	assert.ErrorIs(t, s.SetProductPrice(ctx, 999, 1), ErrNotFound)
}

func TestPackagingRates_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreatePackagingRate(ctx, PackagingRate{Name: "Caja regalo", FlatCost: 3, Active: true})
	require.NoError(t, err)

	rate, err := s.GetPackagingRate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Caja regalo", rate.Name)

	rate.FlatCost = 4.5
	rate.Notes = "con moño"
	require.NoError(t, s.UpdatePackagingRate(ctx, rate))

	rates, err := s.ListPackagingRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.InDelta(t, 4.5, rates[0].FlatCost, 1e-9)
	assert.Equal(t, "con moño", rates[0].Notes)

	assert.ErrorIs(t, s.UpdatePackagingRate(ctx, PackagingRate{ID: 77, Name: "x"}), ErrNotFound)
}

func TestCombos_LinesCarryCurrentCosts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.CreateProduct(ctx, Product{Name: "Jabón", SKU: "JAB-1", CostPrice: 10, Active: true})
	require.NoError(t, err)
	b, err := s.CreateProduct(ctx, Product{Name: "Toalla", SKU: "TOA-1", CostPrice: 5, Active: true})
	require.NoError(t, err)
	packID, err := s.CreatePackagingRate(ctx, PackagingRate{Name: "Bolsa", FlatCost: 3, Active: true})
	require.NoError(t, err)

	comboID, err := s.CreateCombo(ctx, Combo{Name: "Kit baño", PackagingID: &packID, Active: true}, []NewComboLine{
		{ProductID: a, Quantity: 2},
		{ProductID: b, Quantity: 1},
	})
	require.NoError(t, err)

	cb, err := s.GetCombo(ctx, comboID)
	require.NoError(t, err)
	assert.Equal(t, "Bolsa", cb.PackagingName)
	require.Len(t, cb.Lines, 2)
	assert.True(t, cb.Lines[0].CostKnown)

	breakdown := pricing.AggregateComboCost(cb.ComboItems(), cb.PackagingCost)
	assert.InDelta(t, 25, breakdown.ItemsCost, 1e-9)
	assert.InDelta(t, 28, breakdown.TotalCost, 1e-9)

	_, err = s.DB().ExecContext(ctx, `DELETE FROM products WHERE id = ?`, b)
	require.NoError(t, err)

	cb, err = s.GetCombo(ctx, comboID)
	require.NoError(t, err)
	require.Len(t, cb.Lines, 2)
	assert.False(t, cb.Lines[1].CostKnown)
	assert.Nil(t, cb.Lines[1].ProductID)

	breakdown = pricing.AggregateComboCost(cb.ComboItems(), cb.PackagingCost)
	assert.InDelta(t, 23, breakdown.TotalCost, 1e-9)

	require.NoError(t, s.SetComboPrice(ctx, comboID, 49))
	combos, err := s.ListCombos(ctx)
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.InDelta(t, 49, combos[0].Price, 1e-9)

	_, err = s.GetCombo(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateCombo_RollsBackOnBadProduct(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateCombo(ctx, Combo{Name: "Roto", Active: true}, []NewComboLine{{ProductID: 999, Quantity: 1}})
	require.Error(t, err)

	combos, err := s.ListCombos(ctx)
	require.NoError(t, err)
	assert.Empty(t, combos)
}
