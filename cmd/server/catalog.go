package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/vitrina/internal/pricing"
	"github.com/Simplici0/vitrina/internal/store"
)

func validateNonNegative(value float64, field string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s debe ser numérico", field)
	}
	if value < 0 {
		return fmt.Errorf("%s debe ser mayor o igual a 0", field)
	}
	return nil
}

func (s *server) handleCategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func parseCategory(r *http.Request) (store.Category, error) {
	var c store.Category
	if err := decodeJSON(r, &c); err != nil {
		return c, err
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return c, errors.New("name es requerido")
	}
	if err := c.Rule.Validate(); err != nil {
		return c, err
	}
	for _, ending := range c.Rule.Endings {
		if !pricing.ValidEnding(ending) {
			return c, fmt.Errorf("endings: %q debe contener solo dígitos", ending)
		}
	}
	return c, nil
}

func (s *server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	c, err := parseCategory(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	id, err := s.store.CreateCategory(r.Context(), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c.ID = id
	writeJSON(w, http.StatusCreated, c)
}

func (s *server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	c, err := parseCategory(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	c.ID = id

	if err := s.store.UpdateCategory(r.Context(), c); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type productView struct {
	store.Product
	Recommendation      *pricing.Recommendation `json:"recommendation"`
	RecommendationError string                  `json:"recommendation_error,omitempty"`
}

// productOptions resolves the category name and category rule used to price p.
func (s *server) productOptions(ctx context.Context, p store.Product) (pricing.Options, error) {
	opts := pricing.Options{CategoryName: p.CategoryName}
	if p.CategoryID == nil {
		return opts, nil
	}

	category, err := s.store.GetCategory(ctx, *p.CategoryID)
	if errors.Is(err, store.ErrNotFound) {
		return opts, nil
	}
	if err != nil {
		return opts, err
	}
	if !category.Rule.IsEmpty() {
		rule := category.Rule
		opts.Rule = &rule
	}
	return opts, nil
}

func (s *server) recommendProduct(ctx context.Context, p store.Product) (pricing.Recommendation, error) {
	engine, err := s.engine(ctx)
	if err != nil {
		return pricing.Recommendation{}, err
	}
	opts, err := s.productOptions(ctx, p)
	if err != nil {
		return pricing.Recommendation{}, err
	}
	return engine.Recommend(p.CostPrice, opts)
}

func (s *server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	products, err := s.store.ListProducts(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *server) handleProductGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	p, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := productView{Product: p}
	rec, err := s.recommendProduct(r.Context(), p)
	if err != nil {
		// A product without a usable recommendation is still a valid product.
		s.logger.Warn("no recommendation for product", zap.Int64("product_id", p.ID), zap.Error(err))
		view.RecommendationError = "no hay recomendación disponible"
	} else {
		view.Recommendation = &rec
	}
	writeJSON(w, http.StatusOK, view)
}

func parseProduct(r *http.Request) (store.Product, error) {
	var p store.Product
	if err := decodeJSON(r, &p); err != nil {
		return p, err
	}
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	if p.Name == "" {
		return p, errors.New("name es requerido")
	}
	if p.SKU == "" {
		return p, errors.New("sku es requerido")
	}
	if err := validateNonNegative(p.CostPrice, "cost_price"); err != nil {
		return p, err
	}
	if err := validateNonNegative(p.Price, "price"); err != nil {
		return p, err
	}
	if p.Stock < 0 {
		return p, errors.New("stock debe ser mayor o igual a 0")
	}
	return p, nil
}

func (s *server) handleProductCreate(w http.ResponseWriter, r *http.Request) {
	p, err := parseProduct(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	id, err := s.store.CreateProduct(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	p, err := parseProduct(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	p.ID = id

	if err := s.store.UpdateProduct(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type applyPriceRequest struct {
	Tier string `json:"tier"`
}

type applyPriceResponse struct {
	ID             int64                  `json:"id"`
	Tier           pricing.Tier           `json:"tier"`
	Price          float64                `json:"price"`
	Recommendation pricing.Recommendation `json:"recommendation"`
}

// chosenPrice returns the suggested price, or the price of an explicitly requested tier.
func chosenPrice(rec pricing.Recommendation, tierName string) (pricing.Tier, float64, error) {
	if tierName == "" {
		return rec.AppliedTier, rec.Suggested, nil
	}
	tier, err := pricing.ParseTier(tierName)
	if err != nil {
		return "", 0, err
	}
	return tier, rec.Price(tier), nil
}

func (s *server) handleProductApplyPrice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var req applyPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	p, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.recommendProduct(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tier, price, err := chosenPrice(rec, req.Tier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.SetProductPrice(r.Context(), id, price); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("applied recommended price",
		zap.Int64("product_id", id),
		zap.String("tier", string(tier)),
		zap.Float64("price", price),
	)
	writeJSON(w, http.StatusOK, applyPriceResponse{ID: id, Tier: tier, Price: price, Recommendation: rec})
}

func (s *server) handlePackagingList(w http.ResponseWriter, r *http.Request) {
	rates, err := s.store.ListPackagingRates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

func parsePackagingRate(r *http.Request) (store.PackagingRate, error) {
	var rate store.PackagingRate
	if err := decodeJSON(r, &rate); err != nil {
		return rate, err
	}
	rate.Name = strings.TrimSpace(rate.Name)
	rate.Notes = strings.TrimSpace(rate.Notes)
	if rate.Name == "" {
		return rate, errors.New("name es requerido")
	}
	if err := validateNonNegative(rate.FlatCost, "flat_cost"); err != nil {
		return rate, err
	}
	return rate, nil
}

func (s *server) handlePackagingCreate(w http.ResponseWriter, r *http.Request) {
	rate, err := parsePackagingRate(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	id, err := s.store.CreatePackagingRate(r.Context(), rate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rate.ID = id
	writeJSON(w, http.StatusCreated, rate)
}

func (s *server) handlePackagingUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	rate, err := parsePackagingRate(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	rate.ID = id

	if err := s.store.UpdatePackagingRate(r.Context(), rate); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rate)
}
