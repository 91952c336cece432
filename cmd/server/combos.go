package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/vitrina/internal/pricing"
	"github.com/Simplici0/vitrina/internal/store"
)

type comboCreateRequest struct {
	Name        string               `json:"name"`
	CategoryID  *int64               `json:"category_id"`
	PackagingID *int64               `json:"packaging_id"`
	Active      *bool                `json:"active"`
	Items       []store.NewComboLine `json:"items"`
}

type comboView struct {
	store.Combo
	Breakdown           pricing.ComboCostBreakdown `json:"breakdown"`
	Recommendation      *pricing.Recommendation    `json:"recommendation"`
	RecommendationError string                     `json:"recommendation_error,omitempty"`
}

func (s *server) handleCombosList(w http.ResponseWriter, r *http.Request) {
	combos, err := s.store.ListCombos(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, combos)
}

func parseComboCreate(r *http.Request) (comboCreateRequest, error) {
	var req comboCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return req, errors.New("name es requerido")
	}
	if len(req.Items) == 0 {
		return req, errors.New("items es requerido")
	}
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return req, fmt.Errorf("items[%d].product_id es inválido", i)
		}
		if item.Quantity <= 0 {
			return req, fmt.Errorf("items[%d].quantity debe ser mayor a 0", i)
		}
	}
	return req, nil
}

func (s *server) handleComboCreate(w http.ResponseWriter, r *http.Request) {
	req, err := parseComboCreate(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	id, err := s.store.CreateCombo(r.Context(), store.Combo{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		PackagingID: req.PackagingID,
		Active:      active,
	}, req.Items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.comboView(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// recommendCombo rolls up the combo cost and prices it with the combo's category.
func (s *server) recommendCombo(ctx context.Context, cb store.Combo) (pricing.ComboCostBreakdown, pricing.Recommendation, error) {
	engine, err := s.engine(ctx)
	if err != nil {
		return pricing.ComboCostBreakdown{}, pricing.Recommendation{}, err
	}

	opts := pricing.Options{CategoryName: cb.CategoryName}
	if cb.CategoryID != nil {
		category, err := s.store.GetCategory(ctx, *cb.CategoryID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return pricing.ComboCostBreakdown{}, pricing.Recommendation{}, err
		}
		if err == nil && !category.Rule.IsEmpty() {
			rule := category.Rule
			opts.Rule = &rule
		}
	}
	return engine.RecommendCombo(cb.ComboItems(), cb.PackagingCost, opts)
}

func (s *server) comboView(ctx context.Context, id int64) (comboView, error) {
	cb, err := s.store.GetCombo(ctx, id)
	if err != nil {
		return comboView{}, err
	}

	view := comboView{Combo: cb}
	breakdown, rec, err := s.recommendCombo(ctx, cb)
	view.Breakdown = breakdown
	if err != nil {
		s.logger.Warn("no recommendation for combo", zap.Int64("combo_id", cb.ID), zap.Error(err))
		view.RecommendationError = "no hay recomendación disponible"
		return view, nil
	}
	view.Recommendation = &rec
	return view, nil
}

func (s *server) handleComboGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	view, err := s.comboView(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleComboApplyPrice(w http.ResponseWriter, r *http.Request) {
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

	cb, err := s.store.GetCombo(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, rec, err := s.recommendCombo(r.Context(), cb)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tier, price, err := chosenPrice(rec, req.Tier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.SetComboPrice(r.Context(), id, price); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("applied recommended combo price",
		zap.Int64("combo_id", id),
		zap.String("tier", string(tier)),
		zap.Float64("price", price),
	)
	writeJSON(w, http.StatusOK, applyPriceResponse{ID: id, Tier: tier, Price: price, Recommendation: rec})
}
