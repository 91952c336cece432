package main

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/Simplici0/vitrina/internal/pricing"
)

// engine builds a pricing engine from the configured defaults plus the categories flagged
// premium in the database. It is rebuilt per request so rule edits apply immediately.
func (s *server) engine(ctx context.Context) (*pricing.Engine, error) {
	names, err := s.store.PremiumCategoryNames(ctx)
	if err != nil {
		return nil, err
	}

	cfg := s.pricing
	cfg.PremiumCategories = append(slices.Clone(cfg.PremiumCategories), names...)
	return pricing.NewEngine(cfg), nil
}

type recommendRequest struct {
	CostPrice    *float64               `json:"cost_price"`
	CategoryName string                 `json:"category_name"`
	Rule         *pricing.RuleOverrides `json:"rule"`
}

func (s *server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if req.CostPrice == nil {
		s.writeError(w, r, &pricing.ValidationError{Field: "cost_price", Reason: "es requerido"})
		return
	}

	engine, err := s.engine(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := engine.Recommend(*req.CostPrice, pricing.Options{CategoryName: req.CategoryName, Rule: req.Rule})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type prettyRequest struct {
	Value   float64  `json:"value"`
	Endings []string `json:"endings"`
}

func (s *server) handlePretty(w http.ResponseWriter, r *http.Request) {
	var req prettyRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"value": pricing.PrettyPrice(req.Value, req.Endings)})
}

// comboItemInput accepts numbers or strings for each field; anything unparseable counts as 0.
type comboItemInput struct {
	pricing.ComboItem
}

func (c *comboItemInput) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		c.ComboItem = pricing.ComboItem{}
		return nil
	}
	c.ComboItem = pricing.ParseComboItem(lenientString(raw["unit_cost"]), lenientString(raw["quantity"]))
	return nil
}

func lenientString(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return strings.TrimSpace(x)
	default:
		return ""
	}
}

type comboCostRequest struct {
	Items         []comboItemInput `json:"items"`
	PackagingCost float64          `json:"packaging_cost"`
	Recommend     bool             `json:"recommend"`
	CategoryName  string           `json:"category_name"`
}

type comboCostResponse struct {
	Breakdown      pricing.ComboCostBreakdown `json:"breakdown"`
	Recommendation *pricing.Recommendation    `json:"recommendation,omitempty"`
}

func (s *server) handleComboCost(w http.ResponseWriter, r *http.Request) {
	var req comboCostRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	items := make([]pricing.ComboItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, item.ComboItem)
	}

	resp := comboCostResponse{Breakdown: pricing.AggregateComboCost(items, req.PackagingCost)}
	if req.Recommend {
		engine, err := s.engine(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		rec, err := engine.Recommend(resp.Breakdown.TotalCost, pricing.Options{CategoryName: req.CategoryName})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Recommendation = &rec
	}
	writeJSON(w, http.StatusOK, resp)
}
