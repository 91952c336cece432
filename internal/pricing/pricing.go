package pricing

import (
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

const (
	defaultMarginLow     = 0.40
	defaultMarginMid     = 0.50
	defaultMarginHigh    = 0.60
	defaultMarginPremium = 0.70

	defaultPremiumCostFloor = 1200
	defaultLowTicketCeiling = 150
)

// Tier names one of the four margin levels.
type Tier string

const (
	TierLow     Tier = "low"
	TierMid     Tier = "mid"
	TierHigh    Tier = "high"
	TierPremium Tier = "premium"
)

// Tiers lists every tier from the smallest margin to the largest.
var Tiers = []Tier{TierLow, TierMid, TierHigh, TierPremium}

// ParseTier maps a tier name to its Tier.
func ParseTier(name string) (Tier, error) {
	for _, t := range Tiers {
		if string(t) == name {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "tier", Reason: fmt.Sprintf("nivel desconocido %q", name)}
}

// Reasons explaining why a tier was selected.
const (
	ReasonPremiumCategory = "premium_category"
	ReasonPremiumCost     = "premium_cost"
	ReasonLowTicket       = "low_ticket"
	ReasonDefault         = "default"
)

// MarginRule holds the fractional markups for each tier and the endings used to round them.
type MarginRule struct {
	Low     float64
	Mid     float64
	High    float64
	Premium float64
	Endings []string
}

// DefaultMarginRule returns the 40/50/60/70 rule rounded to endings 9 and 0.
func DefaultMarginRule() MarginRule {
	return MarginRule{
		Low:     defaultMarginLow,
		Mid:     defaultMarginMid,
		High:    defaultMarginHigh,
		Premium: defaultMarginPremium,
		Endings: slices.Clone(DefaultEndings),
	}
}

// Margin returns the markup the rule assigns to t.
func (r MarginRule) Margin(t Tier) float64 {
	switch t {
	case TierLow:
		return r.Low
	case TierHigh:
		return r.High
	case TierPremium:
		return r.Premium
	default:
		return r.Mid
	}
}

func (r MarginRule) isZero() bool {
	return r.Low == 0 && r.Mid == 0 && r.High == 0 && r.Premium == 0 && r.Endings == nil
}

// RuleOverrides is a partial MarginRule. Nil fields keep the base value; a non-nil empty
// Endings explicitly disables rounding. Endings is always encoded to JSON so that null and []
// survive a round trip.
type RuleOverrides struct {
	Low     *float64 `json:"margin_low,omitempty" yaml:"low,omitempty"`
	Mid     *float64 `json:"margin_mid,omitempty" yaml:"mid,omitempty"`
	High    *float64 `json:"margin_high,omitempty" yaml:"high,omitempty"`
	Premium *float64 `json:"margin_premium,omitempty" yaml:"premium,omitempty"`
	Endings []string `json:"endings" yaml:"endings,omitempty"`
}

// IsEmpty reports whether o overrides nothing.
func (o RuleOverrides) IsEmpty() bool {
	return o.Low == nil && o.Mid == nil && o.High == nil && o.Premium == nil && o.Endings == nil
}

// Apply merges o over base field by field.
func (o RuleOverrides) Apply(base MarginRule) MarginRule {
	out := MarginRule{
		Low:     base.Low,
		Mid:     base.Mid,
		High:    base.High,
		Premium: base.Premium,
		Endings: slices.Clone(base.Endings),
	}
	if o.Low != nil {
		out.Low = *o.Low
	}
	if o.Mid != nil {
		out.Mid = *o.Mid
	}
	if o.High != nil {
		out.High = *o.High
	}
	if o.Premium != nil {
		out.Premium = *o.Premium
	}
	if o.Endings != nil {
		out.Endings = slices.Clone(o.Endings)
	}
	return out
}

// Validate rejects margins that are not finite or would price at or below zero.
func (o RuleOverrides) Validate() error {
	for _, m := range []struct {
		field string
		value *float64
	}{
		{"margin_low", o.Low},
		{"margin_mid", o.Mid},
		{"margin_high", o.High},
		{"margin_premium", o.Premium},
	} {
		if m.value == nil {
			continue
		}
		if err := validateMargin(m.field, *m.value); err != nil {
			return err
		}
	}
	return nil
}

func validateMargin(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "debe ser un número finito"}
	}
	if v <= -1 {
		return &ValidationError{Field: field, Reason: "debe ser mayor a -1"}
	}
	return nil
}

// Options carries the optional inputs of a recommendation.
type Options struct {
	CategoryName string
	Rule         *RuleOverrides
}

// Recommendation is the result of pricing one cost figure.
type Recommendation struct {
	TierLow       float64  `json:"tier_low"`
	TierMid       float64  `json:"tier_mid"`
	TierHigh      float64  `json:"tier_high"`
	TierPremium   float64  `json:"tier_premium"`
	AppliedTier   Tier     `json:"applied_tier"`
	AppliedMargin float64  `json:"applied_margin"`
	Suggested     float64  `json:"suggested"`
	Endings       []string `json:"endings"`
	Reason        string   `json:"reason"`
}

// Price returns the rounded value of tier t.
func (r Recommendation) Price(t Tier) float64 {
	switch t {
	case TierLow:
		return r.TierLow
	case TierHigh:
		return r.TierHigh
	case TierPremium:
		return r.TierPremium
	default:
		return r.TierMid
	}
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Rule              MarginRule
	PremiumCategories []string
	PremiumCostFloor  float64
	LowTicketCeiling  float64
}

// DefaultEngineConfig returns the stock rule, allow-list and thresholds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Rule:              DefaultMarginRule(),
		PremiumCategories: slices.Clone(DefaultPremiumCategories),
		PremiumCostFloor:  defaultPremiumCostFloor,
		LowTicketCeiling:  defaultLowTicketCeiling,
	}
}

// Engine turns cost prices into tiered recommendations. It is immutable once built and safe
// for concurrent use.
type Engine struct {
	rule             MarginRule
	premium          categorySet
	premiumCostFloor float64
	lowTicketCeiling float64
}

// NewEngine builds an Engine from cfg. A zero Rule or zero threshold takes the default.
func NewEngine(cfg EngineConfig) *Engine {
	rule := cfg.Rule
	if rule.isZero() {
		rule = DefaultMarginRule()
	}
	floor := cfg.PremiumCostFloor
	if floor <= 0 {
		floor = defaultPremiumCostFloor
	}
	ceiling := cfg.LowTicketCeiling
	if ceiling <= 0 {
		ceiling = defaultLowTicketCeiling
	}

	return &Engine{
		rule:             MarginRule{Low: rule.Low, Mid: rule.Mid, High: rule.High, Premium: rule.Premium, Endings: slices.Clone(rule.Endings)},
		premium:          newCategorySet(cfg.PremiumCategories),
		premiumCostFloor: floor,
		lowTicketCeiling: ceiling,
	}
}

// Rule returns a copy of the engine's base rule.
func (e *Engine) Rule() MarginRule {
	return RuleOverrides{}.Apply(e.rule)
}

// IsPremiumCategory reports whether name is on the engine's premium allow-list.
func (e *Engine) IsPremiumCategory(name string) bool {
	return e.premium.contains(name)
}

var defaultEngine = NewEngine(DefaultEngineConfig())

// Recommend prices cost with the default engine.
func Recommend(cost float64, opts Options) (Recommendation, error) {
	return defaultEngine.Recommend(cost, opts)
}

// Recommend computes the four tier prices for cost, rounds them and selects one.
// It returns a ValidationError when cost is not a positive finite number.
//
// Rounding can collapse very small costs to 0: with endings 9 and 0 a cost of 1 gives tier
// prices 1.4 to 1.7, whose nearest allowed price is 0, so every tier and Suggested are 0.
// Callers pricing such items can disable rounding with an empty Endings override.
func (e *Engine) Recommend(cost float64, opts Options) (Recommendation, error) {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return Recommendation{}, &ValidationError{Field: "cost_price", Reason: "debe ser un número finito"}
	}
	if cost <= 0 {
		return Recommendation{}, &ValidationError{Field: "cost_price", Reason: "debe ser mayor a 0"}
	}

	rule := e.rule
	if opts.Rule != nil {
		if err := opts.Rule.Validate(); err != nil {
			return Recommendation{}, err
		}
		rule = opts.Rule.Apply(e.rule)
	}

	costD := decimal.NewFromFloat(cost)
	tierPrice := func(margin float64) float64 {
		raw := costD.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(margin)))
		rounded, _ := prettyDecimal(raw, rule.Endings)
		return rounded.InexactFloat64()
	}

	tier, reason := e.selectTier(cost, opts.CategoryName)
	rec := Recommendation{
		TierLow:       tierPrice(rule.Low),
		TierMid:       tierPrice(rule.Mid),
		TierHigh:      tierPrice(rule.High),
		TierPremium:   tierPrice(rule.Premium),
		AppliedTier:   tier,
		AppliedMargin: rule.Margin(tier),
		Endings:       slices.Clone(rule.Endings),
		Reason:        reason,
	}
	if rec.Endings == nil {
		rec.Endings = []string{}
	}
	rec.Suggested = rec.Price(tier)
	return rec, nil
}

// selectTier applies the first matching rule: premium category or cost at the premium floor
// gives premium; low-ticket items get mid rather than low, as does everything else.
func (e *Engine) selectTier(cost float64, category string) (Tier, string) {
	switch {
	case e.premium.contains(category):
		return TierPremium, ReasonPremiumCategory
	case cost >= e.premiumCostFloor:
		return TierPremium, ReasonPremiumCost
	case cost <= e.lowTicketCeiling:
		return TierMid, ReasonLowTicket
	default:
		return TierMid, ReasonDefault
	}
}
