package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/vitrina/internal/pricing"
)

// pricingFile is the YAML layout of PRICING_FILE. Every field is optional.
type pricingFile struct {
	Rule              pricing.RuleOverrides `yaml:"rule"`
	PremiumCategories []string              `yaml:"premium_categories"`
	PremiumCostFloor  *float64              `yaml:"premium_cost_floor"`
	LowTicketCeiling  *float64              `yaml:"low_ticket_ceiling"`
}

// LoadPricing reads the engine configuration from a YAML file. An empty path or a missing
// file yields the defaults; fields present in the file replace the matching default.
func LoadPricing(path string) (pricing.EngineConfig, error) {
	if path == "" {
		return pricing.DefaultEngineConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return pricing.DefaultEngineConfig(), nil
		}
		return pricing.EngineConfig{}, fmt.Errorf("read pricing config: %w", err)
	}

	return ParsePricing(data)
}

// ParsePricing decodes a pricing YAML document over the defaults.
func ParsePricing(data []byte) (pricing.EngineConfig, error) {
	cfg := pricing.DefaultEngineConfig()

	var file pricingFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return pricing.EngineConfig{}, fmt.Errorf("parse pricing config: %w", err)
	}

	if err := file.Rule.Validate(); err != nil {
		return pricing.EngineConfig{}, fmt.Errorf("invalid pricing rule: %w", err)
	}
	for _, ending := range file.Rule.Endings {
		if !pricing.ValidEnding(ending) {
			return pricing.EngineConfig{}, fmt.Errorf("invalid pricing rule: ending %q must contain only digits", ending)
		}
	}
	cfg.Rule = file.Rule.Apply(cfg.Rule)

	if file.PremiumCategories != nil {
		cfg.PremiumCategories = file.PremiumCategories
	}
	if file.PremiumCostFloor != nil {
		if *file.PremiumCostFloor <= 0 {
			return pricing.EngineConfig{}, fmt.Errorf("premium_cost_floor must be greater than 0")
		}
		cfg.PremiumCostFloor = *file.PremiumCostFloor
	}
	if file.LowTicketCeiling != nil {
		if *file.LowTicketCeiling <= 0 {
			return pricing.EngineConfig{}, fmt.Errorf("low_ticket_ceiling must be greater than 0")
		}
		cfg.LowTicketCeiling = *file.LowTicketCeiling
	}

	return cfg, nil
}
