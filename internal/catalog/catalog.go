// Package catalog defines which equipment each role receives and what it costs.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edvin/onboarding/internal/model"
)

// Catalog maps roles to asset bundles and asset types to costs.
type Catalog struct {
	// DefaultBundle is handed out for roles without an entry in Bundles.
	DefaultBundle []string            `yaml:"default_bundle"`
	Bundles       map[string][]string `yaml:"bundles"`
	Costs         CostRules           `yaml:"costs"`
	// DeliveryWindowDays bounds the synthetic delivery date of simulated allocations.
	DeliveryWindowDays int `yaml:"delivery_window_days"`
}

// CostRules price assets by category. A type containing any of the laptop
// or bag keywords gets that category's price; everything else is Other.
type CostRules struct {
	Laptop         float64  `yaml:"laptop"`
	Bag            float64  `yaml:"bag"`
	Other          float64  `yaml:"other"`
	LaptopKeywords []string `yaml:"laptop_keywords"`
	BagKeywords    []string `yaml:"bag_keywords"`
}

var baseBundle = []string{"laptop", "ID_card", "welcome_bag", "access_card"}

// Default returns the built-in catalog.
func Default() *Catalog {
	manager := withExtras(baseBundle, "parking_pass", "mobile_phone")
	return &Catalog{
		DefaultBundle: append([]string(nil), baseBundle...),
		Bundles: map[string][]string{
			model.DefaultRole: append([]string(nil), baseBundle...),
			"developer":       withExtras(baseBundle, "development_tools"),
			"manager":         manager,
			"intern":          {"laptop", "ID_card", "temporary_badge"},
			"executive":       withExtras(manager, "company_car"),
			"admin":           append([]string(nil), baseBundle...),
		},
		Costs: CostRules{
			Laptop:         1200,
			Bag:            50,
			Other:          25,
			LaptopKeywords: []string{"laptop"},
			BagKeywords:    []string{"bag"},
		},
		DeliveryWindowDays: 7,
	}
}

// Load reads a YAML catalog from path. Omitted sections keep the built-in
// values, so a file may override only the bundles it cares about.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset catalog: %w", err)
	}

	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse asset catalog %s: %w", path, err)
	}

	c := Default()
	if len(file.DefaultBundle) > 0 {
		c.DefaultBundle = file.DefaultBundle
	}
	for role, bundle := range file.Bundles {
		c.Bundles[strings.ToLower(role)] = bundle
	}
	if file.Costs.Laptop > 0 {
		c.Costs.Laptop = file.Costs.Laptop
	}
	if file.Costs.Bag > 0 {
		c.Costs.Bag = file.Costs.Bag
	}
	if file.Costs.Other > 0 {
		c.Costs.Other = file.Costs.Other
	}
	if len(file.Costs.LaptopKeywords) > 0 {
		c.Costs.LaptopKeywords = file.Costs.LaptopKeywords
	}
	if len(file.Costs.BagKeywords) > 0 {
		c.Costs.BagKeywords = file.Costs.BagKeywords
	}
	if file.DeliveryWindowDays > 0 {
		c.DeliveryWindowDays = file.DeliveryWindowDays
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("asset catalog %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault loads path, or returns the built-in catalog when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Catalog) Validate() error {
	if len(c.DefaultBundle) == 0 {
		return fmt.Errorf("default_bundle must not be empty")
	}
	for role, bundle := range c.Bundles {
		if len(bundle) == 0 {
			return fmt.Errorf("bundle for role %q must not be empty", role)
		}
	}
	return nil
}

// Bundle returns a copy of the asset types for role, falling back to the
// default bundle for unknown roles.
func (c *Catalog) Bundle(role string) []string {
	if b, ok := c.Bundles[strings.ToLower(role)]; ok {
		return append([]string(nil), b...)
	}
	return append([]string(nil), c.DefaultBundle...)
}

// Cost prices a single asset type.
func (c *Catalog) Cost(assetType string) float64 {
	t := strings.ToLower(assetType)
	if containsAny(t, c.Costs.LaptopKeywords) {
		return c.Costs.Laptop
	}
	if containsAny(t, c.Costs.BagKeywords) {
		return c.Costs.Bag
	}
	return c.Costs.Other
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func withExtras(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
