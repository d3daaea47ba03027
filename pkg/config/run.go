// Package config provides the run-scoped configuration consumed while
// building the optimization model.
//
// RunConfig is passed explicitly into the builder and the objective
// engine; nothing here is global state. The values mirror the run
// configuration of the modeling front end: objective mode and sense,
// the ensure-feasibility flag with its bigM penalty coefficient, the
// cost-class weights, and the compatibility switch for the deprecated
// charge_rate constraint.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/enermodel/capacity-planner/pkg/core"
)

// Objective modes.
const (
	// ObjectiveCost minimizes (or maximizes) the weighted total system cost.
	ObjectiveCost = "cost"
	// ObjectiveFeasibility uses the constant objective 1 to verify that the
	// constraint set is not contradictory. No cost data is consulted.
	ObjectiveFeasibility = "feasibility"
)

// DefaultBigM is the default penalty coefficient for unmet-demand slack.
// It must dominate any plausible real cost so slack is only used when the
// model would otherwise be infeasible.
const DefaultBigM = 1e9

// RunConfig carries the run-scoped settings for one model build.
type RunConfig struct {
	// Objective selects the objective mode: "cost" or "feasibility".
	Objective string `yaml:"objective"`

	// Sense is the optimization direction for the cost objective.
	Sense core.Sense `yaml:"sense"`

	// EnsureFeasibility enables the unmet-demand/unused-supply penalty
	// term in the cost objective. When false the term is structurally
	// absent, not zero-weighted.
	EnsureFeasibility bool `yaml:"ensureFeasibility"`

	// BigM is the penalty coefficient applied to feasibility slack.
	BigM float64 `yaml:"bigM"`

	// CostClassWeights maps cost classes to their weight in the objective.
	CostClassWeights map[core.CostClass]float64 `yaml:"costClassWeights"`

	// AllowLegacyChargeRate enables the deprecated charge_rate-derived
	// energy capacity constraint. Superseded by
	// energy_cap_per_storage_cap_max; both apply when both parameters are
	// configured, and the tighter bound binds.
	AllowLegacyChargeRate bool `yaml:"allowLegacyChargeRate"`
}

// Default returns the standard run configuration: minimize monetary cost,
// no feasibility slack, legacy charge_rate disabled.
func Default() RunConfig {
	return RunConfig{
		Objective: ObjectiveCost,
		Sense:     core.Minimize,
		BigM:      DefaultBigM,
		CostClassWeights: map[core.CostClass]float64{
			"monetary": 1,
		},
	}
}

// Validate checks for invalid configuration values.
func (c *RunConfig) Validate() error {
	switch c.Objective {
	case ObjectiveCost, ObjectiveFeasibility:
	default:
		return fmt.Errorf("objective must be %q or %q, got %q", ObjectiveCost, ObjectiveFeasibility, c.Objective)
	}
	switch c.Sense {
	case core.Minimize, core.Maximize:
	default:
		return fmt.Errorf("sense must be %q or %q, got %q", core.Minimize, core.Maximize, c.Sense)
	}
	if c.Objective == ObjectiveCost && len(c.CostClassWeights) == 0 {
		return fmt.Errorf("cost objective requires at least one cost class weight")
	}
	if c.EnsureFeasibility {
		if c.BigM <= 0 {
			return fmt.Errorf("bigM must be positive when ensureFeasibility is set, got %g", c.BigM)
		}
		if math.IsInf(c.BigM, 0) || math.IsNaN(c.BigM) {
			return fmt.Errorf("bigM must be finite, got %g", c.BigM)
		}
	}
	for class, w := range c.CostClassWeights {
		if math.IsInf(w, 0) || math.IsNaN(w) {
			return fmt.Errorf("weight for cost class %q must be finite, got %g", class, w)
		}
	}
	return nil
}

// Parse decodes a RunConfig from yaml, filling unset fields from Default
// and validating the result.
func Parse(data []byte) (RunConfig, error) {
	cfg := Default()
	// yaml merges mappings into a pre-populated map, which would leak the
	// default weights into a document that names its own cost classes.
	// Decode into a fresh map and fall back to the defaults only when the
	// document sets none.
	defaultWeights := cfg.CostClassWeights
	cfg.CostClassWeights = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse run config: %w", err)
	}
	if len(cfg.CostClassWeights) == 0 {
		cfg.CostClassWeights = defaultWeights
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// readWeights decodes the cost-class weights straight from the yaml
// document. viper lowercases all map keys, which would corrupt
// case-sensitive cost class names (e.g. "CO2").
func readWeights(path string) (map[core.CostClass]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run config %s: %w", path, err)
	}
	var doc struct {
		CostClassWeights map[core.CostClass]float64 `yaml:"costClassWeights"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse run config %s: %w", path, err)
	}
	return doc.CostClassWeights, nil
}

// Load reads a RunConfig from a yaml file via viper, filling unset fields
// from Default and validating the result. Environment variables prefixed
// with PLANNER_ override file values.
func Load(path string) (RunConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("PLANNER")
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("objective", def.Objective)
	v.SetDefault("sense", string(def.Sense))
	v.SetDefault("ensureFeasibility", def.EnsureFeasibility)
	v.SetDefault("bigM", def.BigM)
	v.SetDefault("allowLegacyChargeRate", def.AllowLegacyChargeRate)

	if err := v.ReadInConfig(); err != nil {
		return RunConfig{}, fmt.Errorf("read run config %s: %w", path, err)
	}

	cfg := RunConfig{
		Objective:             v.GetString("objective"),
		Sense:                 core.Sense(v.GetString("sense")),
		EnsureFeasibility:     v.GetBool("ensureFeasibility"),
		BigM:                  v.GetFloat64("bigM"),
		AllowLegacyChargeRate: v.GetBool("allowLegacyChargeRate"),
	}
	weights, err := readWeights(path)
	if err != nil {
		return RunConfig{}, err
	}
	if len(weights) == 0 {
		cfg.CostClassWeights = def.CostClassWeights
	} else {
		cfg.CostClassWeights = weights
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}
