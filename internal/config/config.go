// Package config loads KERF_* environment variables and turns them into
// the option structs of the engine, batch runner, pricer and logger.
// Command line flags override what is loaded here.
package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chazu/kerf/internal/logging"
	"github.com/chazu/kerf/pkg/batch"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/pricing"
)

// Prefix is the prefix of every recognised environment variable.
const Prefix = "KERF_"

// Environment variable names.
const (
	EnvScale              = "KERF_SCALE"
	EnvTolerance          = "KERF_TOLERANCE"
	EnvRelativeTolerance  = "KERF_RELATIVE_TOLERANCE"
	EnvAngularTolerance   = "KERF_ANGULAR_TOLERANCE" // degrees
	EnvSplineSegments     = "KERF_SPLINE_SEGMENTS"
	EnvMaxWalkSteps       = "KERF_MAX_WALK_STEPS"
	EnvStrict             = "KERF_STRICT"
	EnvWorkers            = "KERF_WORKERS"
	EnvLogLevel           = "KERF_LOG_LEVEL"
	EnvLogFormat          = "KERF_LOG_FORMAT"
	EnvLogDevelopment     = "KERF_LOG_DEVELOPMENT"
	EnvCostPerMeter       = "KERF_COST_PER_METER"
	EnvCostPerSquareMeter = "KERF_COST_PER_SQUARE_METER"
	EnvCuttingFormula     = "KERF_CUTTING_FORMULA"
	EnvMaterialFormula    = "KERF_MATERIAL_FORMULA"
	EnvFormulaTimeout     = "KERF_FORMULA_TIMEOUT"
)

type Config struct {
	values map[string]string
}

// Load reads every non-empty KERF_* variable from the environment.
func Load() *Config {
	return FromEnviron(os.Environ())
}

// FromEnviron builds a Config from KEY=value pairs.
func FromEnviron(environ []string) *Config {
	cfg := &Config{values: make(map[string]string)}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, Prefix) || value == "" {
			continue
		}
		cfg.values[key] = value
	}
	return cfg
}

func (c *Config) GetString(key, defaultValue string) string {
	if value, exists := c.values[key]; exists {
		return value
	}
	return defaultValue
}

func (c *Config) GetInt(key string, defaultValue int) int {
	if value, exists := c.values[key]; exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) GetFloat(key string, defaultValue float64) float64 {
	if value, exists := c.values[key]; exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) {
			return f
		}
	}
	return defaultValue
}

func (c *Config) GetBool(key string, defaultValue bool) bool {
	if value, exists := c.values[key]; exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func (c *Config) GetDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := c.values[key]; exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Engine returns the engine configuration.
func (c *Config) Engine() engine.Config {
	e := engine.DefaultConfig()
	e.Scale = c.GetFloat(EnvScale, e.Scale)
	e.Tolerance = c.GetFloat(EnvTolerance, e.Tolerance)
	e.RelativeTolerance = c.GetFloat(EnvRelativeTolerance, e.RelativeTolerance)
	e.AngularTolerance = c.GetFloat(EnvAngularTolerance, e.AngularTolerance*180/math.Pi) * math.Pi / 180
	e.SplineSegments = c.GetInt(EnvSplineSegments, e.SplineSegments)
	e.MaxWalkSteps = c.GetInt(EnvMaxWalkSteps, e.MaxWalkSteps)
	e.Strict = c.GetBool(EnvStrict, e.Strict)
	return e
}

// Batch returns the batch runner options, including the engine config.
func (c *Config) Batch() batch.Options {
	b := batch.DefaultOptions()
	b.Workers = c.GetInt(EnvWorkers, b.Workers)
	b.Engine = c.Engine()
	return b
}

// Logging returns the logger configuration.
func (c *Config) Logging() logging.Config {
	l := logging.DefaultConfig()
	l.Level = c.GetString(EnvLogLevel, l.Level)
	l.Format = c.GetString(EnvLogFormat, l.Format)
	l.Development = c.GetBool(EnvLogDevelopment, l.Development)
	return l
}

// Pricing holds everything needed to build a pricing.Pricer.
type Pricing struct {
	Rates    pricing.Rates
	Cutting  pricing.Formula
	Material pricing.Formula
	Timeout  time.Duration
}

// Pricing returns the cost rates, formulas and evaluation timeout.
func (c *Config) Pricing() Pricing {
	return Pricing{
		Rates: pricing.Rates{
			CostPerMeter:       c.GetFloat(EnvCostPerMeter, 0),
			CostPerSquareMeter: c.GetFloat(EnvCostPerSquareMeter, 0),
		},
		Cutting:  pricing.Formula{Name: "cutting", Source: c.GetString(EnvCuttingFormula, pricing.DefaultCuttingFormula.Source)},
		Material: pricing.Formula{Name: "material", Source: c.GetString(EnvMaterialFormula, pricing.DefaultMaterialFormula.Source)},
		Timeout:  c.GetDuration(EnvFormulaTimeout, pricing.DefaultTimeout),
	}
}

// NewPricer builds a pricer from p.
func (p Pricing) NewPricer() (*pricing.Pricer, error) {
	return pricing.NewPricer(p.Rates, p.Cutting, p.Material, p.Timeout)
}
