// Package config loads and validates the YAML configuration file
// cmd/roster reads before building and solving a roster. Grounded in
// _examples/jakec-github-ilford-drop-in/v2/internal/config/config.go's
// LoadWithEnv/Validate pattern: yaml.v3 for parsing,
// go-playground/validator for struct-tag validation, rrule-go for
// validating any recurrence block up front rather than at solve time.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/sapischedule/roster/pkg/roster"
)

// ColumnMap names the spreadsheet columns a future xlsx adapter should
// read for one record stream. The core never reads these itself
// (spreadsheet I/O is out of scope); they exist so a later adapter has a
// typed, validated target instead of inventing its own ad hoc mapping,
// per data_input.py's FichaServoInfo/DemandaInfo/IndispInfo column
// constants.
type ColumnMap struct {
	Sheet      string `yaml:"sheet" validate:"required"`
	HeaderRow  int    `yaml:"headerRow" validate:"gte=1"`
	FirstDataRow int  `yaml:"firstDataRow" validate:"gte=1"`
}

// RecurrenceConfig mirrors roster.Recurrence in YAML-loadable form.
type RecurrenceConfig struct {
	RRule string `yaml:"rrule" validate:"required"`
	Start string `yaml:"start" validate:"required"` // RFC3339 date
	Count int    `yaml:"count" validate:"gte=1"`
}

// Config is the top-level YAML document cmd/roster loads: the solve
// parameters (mirroring roster.BuildConfig), the optional recurrence
// block, and the xlsx adapter's column seams.
type Config struct {
	MaxSolutions   int    `yaml:"max_solutions" validate:"gte=1"`
	MaxTimeSeconds int    `yaml:"max_time_seconds" validate:"gte=1"`
	MinGapDays     int    `yaml:"min_gap_days" validate:"gte=1"`
	ExpThreshold   int    `yaml:"exp_threshold" validate:"gte=0,lte=5"`

	Recurrence *RecurrenceConfig `yaml:"recurrence,omitempty"`

	RosterColumns ColumnMap `yaml:"roster_columns"`
	DemandColumns ColumnMap `yaml:"demand_columns"`
	AvailabilityColumns ColumnMap `yaml:"availability_columns"`
}

var validate = validator.New()

// Default returns a Config seeded with roster.DefaultBuildConfig's
// values, before any YAML overrides are applied.
func Default() Config {
	base := roster.DefaultBuildConfig()
	return Config{
		MaxSolutions:   base.MaxSolutions,
		MaxTimeSeconds: base.MaxTimeSeconds,
		MinGapDays:     base.MinGapDays,
		ExpThreshold:   3,
	}
}

// LoadFromPath reads, parses, and validates a Config from path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct-tag validation plus the one cross-field check
// validator tags can't express: the recurrence block's RRULE must parse.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Recurrence != nil {
		if _, err := rrule.StrToRRule(cfg.Recurrence.RRule); err != nil {
			return fmt.Errorf("invalid rrule in recurrence block: %w", err)
		}
	}

	return nil
}

// BuildConfig projects the solve-parameter fields into a
// roster.BuildConfig, leaving Relaxed empty (the caller fills it in per
// relaxation-ladder rung).
func (c *Config) BuildConfig() roster.BuildConfig {
	return roster.BuildConfig{
		MaxSolutions:   c.MaxSolutions,
		MaxTimeSeconds: c.MaxTimeSeconds,
		MinGapDays:     c.MinGapDays,
		Relaxed:        map[roster.ConstraintID]bool{},
	}
}
