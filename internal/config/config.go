package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"coursetable/internal/model"
)

// Config holds static scheduling configuration: the slot calendars, tuning
// constants of the constraint catalog, the solver budget and the serving
// surface. Per-run knobs (blocked ranges, seed) live in model.RunConfig.
type Config struct {
	TheorySlots []string `json:"theorySlots"`
	LabSlots    []string `json:"labSlots"`
	Days        []string `json:"days"`

	LunchSlot       int `json:"lunchSlot"`
	MaxTheoryPerDay int `json:"maxTheoryPerDay"`
	MaxLabPerDay    int `json:"maxLabPerDay"`
	MinScatterSlots int `json:"minScatterSlots"`

	BudgetSeconds int   `json:"budgetSeconds"`
	Seed          int64 `json:"seed"`

	Server ServerConfig `json:"server"`
}

type ServerConfig struct {
	Addr        string `json:"addr"`
	CoursesFile string `json:"coursesFile"`
	RoomsFile   string `json:"roomsFile"`
}

// Default returns the configuration matching the standard calendars.
func Default() *Config {
	theory := model.DefaultTheoryCalendar()
	lab := model.DefaultLabCalendar()
	return &Config{
		TheorySlots:     theory.Slots,
		LabSlots:        lab.Slots,
		Days:            theory.Days,
		LunchSlot:       model.DefaultLunchSlot,
		MaxTheoryPerDay: model.DefaultMaxTheoryPerDay,
		MaxLabPerDay:    model.DefaultMaxLabPerDay,
		MinScatterSlots: model.DefaultMinScatterSlots,
		BudgetSeconds:   int(model.DefaultBudget / time.Second),
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads configuration from a yaml or json file with environment
// overrides (COURSETABLE_ prefix, __ as the nesting separator). Fields absent
// from both keep their defaults. An empty path yields pure defaults plus
// environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}

	// Optional environment overrides
	if err := k.Load(env.Provider("COURSETABLE_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "coursetable_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.TheorySlots) == 0 || len(c.LabSlots) == 0 {
		return fmt.Errorf("config: calendars must contain at least one slot")
	}
	if len(c.Days) == 0 {
		return fmt.Errorf("config: at least one working day is required")
	}
	if c.LunchSlot < 0 || c.LunchSlot >= len(c.TheorySlots) {
		return fmt.Errorf("config: lunch slot %v outside the theory calendar", c.LunchSlot)
	}
	if c.MaxTheoryPerDay < 1 || c.MaxLabPerDay < 1 {
		return fmt.Errorf("config: per-day session caps must be positive")
	}
	if c.BudgetSeconds < 0 {
		return fmt.Errorf("config: budget must not be negative")
	}
	return nil
}

// TheoryCalendar materializes the configured theory calendar.
func (c *Config) TheoryCalendar() model.Calendar {
	return model.Calendar{Slots: c.TheorySlots, Days: c.Days}
}

// LabCalendar materializes the configured lab calendar.
func (c *Config) LabCalendar() model.Calendar {
	return model.Calendar{Slots: c.LabSlots, Days: c.Days}
}

// Tuning materializes the configured catalog constants.
func (c *Config) Tuning() model.Tuning {
	return model.Tuning{
		LunchSlot:       c.LunchSlot,
		MaxTheoryPerDay: c.MaxTheoryPerDay,
		MaxLabPerDay:    c.MaxLabPerDay,
		MinScatterSlots: c.MinScatterSlots,
	}
}

// Budget converts the configured budget to a duration.
func (c *Config) Budget() time.Duration {
	if c.BudgetSeconds <= 0 {
		return model.DefaultBudget
	}
	return time.Duration(c.BudgetSeconds) * time.Second
}
