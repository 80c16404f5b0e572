package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"SMCSentinel/internal/smc"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Source   string   `yaml:"source"`
		BaseURL  string   `yaml:"base_url"`
		APIKey   string   `yaml:"api_key"`
		Dir      string   `yaml:"dir"`
		Symbols  []string `yaml:"symbols"`
		Interval string   `yaml:"interval"`
		BarLimit int      `yaml:"bar_limit"`
	} `yaml:"data_source"`
	Engine   Engine `yaml:"engine"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		Output     string `yaml:"output"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`
	Scan struct {
		Concurrency       int     `yaml:"concurrency"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		RecentEvents      int     `yaml:"recent_events"`
	} `yaml:"scan"`
	Proxy string `yaml:"proxy"`
}

// Engine is the YAML form of smc.Options. Selector fields are strings so the
// file stays readable; EngineOptions parses them.
type Engine struct {
	Mode  string `yaml:"mode"`
	Style string `yaml:"style"`

	ShowInternalStructure    bool `yaml:"show_internal_structure"`
	InternalSize             int  `yaml:"internal_size"`
	InternalFilterConfluence bool `yaml:"internal_filter_confluence"`
	ShowSwingStructure       bool `yaml:"show_swing_structure"`
	SwingSize                int  `yaml:"swing_size"`
	ShowHighLowSwings        bool `yaml:"show_high_low_swings"`

	ShowInternalOrderBlocks bool   `yaml:"show_internal_order_blocks"`
	InternalOrderBlocksSize int    `yaml:"internal_order_blocks_size"`
	ShowSwingOrderBlocks    bool   `yaml:"show_swing_order_blocks"`
	SwingOrderBlocksSize    int    `yaml:"swing_order_blocks_size"`
	OrderBlockFilter        string `yaml:"order_block_filter"`
	OrderBlockMitigation    string `yaml:"order_block_mitigation"`

	ShowEqualHighsLows      bool    `yaml:"show_equal_highs_lows"`
	EqualHighsLowsLength    int     `yaml:"equal_highs_lows_length"`
	EqualHighsLowsThreshold float64 `yaml:"equal_highs_lows_threshold"`

	ShowFairValueGaps          bool `yaml:"show_fair_value_gaps"`
	FairValueGapsAutoThreshold bool `yaml:"fair_value_gaps_auto_threshold"`
	FairValueGapsExtend        int  `yaml:"fair_value_gaps_extend"`

	ShowPremiumDiscountZones bool `yaml:"show_premium_discount_zones"`
}

// envOverrides lists the environment variables that take precedence over the file.
type envOverrides struct {
	Source      string   `envconfig:"SMC_SOURCE"`
	Symbols     []string `envconfig:"SMC_SYMBOLS"`
	Interval    string   `envconfig:"SMC_INTERVAL"`
	BarLimit    int      `envconfig:"SMC_BAR_LIMIT"`
	DataDir     string   `envconfig:"SMC_DATA_DIR"`
	SQLitePath  string   `envconfig:"SMC_SQLITE_PATH"`
	Concurrency int      `envconfig:"SMC_CONCURRENCY"`
	BaseURL     string   `envconfig:"VSTRADER_BASE_URL"`
	APIKey      string   `envconfig:"VSTRADER_API_KEY"`
	LogLevel    string   `envconfig:"LOG_LEVEL"`
	Proxy       string   `envconfig:"HTTPS_PROXY"`
}

var sources = map[string]bool{
	"yahoo":    true,
	"vstrader": true,
	"csv":      true,
	"parquet":  true,
	"sqlite":   true,
	"mock":     true,
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{Engine: DefaultEngine()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(env)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(env envOverrides) {
	if env.Source != "" {
		c.DataSource.Source = env.Source
	}
	if len(env.Symbols) > 0 {
		c.DataSource.Symbols = env.Symbols
	}
	if env.Interval != "" {
		c.DataSource.Interval = env.Interval
	}
	if env.BarLimit > 0 {
		c.DataSource.BarLimit = env.BarLimit
	}
	if env.DataDir != "" {
		c.DataSource.Dir = env.DataDir
	}
	if env.SQLitePath != "" {
		c.Database.SQLitePath = env.SQLitePath
	}
	if env.Concurrency > 0 {
		c.Scan.Concurrency = env.Concurrency
	}
	if env.BaseURL != "" {
		c.DataSource.BaseURL = env.BaseURL
	}
	if env.APIKey != "" {
		c.DataSource.APIKey = env.APIKey
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.Proxy != "" {
		c.Proxy = env.Proxy
	}
}

func (c *Config) applyDefaults() {
	c.DataSource.Source = strings.ToLower(strings.TrimSpace(c.DataSource.Source))
	if c.DataSource.Source == "" {
		c.DataSource.Source = "yahoo"
	}
	for i, s := range c.DataSource.Symbols {
		c.DataSource.Symbols[i] = strings.TrimSpace(s)
	}
	// The sqlite source falls back to every stored symbol.
	if len(c.DataSource.Symbols) == 0 && c.DataSource.Source != "sqlite" {
		c.DataSource.Symbols = []string{"SPX500"}
	}
	if c.DataSource.Interval == "" {
		c.DataSource.Interval = "1d"
	}
	if c.DataSource.BarLimit == 0 {
		c.DataSource.BarLimit = 500
	}
	if c.DataSource.Dir == "" {
		c.DataSource.Dir = "data/bars"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/smc_sentinel.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = 4
	}
	if c.Scan.RecentEvents == 0 {
		c.Scan.RecentEvents = 10
	}
}

// DefaultEngine returns the engine block matching smc.DefaultOptions.
func DefaultEngine() Engine {
	o := smc.DefaultOptions()
	return Engine{
		Mode:                       o.Mode.String(),
		Style:                      o.Style.String(),
		ShowInternalStructure:      o.ShowInternalStructure,
		InternalSize:               o.InternalSize,
		InternalFilterConfluence:   o.InternalFilterConfluence,
		ShowSwingStructure:         o.ShowSwingStructure,
		SwingSize:                  o.SwingSize,
		ShowHighLowSwings:          o.ShowHighLowSwings,
		ShowInternalOrderBlocks:    o.ShowInternalOrderBlocks,
		InternalOrderBlocksSize:    o.InternalOrderBlocksSize,
		ShowSwingOrderBlocks:       o.ShowSwingOrderBlocks,
		SwingOrderBlocksSize:       o.SwingOrderBlocksSize,
		OrderBlockFilter:           o.OrderBlockFilter.String(),
		OrderBlockMitigation:       o.OrderBlockMitigation.String(),
		ShowEqualHighsLows:         o.ShowEqualHighsLows,
		EqualHighsLowsLength:       o.EqualHighsLowsLength,
		EqualHighsLowsThreshold:    o.EqualHighsLowsThreshold,
		ShowFairValueGaps:          o.ShowFairValueGaps,
		FairValueGapsAutoThreshold: o.FairValueGapsAutoThreshold,
		FairValueGapsExtend:        o.FairValueGapsExtend,
		ShowPremiumDiscountZones:   o.ShowPremiumDiscountZones,
	}
}

// EngineOptions converts the engine block into validated smc.Options.
func (c *Config) EngineOptions() (smc.Options, error) {
	e := c.Engine
	mode, err := smc.ParseMode(e.Mode)
	if err != nil {
		return smc.Options{}, err
	}
	style, err := smc.ParseStyle(e.Style)
	if err != nil {
		return smc.Options{}, err
	}
	filter, err := smc.ParseOrderBlockFilter(e.OrderBlockFilter)
	if err != nil {
		return smc.Options{}, err
	}
	mitigation, err := smc.ParseOrderBlockMitigation(e.OrderBlockMitigation)
	if err != nil {
		return smc.Options{}, err
	}

	opts := smc.Options{
		Mode:                       mode,
		Style:                      style,
		ShowInternalStructure:      e.ShowInternalStructure,
		InternalSize:               e.InternalSize,
		InternalFilterConfluence:   e.InternalFilterConfluence,
		ShowSwingStructure:         e.ShowSwingStructure,
		SwingSize:                  e.SwingSize,
		ShowHighLowSwings:          e.ShowHighLowSwings,
		ShowInternalOrderBlocks:    e.ShowInternalOrderBlocks,
		InternalOrderBlocksSize:    e.InternalOrderBlocksSize,
		ShowSwingOrderBlocks:       e.ShowSwingOrderBlocks,
		SwingOrderBlocksSize:       e.SwingOrderBlocksSize,
		OrderBlockFilter:           filter,
		OrderBlockMitigation:       mitigation,
		ShowEqualHighsLows:         e.ShowEqualHighsLows,
		EqualHighsLowsLength:       e.EqualHighsLowsLength,
		EqualHighsLowsThreshold:    e.EqualHighsLowsThreshold,
		ShowFairValueGaps:          e.ShowFairValueGaps,
		FairValueGapsAutoThreshold: e.FairValueGapsAutoThreshold,
		FairValueGapsExtend:        e.FairValueGapsExtend,
		ShowPremiumDiscountZones:   e.ShowPremiumDiscountZones,
	}
	if err := opts.Validate(); err != nil {
		return smc.Options{}, err
	}
	return opts, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	ds := c.DataSource
	if !sources[ds.Source] {
		return fmt.Errorf("data_source.source %q is not supported", ds.Source)
	}
	if ds.Source == "vstrader" && ds.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required for vstrader")
	}
	for _, s := range ds.Symbols {
		if s == "" {
			return fmt.Errorf("data_source.symbols must not contain empty entries")
		}
	}
	if ds.BarLimit < 0 {
		return fmt.Errorf("data_source.bar_limit must not be negative")
	}
	if c.Scan.Concurrency < 0 {
		return fmt.Errorf("scan.concurrency must not be negative")
	}
	if c.Scan.RequestsPerSecond < 0 {
		return fmt.Errorf("scan.requests_per_second must not be negative")
	}
	if _, err := c.EngineOptions(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}
