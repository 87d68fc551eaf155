package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"shoppulse/internal/errors"
)

// Quality penalty signal names. The scoring table in PipelineConfig maps
// each of these to a deduction applied by the cleaner.
const (
	SignalMissingBrand       = "missing_brand"
	SignalMissingDescription = "missing_description"
	SignalNoFeatures         = "no_features"
	SignalShortName          = "short_name"
	SignalPriceExtreme       = "price_extreme"
)

// Outlier detection rules supported by the analyzer.
const (
	OutlierRuleIQR    = "iqr"
	OutlierRuleZScore = "zscore"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
}

// PipelineConfig controls validation, cleaning and deduplication.
type PipelineConfig struct {
	// PriceMax is the inclusive upper bound for accepted prices.
	PriceMax float64 `yaml:"price_max" envconfig:"PRICE_MAX" validate:"gt=0"`

	// AllowedCategories is the canonical category set. Incoming categories
	// are matched case-insensitively and normalized to these spellings.
	AllowedCategories []string `yaml:"allowed_categories" envconfig:"ALLOWED_CATEGORIES" validate:"min=1"`

	// NameMinLength rejects records whose product name is shorter.
	NameMinLength int `yaml:"name_min_length" envconfig:"NAME_MIN_LENGTH" validate:"min=1"`

	// ShortNameLength is the quality-scoring threshold: names shorter than
	// this are penalized but not rejected.
	ShortNameLength int `yaml:"short_name_length" envconfig:"SHORT_NAME_LENGTH" validate:"min=1"`

	// BrandAliases maps a canonical brand to the name tokens that imply it,
	// e.g. Apple -> [apple, iphone, macbook, ipad].
	BrandAliases map[string][]string `yaml:"brand_aliases"`

	// QualityPenalties maps a signal name to the score deduction it causes.
	QualityPenalties map[string]float64 `yaml:"quality_penalties"`

	// ExtremePricePercentile flags prices at or beyond this percentile from
	// either end of the batch for a quality deduction (0.05 means the
	// bottom and top 5%).
	ExtremePricePercentile float64 `yaml:"extreme_price_percentile" envconfig:"EXTREME_PRICE_PERCENTILE" validate:"gt=0,lt=0.5"`

	// DedupPricePrecision is the number of decimals prices are rounded to
	// when forming the deduplication identity key.
	DedupPricePrecision int `yaml:"dedup_price_precision" envconfig:"DEDUP_PRICE_PRECISION" validate:"min=0,max=6"`
}

// AnalysisConfig controls the statistical analyzer.
type AnalysisConfig struct {
	// OutlierRule selects the outlier detection method: iqr or zscore.
	OutlierRule string `yaml:"outlier_rule" envconfig:"OUTLIER_RULE" validate:"oneof=iqr zscore"`

	// OutlierMultiplier scales the rule: IQR fences at mult*IQR beyond the
	// quartiles, or z-score threshold when the rule is zscore.
	OutlierMultiplier float64 `yaml:"outlier_multiplier" envconfig:"OUTLIER_MULTIPLIER" validate:"gt=0"`

	// SegmentCutpoints are ascending percentiles in (0,1) splitting prices
	// into segments (budget / mid_range / premium with the default two).
	SegmentCutpoints []float64 `yaml:"segment_cutpoints" envconfig:"SEGMENT_CUTPOINTS" validate:"min=1"`

	// HistogramBuckets is the number of equal-width price histogram buckets.
	HistogramBuckets int `yaml:"histogram_buckets" envconfig:"HISTOGRAM_BUCKETS" validate:"min=1"`

	// DominanceShare is the market-share percentage above which a brand is
	// reported as dominating in generated insights.
	DominanceShare float64 `yaml:"dominance_share" envconfig:"DOMINANCE_SHARE" validate:"gt=0,lte=100"`

	// StrongCorrelation is the absolute coefficient above which a pair is
	// reported as strongly correlated.
	StrongCorrelation float64 `yaml:"strong_correlation" envconfig:"STRONG_CORRELATION" validate:"gt=0,lt=1"`

	// TrendSlopeEpsilon is the relative daily slope below which a price
	// trend is reported as stable rather than increasing or decreasing.
	TrendSlopeEpsilon float64 `yaml:"trend_slope_epsilon" envconfig:"TREND_SLOPE_EPSILON" validate:"gt=0"`
}

// ServerConfig contains HTTP server configuration for the report server.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ExportConfig controls the export adapter.
type ExportConfig struct {
	// OutputDir is the directory exported artifacts are written to.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	// Formats lists the formats produced by default: json, csv, excel.
	Formats []string `yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,oneof=json csv excel"`

	// CSVBOMPrefix adds a UTF-8 BOM so Excel opens CSV exports correctly.
	CSVBOMPrefix bool `yaml:"csv_bom_prefix" envconfig:"CSV_BOM_PREFIX"`
}

// Default returns the configuration the pipeline ships with. The penalty
// weights and alias table mirror the documented defaults; see README.
func Default() Config {
	return Config{
		Pipeline: PipelineConfig{
			PriceMax:          50000,
			AllowedCategories: []string{"phones", "laptops", "fridges", "tvs"},
			NameMinLength:     3,
			ShortNameLength:   10,
			BrandAliases: map[string][]string{
				"Apple":   {"apple", "iphone", "macbook", "ipad", "imac"},
				"Samsung": {"samsung", "galaxy"},
				"Xiaomi":  {"xiaomi", "redmi", "poco"},
				"Lenovo":  {"lenovo", "thinkpad", "ideapad"},
				"HP":      {"hp", "pavilion", "envy"},
				"Dell":    {"dell", "inspiron", "latitude", "xps"},
				"Asus":    {"asus", "zenbook", "vivobook", "rog"},
				"Acer":    {"acer", "aspire", "predator"},
				"LG":      {"lg"},
				"Sony":    {"sony", "bravia"},
				"Bosch":   {"bosch"},
				"TCL":     {"tcl"},
			},
			QualityPenalties: map[string]float64{
				SignalMissingBrand:       15,
				SignalMissingDescription: 20,
				SignalNoFeatures:         10,
				SignalShortName:          15,
				SignalPriceExtreme:       10,
			},
			ExtremePricePercentile: 0.05,
			DedupPricePrecision:    2,
		},
		Analysis: AnalysisConfig{
			OutlierRule:       OutlierRuleIQR,
			OutlierMultiplier: 1.5,
			SegmentCutpoints:  []float64{0.33, 0.67},
			HistogramBuckets:  10,
			DominanceShare:    60,
			StrongCorrelation: 0.7,
			TrendSlopeEpsilon: 0.001,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/shoppulse.log",
		},
		Export: ExportConfig{
			OutputDir:    "data/processed",
			Formats:      []string{"json", "csv", "excel"},
			CSVBOMPrefix: true,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// SHOPPULSE_* environment variables, in increasing precedence.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = os.Getenv("SHOPPULSE_CONFIG")
	}
	if configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("SHOPPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Validate checks the configuration, failing fast before any record is
// processed. All failures are reported as ConfigurationError.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.NewConfigurationError(err.Error())
	}

	for _, cat := range c.Pipeline.AllowedCategories {
		if cat == "" {
			return errors.NewConfigurationError("allowed_categories contains an empty entry")
		}
	}

	for signal, penalty := range c.Pipeline.QualityPenalties {
		if penalty < 0 {
			return errors.NewConfigurationError(
				fmt.Sprintf("quality penalty for %q must be non-negative, got %v", signal, penalty))
		}
	}

	prev := 0.0
	for _, p := range c.Analysis.SegmentCutpoints {
		if p <= 0 || p >= 1 {
			return errors.NewConfigurationError(
				fmt.Sprintf("segment cutpoint %v outside (0,1)", p))
		}
		if p <= prev {
			return errors.NewConfigurationError("segment cutpoints must be strictly ascending")
		}
		prev = p
	}

	return nil
}
