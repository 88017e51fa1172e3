package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"dayahead/logging"
	"dayahead/types"
)

const dateLayout = "2006-01-02"

type AppConfig struct {
	// Security token for the ENTSO-E Transparency Platform API
	ApiToken string `mapstructure:"api_token" validate:"required"`
	// Bidding zone country code, e.g. "CY", "DE", "FR"
	CountryCode string `mapstructure:"country_code" validate:"required"`
	// First and last civil date of the requested range (inclusive), ISO dates
	StartDate string `mapstructure:"start_date" validate:"required"`
	EndDate   string `mapstructure:"end_date" validate:"required"`
	// Convert prices from EUR/MWh to EUR/kWh before export
	NormalizeToKwh bool `mapstructure:"normalize_to_kwh"`
	// "csv" or "parquet"
	ExportFormat string `mapstructure:"export_format" validate:"oneof=csv parquet"`
	// IANA timezone name the series is reported in
	Timezone  string `mapstructure:"timezone" validate:"required"`
	MakePlots bool   `mapstructure:"make_plots"`
	// Directory the price file, metadata and plots are written to
	OutputDir string `mapstructure:"output_dir" validate:"required"`
	// Path to an optional SQLite run journal, empty disables it
	JournalPath string `mapstructure:"journal_path"`
	// Min console log level: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	LogLevel *string `mapstructure:"log_level"`
}

func (c *AppConfig) GetLogLevel() slog.Level {
	return logging.LevelFromString(c.LogLevel)
}

// Start returns the first requested date at midnight UTC. The normalizer
// reinterprets it in the target timezone.
func (c *AppConfig) Start() time.Time {
	t, _ := time.Parse(dateLayout, c.StartDate)
	return t
}

func (c *AppConfig) End() time.Time {
	t, _ := time.Parse(dateLayout, c.EndDate)
	return t
}

// option names as they appear in the config file, keyed by struct field
var optionNames = map[string]string{
	"ApiToken":       "api_token",
	"CountryCode":    "country_code",
	"StartDate":      "start_date",
	"EndDate":        "end_date",
	"NormalizeToKwh": "normalize_to_kwh",
	"ExportFormat":   "export_format",
	"Timezone":       "timezone",
	"MakePlots":      "make_plots",
	"OutputDir":      "output_dir",
	"JournalPath":    "journal_path",
	"LogLevel":       "log_level",
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("json")
	}
	v.SetDefault("normalize_to_kwh", false)
	v.SetDefault("export_format", "csv")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("make_plots", false)
	v.SetDefault("output_dir", "data")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := v.ReadInConfig(); err != nil {
		return nil, &types.ConfigError{Reason: fmt.Sprintf("unable to read config file: %v", err)}
	}

	if err := v.Unmarshal(&c); err != nil {
		return nil, &types.ConfigError{Reason: fmt.Sprintf("unable to unmarshal config file: %v", err)}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *AppConfig) validate() error {
	if err := validator.New().Struct(c); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok || len(errs) == 0 {
			return &types.ConfigError{Reason: err.Error()}
		}
		fe := errs[0]
		option := optionNames[fe.StructField()]
		switch fe.Tag() {
		case "required":
			return &types.ConfigError{Option: option, Reason: "missing required option"}
		case "oneof":
			return &types.ConfigError{Option: option, Reason: fmt.Sprintf("must be one of: %s", fe.Param())}
		default:
			return &types.ConfigError{Option: option, Reason: fmt.Sprintf("failed %q validation", fe.Tag())}
		}
	}

	start, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return &types.ConfigError{Option: "start_date", Reason: "not an ISO date (YYYY-MM-DD)"}
	}
	end, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return &types.ConfigError{Option: "end_date", Reason: "not an ISO date (YYYY-MM-DD)"}
	}
	if end.Before(start) {
		return &types.ConfigError{Option: "end_date", Reason: "end_date is before start_date"}
	}

	return nil
}
