package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Data     DataConfig     `mapstructure:"data"`
	Years    YearsConfig    `mapstructure:"years"`
	Output   OutputConfig   `mapstructure:"output"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	Industry IndustryConfig `mapstructure:"industry"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type DataConfig struct {
	Dir         string   `mapstructure:"dir" validate:"required"`
	FilePattern string   `mapstructure:"file_pattern" validate:"required,contains=%d"`
	Encodings   []string `mapstructure:"encodings" validate:"min=1,dive,oneof=utf-8 iso-8859-1 latin1 cp1252 windows-1252"`
}

type YearsConfig struct {
	First domain.Year `mapstructure:"first" validate:"gte=2016"`
	Last  domain.Year `mapstructure:"last" validate:"gtefield=First"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

type ProfilesConfig struct {
	MinYearsPresent int `mapstructure:"min_years_present" validate:"gte=0"`
}

type IndustryConfig struct {
	MinEmployees int64 `mapstructure:"min_employees" validate:"gte=0"`
}

type PipelineConfig struct {
	Workers int `mapstructure:"workers" validate:"gte=1"`
}

type HTTPConfig struct {
	Addr         string   `mapstructure:"addr" validate:"required"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type FetchConfig struct {
	PageURL string `mapstructure:"page_url" validate:"omitempty,url"`
	Retries uint64 `mapstructure:"retries"`
}

// TrackedYears returns the inclusive year range as an ordered slice.
func (c *Config) TrackedYears() []domain.Year {
	return domain.YearRange(c.Years.First, c.Years.Last)
}

// SourcePath is the raw ITA file for one year.
func (c *Config) SourcePath(year domain.Year) string {
	return filepath.Join(c.Data.Dir, fmt.Sprintf(c.Data.FilePattern, year))
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperLogLevel, "info")
	v.SetDefault(constants.ViperDataDir, "data/injury data")
	v.SetDefault(constants.ViperDataFilePattern, "ITA Data CY %d.csv")
	v.SetDefault(constants.ViperDataEncodings, []string{"utf-8", "iso-8859-1", "cp1252"})
	v.SetDefault(constants.ViperYearsFirst, 2016)
	v.SetDefault(constants.ViperYearsLast, 2023)
	v.SetDefault(constants.ViperOutputDir, "data")
	v.SetDefault(constants.ViperProfilesMinYearsPresent, 6)
	v.SetDefault(constants.ViperIndustryMinEmployees, 50000)
	v.SetDefault(constants.ViperPipelineWorkers, 4)
	v.SetDefault(constants.ViperHTTPAddr, ":8080")
	v.SetDefault(constants.ViperHTTPAllowOrigins, []string{"http://localhost:3000"})
	v.SetDefault(constants.ViperFetchPageURL, "https://www.osha.gov/Establishment-Specific-Injury-and-Illness-Data")
	v.SetDefault(constants.ViperFetchRetries, 5)
}

// Load reads defaults, the optional config file and INJURIES_* environment overrides.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("viper.ReadInConfig: %w", err)
			}
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
