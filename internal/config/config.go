// Package config loads the duration table and search settings from a YAML or
// TOML file, then applies TARDINESS_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	goerrors "github.com/TudorHulban/go-errors"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	scheduler "github.com/TudorHulban/tardiness"
)

type Config struct {
	// DurationPreset selects a table from DurationPresets.
	// Entries in Durations override the preset per category.
	DurationPreset string             `yaml:"durationPreset" toml:"durationPreset"`
	Durations      map[string]float64 `yaml:"durations" toml:"durations"`

	Input  InputConfig  `yaml:"input" toml:"input"`
	Search SearchConfig `yaml:"search" toml:"search"`
	Output OutputConfig `yaml:"output" toml:"output"`
	Cache  CacheConfig  `yaml:"cache" toml:"cache"`
}

type InputConfig struct {
	Path     string `yaml:"path" toml:"path"`
	Workflow string `yaml:"workflow" toml:"workflow"`
}

type SearchConfig struct {
	Mode          string `yaml:"mode" toml:"mode"`
	MaxIterations int    `yaml:"maxIterations" toml:"maxIterations"`
	BeamWidth     int    `yaml:"beamWidth" toml:"beamWidth"`
	Workers       int    `yaml:"workers" toml:"workers"`
}

type OutputConfig struct {
	JSONPath   string `yaml:"json" toml:"json"`
	CSVPath    string `yaml:"csv" toml:"csv"`
	ReportPath string `yaml:"report" toml:"report"`
}

// CacheConfig enables the result cache when Path is set.
type CacheConfig struct {
	Path     string `yaml:"path" toml:"path"`
	TTLHours int    `yaml:"ttlHours" toml:"ttlHours"`
}

const (
	PresetMeasured = "measured"
	PresetRounded  = "rounded"

	DefaultInputPath     = "input.json"
	DefaultWorkflow      = "workflow_0"
	DefaultJSONPath      = "output_schedule.json"
	DefaultCSVPath       = "output_schedule.csv"
	DefaultCacheTTLHours = 24 * 7
)

// DurationPresets are the processing times per task category.
var DurationPresets = map[string]map[string]float64{
	PresetMeasured: {
		"vii":    21.2065,
		"blur":   6.0243,
		"night":  24.6639,
		"onnx":   3.9967,
		"emboss": 2.1879,
		"muse":   16.6702,
		"wave":   12.6958,
	},
	PresetRounded: {
		"vii":    21,
		"blur":   6,
		"night":  25,
		"onnx":   4,
		"emboss": 2,
		"muse":   17,
		"wave":   13,
	},
}

func Default() *Config {
	return &Config{
		DurationPreset: PresetMeasured,

		Input: InputConfig{
			Path:     DefaultInputPath,
			Workflow: DefaultWorkflow,
		},
		Search: SearchConfig{
			Mode:          string(scheduler.SearchModeFull),
			MaxIterations: scheduler.DefaultMaxIterations,
			BeamWidth:     scheduler.DefaultBeamWidth,
			Workers:       scheduler.DefaultWorkers,
		},
		Output: OutputConfig{
			JSONPath: DefaultJSONPath,
			CSVPath:  DefaultCSVPath,
		},
		Cache: CacheConfig{
			TTLHours: DefaultCacheTTLHours,
		},
	}
}

// Load reads the file at path over the defaults. An empty path keeps the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	result := Default()

	if len(path) > 0 {
		data, errRead := os.ReadFile(path)
		if errRead != nil {
			return nil,
				fmt.Errorf("read config file: %w", errRead)
		}

		if errDecode := decode(path, data, result); errDecode != nil {
			return nil,
				errDecode
		}
	}

	if errEnv := result.applyEnv(); errEnv != nil {
		return nil,
			errEnv
	}

	if errValidation := result.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	return result,
		nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
			return fmt.Errorf("parse yaml config: %w", errUnmarshal)
		}

	case ".toml":
		if _, errDecode := toml.Decode(string(data), cfg); errDecode != nil {
			return fmt.Errorf("parse toml config: %w", errDecode)
		}

	default:
		return goerrors.ErrInvalidInput{
			Caller:     "Load",
			InputName:  "path",
			InputValue: path,
			Issue: fmt.Errorf(
				"unsupported config extension %q",

				filepath.Ext(path),
			),
		}
	}

	return nil
}

func (cfg *Config) applyEnv() error {
	cfg.Input.Path = getEnv("TARDINESS_INPUT", cfg.Input.Path)
	cfg.Input.Workflow = getEnv("TARDINESS_WORKFLOW", cfg.Input.Workflow)
	cfg.DurationPreset = getEnv("TARDINESS_DURATION_PRESET", cfg.DurationPreset)
	cfg.Search.Mode = getEnv("TARDINESS_SEARCH_MODE", cfg.Search.Mode)
	cfg.Cache.Path = getEnv("TARDINESS_CACHE_PATH", cfg.Cache.Path)

	for _, override := range []struct {
		key   string
		value *int
	}{
		{"TARDINESS_MAX_ITERATIONS", &cfg.Search.MaxIterations},
		{"TARDINESS_BEAM_WIDTH", &cfg.Search.BeamWidth},
		{"TARDINESS_WORKERS", &cfg.Search.Workers},
		{"TARDINESS_CACHE_TTL_HOURS", &cfg.Cache.TTLHours},
	} {
		value, errEnv := getEnvInt(override.key, *override.value)
		if errEnv != nil {
			return errEnv
		}

		*override.value = value
	}

	return nil
}

func (cfg *Config) IsValid() error {
	if _, known := DurationPresets[cfg.DurationPreset]; !known && len(cfg.DurationPreset) > 0 {
		return goerrors.ErrValidation{
			Caller: "IsValid - Config",
			Issue: goerrors.ErrInvalidInput{
				InputName:  "DurationPreset",
				InputValue: cfg.DurationPreset,
			},
		}
	}

	if _, errMode := scheduler.ParseSearchMode(cfg.Search.Mode); errMode != nil {
		return goerrors.ErrValidation{
			Caller: "IsValid - Config",
			Issue:  errMode,
		}
	}

	if len(cfg.Input.Workflow) == 0 {
		return goerrors.ErrValidation{
			Caller: "IsValid - Config",
			Issue: goerrors.ErrNilInput{
				InputName: "Input.Workflow",
			},
		}
	}

	for category, duration := range cfg.Durations {
		if duration < 0 {
			return goerrors.ErrValidation{
				Caller: "IsValid - Config",
				Issue: goerrors.ErrNegativeInput{
					InputName: "Durations." + category,
				},
			}
		}
	}

	return nil
}

// DurationTable merges the selected preset with the explicit durations.
func (cfg *Config) DurationTable() map[string]float64 {
	result := make(map[string]float64)

	for category, duration := range DurationPresets[cfg.DurationPreset] {
		result[category] = duration
	}

	for category, duration := range cfg.Durations {
		result[category] = duration
	}

	return result
}

func (cfg *Config) SearchParams(logger *log.Logger) (*scheduler.ParamsSearch, error) {
	mode, errMode := scheduler.ParseSearchMode(cfg.Search.Mode)
	if errMode != nil {
		return nil,
			errMode
	}

	return &scheduler.ParamsSearch{
			Logger: logger,

			Mode:          mode,
			MaxIterations: cfg.Search.MaxIterations,
			BeamWidth:     cfg.Search.BeamWidth,
			Workers:       cfg.Search.Workers,
		},
		nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue,
			nil
	}

	result, errConv := strconv.Atoi(value)
	if errConv != nil {
		return 0,
			goerrors.ErrInvalidInput{
				Caller:     "Load",
				InputName:  key,
				InputValue: value,
				Issue:      errConv,
			}
	}

	return result,
		nil
}
