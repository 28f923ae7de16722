// Package config loads the YAML configuration shared by the gaddag commands.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/milden6/gaddag"
)

// Config is the root of the configuration file.
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// DictionaryConfig controls how word lists are read and indexed.
type DictionaryConfig struct {
	Alphabet      string `yaml:"alphabet" validate:"alphabet"`
	MaxWordLength int    `yaml:"max_word_length" validate:"min=1"`
	Uppercase     bool   `yaml:"uppercase"`
	// OnInvalid is "abort" or "skip".
	OnInvalid string `yaml:"on_invalid" validate:"oneof=abort skip"`
	Workers   int    `yaml:"workers" validate:"gte=0"`
}

// ServerConfig controls the HTTP query server.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	MaxResults      int           `yaml:"max_results" validate:"min=1"`
	Reload          bool          `yaml:"reload"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"loglevel"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Dictionary: DictionaryConfig{
			Alphabet:      gaddag.Uppercase.Letters(),
			MaxWordLength: gaddag.DefaultMaxWordLength,
			Uppercase:     true,
			OnInvalid:     "abort",
			Workers:       4,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxResults:      1000,
			Reload:          true,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// validate checks the struct tags of Config. "alphabet" and "loglevel" are
// registered in init.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("alphabet", func(fl validator.FieldLevel) bool {
		_, err := gaddag.NewAlphabet(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := parseLevel(fl.Field().String())
		return err == nil
	})
	validate.RegisterStructValidation(validateDictionary, DictionaryConfig{})
}

// validateDictionary rejects uppercasing words for an alphabet with lowercase
// letters, which would turn every such word invalid.
func validateDictionary(sl validator.StructLevel) {
	d := sl.Current().Interface().(DictionaryConfig)
	if d.Uppercase && strings.ContainsFunc(d.Alphabet, unicode.IsLower) {
		sl.ReportError(d.Uppercase, "Uppercase", "uppercase", "no_lowercase_alphabet", "")
	}
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// BuildOptions turns the dictionary section into gaddag build options.
func (c DictionaryConfig) BuildOptions(logger *slog.Logger) ([]gaddag.Option, error) {
	alphabet, err := gaddag.NewAlphabet(c.Alphabet)
	if err != nil {
		return nil, err
	}
	return []gaddag.Option{
		gaddag.WithAlphabet(alphabet),
		gaddag.WithMaxWordLength(c.MaxWordLength),
		gaddag.WithWorkers(c.Workers),
		gaddag.WithLogger(logger),
	}, nil
}

// NewLogger creates a slog logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
