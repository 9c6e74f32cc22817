package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings holds the user-tunable parameters of the CLI.
// Precedence: defaults < YAML file < environment (CONTACTBOOK_*) < flags.
type Settings struct {
	Language   string `yaml:"language" env:"LANG"`
	BatchSize  int    `yaml:"batch_size" env:"BATCH_SIZE"`
	Policy     string `yaml:"policy" env:"POLICY"`     // "strict" | "lenient"
	Port       string `yaml:"port" env:"PORT"`         // Local server port
	Reminder   string `yaml:"reminder" env:"REMINDER"` // ISO8601 duration, e.g. "-P1D"
	SourceURL  string `yaml:"source_url" env:"SOURCE_URL"`
	SourceUser string `yaml:"source_user" env:"SOURCE_USER"`
}

// DefaultSettings returns Settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Language:  DefaultLanguage,
		BatchSize: DefaultBatchSize,
		Policy:    DefaultPolicy,
		Port:      DefaultPort,
		Reminder:  DefaultReminder,
	}
}

// LoadSettings reads the YAML file at path (a missing file is not an error),
// then applies .env and environment overrides.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug(MsgSettingsNone,
				LogKeyComponent, CompSettings,
				LogKeyFile, path)
		case err != nil:
			return s, fmt.Errorf("%s: %w", ErrSettingsRead, err)
		default:
			if s, err = DecodeSettings(bytes.NewReader(data)); err != nil {
				return s, err
			}
		}
	}

	// The .env file is optional.
	_ = godotenv.Load()

	if err := env.ParseWithOptions(&s, env.Options{Prefix: EnvPrefix}); err != nil {
		return s, fmt.Errorf("%s: %w", ErrSettingsEnv, err)
	}
	return s, nil
}

// DecodeSettings parses YAML settings on top of the defaults.
// Keys absent from the document keep their default value.
func DecodeSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return DefaultSettings(), fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	return s, nil
}

// Validate reports the first invalid setting.
func (s Settings) Validate() error {
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	if s.BatchSize < MinBatchSize {
		return errors.New(ErrMsgBatchSize)
	}
	if s.Policy != PolicyNameStrict && s.Policy != PolicyNameLenient {
		return fmt.Errorf("%s: %q", ErrMsgPolicy, s.Policy)
	}
	return ValidatePort(s.Port)
}

// ValidatePort checks that port is a number within the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}
