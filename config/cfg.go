package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"trexport/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	TestRailConfig struct {
		URL               string        `yaml:"url" validate:"required,url"`
		SessionToken      SecretString  `yaml:"session_token"`
		Username          string        `yaml:"username"`
		APIKey            SecretString  `yaml:"api_key" validate:"required_with=Username"`
		Timeout           time.Duration `yaml:"timeout" validate:"gte=0"`
		RequestsPerMinute int           `yaml:"requests_per_minute" validate:"gte=0"`
	}

	FontsConfig struct {
		Body    string `yaml:"body" validate:"required"`
		Heading string `yaml:"heading" validate:"required"`
	}

	CacheConfig struct {
		Directory string `yaml:"directory" sanitize:"path_clean" validate:"required"`
		Reuse     bool   `yaml:"reuse"`
	}

	ImagesConfig struct {
		Downscale   bool `yaml:"downscale"`
		JPEGQuality int  `yaml:"jpeg_quality" validate:"min=40,max=100"`
	}

	ExportConfig struct {
		Mode                  common.ExportMode `yaml:"mode" validate:"gte=0"`
		MaxImageWidth         int               `yaml:"max_image_width" validate:"min=1"`
		Concurrency           int               `yaml:"concurrency" validate:"min=1,max=64"`
		OutputNameTemplate    string            `yaml:"output_name_template"`
		FileNameTransliterate bool              `yaml:"file_name_transliterate"`
		FixZip                bool              `yaml:"fix_zip"`
		Fonts                 FontsConfig       `yaml:"fonts"`
		Cache                 CacheConfig       `yaml:"cache"`
		Images                ImagesConfig      `yaml:"images"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		TestRail  TestRailConfig `yaml:"testrail"`
		Export    ExportConfig   `yaml:"export"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// decode superimposes data on top of cfg. Unknown keys are errors, so typos
// in configuration file do not go unnoticed.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func check(cfg *Config) error {
	if err := gencfg.Sanitize(cfg); err != nil {
		return fmt.Errorf("unable to sanitize configuration: %w", err)
	}
	if err := gencfg.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadConfiguration expands embedded template to get defaults and overlays
// file at path (if any) on top of them. Result is sanitized and validated.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	defaults, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to expand configuration template: %w", err)
	}
	cfg := &Config{}
	if err := decode(defaults, cfg); err != nil {
		return nil, fmt.Errorf("unable to decode default configuration: %w", err)
	}

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read configuration file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to decode configuration file %s: %w", path, err)
		}
	}
	if err := check(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Prepare returns default configuration as YAML.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

// Dump returns YAML of actual configuration, secrets are masked.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal configuration: %w", err)
	}
	return data, nil
}

// Authenticated reports if any credentials were configured.
func (c *TestRailConfig) Authenticated() bool {
	return len(c.SessionToken) > 0 || (len(c.Username) > 0 && len(c.APIKey) > 0)
}
