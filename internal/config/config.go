// Package config loads comboform settings from YAML or JSON-with-comments
// files and applies defaults.
package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-comboform/components/optsearch"
	"github.com/goliatone/go-comboform/pkg/form"
	"github.com/goliatone/go-comboform/pkg/options"
	"github.com/goliatone/go-comboform/pkg/schema"
	"github.com/goliatone/go-comboform/pkg/session"
)

const (
	ModeAuto   = "auto"
	ModeTUI    = "tui"
	ModePrompt = "prompt"
	ModeWeb    = "web"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// ThemeConfig picks the web theme.
type ThemeConfig struct {
	Name    string `yaml:"name" json:"name"`
	Variant string `yaml:"variant" json:"variant"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // text, json; empty detects the terminal
}

// Config is the complete settings file.
type Config struct {
	Mode           string      `yaml:"mode" json:"mode"`
	Addr           string      `yaml:"addr" json:"addr"`
	Output         string      `yaml:"output" json:"output"`
	SeedOptions    []string    `yaml:"seed_options" json:"seed_options"`
	SeedFile       string      `yaml:"seed_file" json:"seed_file"`
	NewOptionLabel string      `yaml:"new_option_label" json:"new_option_label"`
	RefreshIndex   *int        `yaml:"refresh_index" json:"refresh_index"`
	ValidationMode string      `yaml:"validation_mode" json:"validation_mode"`
	NoColor        bool        `yaml:"no_color" json:"no_color"`
	Schema         string      `yaml:"schema" json:"schema"`
	Operation      string      `yaml:"operation" json:"operation"`
	Theme          ThemeConfig `yaml:"theme" json:"theme"`
	Log            LogConfig   `yaml:"log" json:"log"`

	// Form is the parsed Schema document, filled by LoadSchema.
	Form *schema.Form `yaml:"-" json:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	index := session.DefaultRefreshIndex
	return Config{
		Mode:           ModeAuto,
		Addr:           "127.0.0.1:8080",
		Output:         "json",
		SeedOptions:    options.DefaultSeed(),
		NewOptionLabel: "New option",
		RefreshIndex:   &index,
		ValidationMode: string(form.ValidateOnSubmit),
		Log:            LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Decode(&cfg, raw, filepath.Ext(path)); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.SeedFile != "" {
		if err := cfg.loadSeedFile(filepath.Dir(path)); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.LoadSchema(context.Background(), filepath.Dir(path)); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode merges raw into cfg. ext selects the syntax: .yaml/.yml, or
// .json/.jsonc which may carry comments and trailing commas.
func Decode(cfg *Config, raw []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(raw)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config extension %q", ext)
	}
	return nil
}

func (c *Config) loadSeedFile(baseDir string) error {
	path := c.SeedFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: seed file: %w", err)
	}
	defer f.Close()

	items, err := optsearch.LoadItems(f)
	if err != nil {
		return fmt.Errorf("config: seed file %s: %w", path, err)
	}
	c.SeedOptions = items
	return nil
}

// LoadSchema parses the Schema document, resolved against baseDir when
// relative, into Form. An empty Schema clears Form.
func (c *Config) LoadSchema(ctx context.Context, baseDir string) error {
	if strings.TrimSpace(c.Schema) == "" {
		c.Form = nil
		return nil
	}
	path := c.Schema
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	operation := c.Operation
	if operation == "" {
		operation = schema.DefaultOperationID
	}
	form, err := schema.LoadSource(ctx, schema.SourceFromFile(path), operation)
	if err != nil {
		return fmt.Errorf("config: schema: %w", err)
	}
	c.Form = &form
	return nil
}

// Validate rejects unknown enum values and applies clamps.
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	switch c.Mode {
	case "":
		c.Mode = ModeAuto
	case ModeAuto, ModeTUI, ModePrompt, ModeWeb:
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalid, c.Mode)
	}

	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	switch c.Output {
	case "":
		c.Output = "json"
	case "json", "form", "pretty":
	default:
		return fmt.Errorf("%w: output %q", ErrInvalid, c.Output)
	}

	switch form.ValidationMode(c.ValidationMode) {
	case "":
		c.ValidationMode = string(form.ValidateOnSubmit)
	case form.ValidateOnSubmit, form.ValidateOnChange:
	default:
		return fmt.Errorf("%w: validation_mode %q", ErrInvalid, c.ValidationMode)
	}

	if c.RefreshIndex != nil && *c.RefreshIndex < 0 {
		return fmt.Errorf("%w: refresh_index %d", ErrInvalid, *c.RefreshIndex)
	}
	if strings.TrimSpace(c.NewOptionLabel) == "" {
		c.NewOptionLabel = "New option"
	}
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = "127.0.0.1:8080"
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// SessionOptions converts the settings into session options.
func (c Config) SessionOptions() []session.Option {
	opts := []session.Option{
		session.WithSeed(c.SeedOptions...),
		session.WithNewOptionLabel(c.NewOptionLabel),
		session.WithValidationMode(form.ValidationMode(c.ValidationMode)),
	}
	if c.RefreshIndex != nil {
		opts = append(opts, session.WithRefreshIndex(*c.RefreshIndex))
	}
	if c.Form != nil {
		opts = append(opts, session.WithSchema(*c.Form))
	}
	return opts
}
