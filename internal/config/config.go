// Package config loads routedoc settings from files, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"github.com/vitalvas/routedoc/openapi"
)

// EnvPrefix prefixes every environment override, e.g. ROUTEDOC_SERVER_LISTEN.
const EnvPrefix = "ROUTEDOC"

// Config represents the routedoc configuration.
type Config struct {
	// Output is the file the generate command writes; "-" means stdout.
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// Format is the serialization format (json, yaml).
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// Include keeps only routes whose path matches one of the globs.
	Include []string `mapstructure:"include" yaml:"include,omitempty" json:"include,omitempty"`

	// Exclude drops routes whose path matches one of the globs.
	Exclude []string `mapstructure:"exclude" yaml:"exclude,omitempty" json:"exclude,omitempty"`

	OpenAPI OpenAPIConfig `mapstructure:"openapi" yaml:"openapi" json:"openapi"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server" json:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
}

// OpenAPIConfig contains document level metadata.
type OpenAPIConfig struct {
	Info    InfoConfig    `mapstructure:"info" yaml:"info" json:"info"`
	Servers []ServerEntry `mapstructure:"servers" yaml:"servers,omitempty" json:"servers,omitempty"`
	Tags    []TagConfig   `mapstructure:"tags" yaml:"tags,omitempty" json:"tags,omitempty"`
}

// InfoConfig contains API info metadata.
type InfoConfig struct {
	Title       string `mapstructure:"title" yaml:"title" json:"title"`
	Description string `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `mapstructure:"version" yaml:"version" json:"version"`

	Contact *ContactConfig `mapstructure:"contact" yaml:"contact,omitempty" json:"contact,omitempty"`
	License *LicenseConfig `mapstructure:"license" yaml:"license,omitempty" json:"license,omitempty"`
}

// ContactConfig contains contact information.
type ContactConfig struct {
	Name  string `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`
	Email string `mapstructure:"email" yaml:"email,omitempty" json:"email,omitempty"`
	URL   string `mapstructure:"url" yaml:"url,omitempty" json:"url,omitempty"`
}

// LicenseConfig contains license information.
type LicenseConfig struct {
	Name string `mapstructure:"name" yaml:"name" json:"name"`
	URL  string `mapstructure:"url" yaml:"url,omitempty" json:"url,omitempty"`
}

// ServerEntry is one entry of the document's servers list.
type ServerEntry struct {
	URL         string `mapstructure:"url" yaml:"url" json:"url"`
	Description string `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
}

// TagConfig describes a tag shown in the document.
type TagConfig struct {
	Name        string `mapstructure:"name" yaml:"name" json:"name"`
	Description string `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
}

// ServerConfig controls the serve command.
type ServerConfig struct {
	Listen      string `mapstructure:"listen" yaml:"listen" json:"listen"`
	DocsPath    string `mapstructure:"docsPath" yaml:"docsPath" json:"docsPath"`
	MetricsPath string `mapstructure:"metricsPath" yaml:"metricsPath" json:"metricsPath"`
	UI          string `mapstructure:"ui" yaml:"ui" json:"ui"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// configFileNames is searched in order when no explicit path is given.
var configFileNames = []string{
	"routedoc.yaml",
	"routedoc.yml",
	"routedoc.json",
	".routedoc.yaml",
	".routedoc.json",
}

var (
	supportedFormats    = []string{"json", "yaml"}
	supportedLogLevels  = []string{"debug", "info", "warn", "error"}
	supportedLogFormats = []string{"text", "json"}
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return "no validation errors"
	case 1:
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Output: "-",
		Format: "json",
		OpenAPI: OpenAPIConfig{
			Info: InfoConfig{
				Title:   "API",
				Version: "1.0.0",
			},
		},
		Server: ServerConfig{
			Listen:      ":8080",
			DocsPath:    "/docs",
			MetricsPath: "/metrics",
			UI:          "swagger",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("output", def.Output)
	v.SetDefault("format", def.Format)
	v.SetDefault("openapi.info.title", def.OpenAPI.Info.Title)
	v.SetDefault("openapi.info.version", def.OpenAPI.Info.Version)
	v.SetDefault("server.listen", def.Server.Listen)
	v.SetDefault("server.docsPath", def.Server.DocsPath)
	v.SetDefault("server.metricsPath", def.Server.MetricsPath)
	v.SetDefault("server.ui", def.Server.UI)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
}

// New returns a viper instance with defaults and environment overrides set
// up. When configPath is empty the working directory is searched for one of
// the known config file names; finding none is not an error.
func New(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = FindConfigFile(".")
	}
	if configPath == "" {
		return v, nil
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return v, nil
}

// Load reads the configuration from configPath, or from the first known
// config file in the working directory.
func Load(configPath string) (*Config, error) {
	v, err := New(configPath)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode unmarshals the current state of v into a Config.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// FindConfigFile returns the first known config file inside dir, or "".
func FindConfigFile(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if !slices.Contains(supportedFormats, c.Format) {
		errs = append(errs, ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Format, strings.Join(supportedFormats, ", ")),
		})
	}

	if c.OpenAPI.Info.Title == "" {
		errs = append(errs, ValidationError{Field: "openapi.info.title", Message: "title is required"})
	}

	if c.OpenAPI.Info.Version == "" {
		errs = append(errs, ValidationError{Field: "openapi.info.version", Message: "version is required"})
	}

	for i, server := range c.OpenAPI.Servers {
		if server.URL == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("openapi.servers[%d].url", i),
				Message: "url is required",
			})
		}
	}

	for i, tag := range c.OpenAPI.Tags {
		if tag.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("openapi.tags[%d].name", i),
				Message: "name is required",
			})
		}
	}

	for field, patterns := range map[string][]string{"include": c.Include, "exclude": c.Exclude} {
		for _, pattern := range patterns {
			if !doublestar.ValidatePattern(pattern) {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("invalid glob pattern %q", pattern),
				})
			}
		}
	}

	if _, err := openapi.ParseDocsUI(c.Server.UI); err != nil {
		errs = append(errs, ValidationError{Field: "server.ui", Message: err.Error()})
	}

	if !slices.Contains(supportedLogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unsupported level %q, must be one of: %s", c.Log.Level, strings.Join(supportedLogLevels, ", ")),
		})
	}

	if !slices.Contains(supportedLogFormats, c.Log.Format) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Log.Format, strings.Join(supportedLogFormats, ", ")),
		})
	}

	if len(errs) > 0 {
		// map iteration above is unordered
		slices.SortStableFunc(errs, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })
		return errs
	}

	return nil
}

// ErrUnknownLogLevel is returned by SlogLevel for names outside debug..error.
var ErrUnknownLogLevel = errors.New("config: unknown log level")

// SlogLevel converts the configured level name.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.Level)
	}
	return level, nil
}

// ToInfo converts the configured metadata into an OpenAPI info object.
func (c OpenAPIConfig) ToInfo() openapi.Info {
	info := openapi.Info{
		Title:       c.Info.Title,
		Description: c.Info.Description,
		Version:     c.Info.Version,
	}
	if contact := c.Info.Contact; contact != nil {
		info.Contact = &openapi.Contact{Name: contact.Name, Email: contact.Email, URL: contact.URL}
	}
	if license := c.Info.License; license != nil {
		info.License = &openapi.License{Name: license.Name, URL: license.URL}
	}
	return info
}

// ToServers converts the configured servers.
func (c OpenAPIConfig) ToServers() []openapi.Server {
	servers := make([]openapi.Server, 0, len(c.Servers))
	for _, s := range c.Servers {
		servers = append(servers, openapi.Server{URL: s.URL, Description: s.Description})
	}
	return servers
}

// ToTags converts the configured tags.
func (c OpenAPIConfig) ToTags() []openapi.Tag {
	tags := make([]openapi.Tag, 0, len(c.Tags))
	for _, t := range c.Tags {
		tags = append(tags, openapi.Tag{Name: t.Name, Description: t.Description})
	}
	return tags
}

// ApplyMetadata replaces the info, servers and tags of spec. It is safe to
// call again on a live spec after the config changes.
func (c *Config) ApplyMetadata(spec *openapi.Spec) {
	spec.SetInfo(c.OpenAPI.ToInfo())
	spec.SetServers(c.OpenAPI.ToServers()...)
	spec.SetTags(c.OpenAPI.ToTags()...)
}

// Apply copies the document metadata and the route filters onto a fresh
// spec. Filters accumulate, so Apply runs once per spec.
func (c *Config) Apply(spec *openapi.Spec) {
	c.ApplyMetadata(spec)
	spec.Include(c.Include...)
	spec.Exclude(c.Exclude...)
}
