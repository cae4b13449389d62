package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/projeto-canaa/cadastro/pkg/blob"
	"github.com/projeto-canaa/cadastro/pkg/model"
)

const (
	DefaultConfigPath  = "/etc/cadastro"
	ConfigFileName     = "cadastro.yml"
	TOMLConfigFileName = "cadastro.toml"

	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// Config holds the service settings that can change without a rebuild.
type Config struct {
	// ProtocolPrefix starts every protocol number, e.g. CANAA-...
	ProtocolPrefix string `json:"protocol_prefix"`

	// LookupBaseURL is the public host encoded in lookup QR codes
	LookupBaseURL string `json:"lookup_base_url"`

	DefaultCity  string `json:"default_city"`
	DefaultState string `json:"default_state"`

	ListPerPageDefault int `json:"list_per_page_default"`
	ListPerPageMax     int `json:"list_per_page_max"`

	// MaxUploadBytes bounds the size of a registration request body
	MaxUploadBytes int64 `json:"max_upload_bytes"`

	BlobDriver  string `json:"blob_driver"`
	UploadDir   string `json:"upload_dir"`
	S3Bucket    string `json:"s3_bucket"`
	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3PathStyle bool   `json:"s3_path_style"`

	CORSAllowedOrigins []string `json:"cors_allowed_origins"`

	AuditEnabled bool `json:"audit_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// fileConfig mirrors Config with pointers so an explicit zero in the file
// still counts as set.
type fileConfig struct {
	ProtocolPrefix     *string  `yaml:"protocol_prefix" toml:"protocol_prefix"`
	LookupBaseURL      *string  `yaml:"lookup_base_url" toml:"lookup_base_url"`
	DefaultCity        *string  `yaml:"default_city" toml:"default_city"`
	DefaultState       *string  `yaml:"default_state" toml:"default_state"`
	ListPerPageDefault *int     `yaml:"list_per_page_default" toml:"list_per_page_default"`
	ListPerPageMax     *int     `yaml:"list_per_page_max" toml:"list_per_page_max"`
	MaxUploadBytes     *int64   `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
	BlobDriver         *string  `yaml:"blob_driver" toml:"blob_driver"`
	UploadDir          *string  `yaml:"upload_dir" toml:"upload_dir"`
	S3Bucket           *string  `yaml:"s3_bucket" toml:"s3_bucket"`
	S3Region           *string  `yaml:"s3_region" toml:"s3_region"`
	S3Endpoint         *string  `yaml:"s3_endpoint" toml:"s3_endpoint"`
	S3PathStyle        *bool    `yaml:"s3_path_style" toml:"s3_path_style"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	AuditEnabled       *bool    `yaml:"audit_enabled" toml:"audit_enabled"`
}

// Default returns a config with default values
func Default() *Config {
	c := &Config{
		ProtocolPrefix:     "CANAA",
		LookupBaseURL:      "https://projeto-canaa.com",
		DefaultCity:        model.DefaultCidade,
		DefaultState:       model.DefaultEstado,
		ListPerPageDefault: 10,
		ListPerPageMax:     100,
		MaxUploadBytes:     32 << 20,
		BlobDriver:         string(blob.DriverFilesystem),
		UploadDir:          "uploads",
		S3Region:           "us-east-1",
		CORSAllowedOrigins: []string{"*"},
		AuditEnabled:       true,
		sources:            make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

// Dir returns $CANAA_CONFIG_PATH, or /etc/cadastro when it is unset.
func Dir() string {
	if dir := os.Getenv("CANAA_CONFIG_PATH"); dir != "" {
		return dir
	}
	return DefaultConfigPath
}

// Load reads the config file in Dir and the environment.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	return LoadFrom(Dir())
}

// LoadFrom reads cadastro.yml, or cadastro.toml when there is no YAML file,
// from dir and then applies environment overrides.
func LoadFrom(dir string) (*Config, error) {
	c := Default()
	c.configFilePath = filepath.Join(dir, ConfigFileName)

	var fc fileConfig
	found := false
	if data, err := os.ReadFile(c.configFilePath); err == nil {
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", c.configFilePath, err)
		}
		found = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", c.configFilePath, err)
	}

	if !found {
		tomlPath := filepath.Join(dir, TOMLConfigFileName)
		if _, err := toml.DecodeFile(tomlPath, &fc); err == nil {
			c.configFilePath = tomlPath
			found = true
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse config file %s: %w", tomlPath, err)
		}
	}

	if found {
		c.applyFileConfig(&fc)
	}
	if err := c.applyEnvConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

func attributeNames() []string {
	return []string{
		"protocol_prefix", "lookup_base_url", "default_city", "default_state",
		"list_per_page_default", "list_per_page_max", "max_upload_bytes",
		"blob_driver", "upload_dir", "s3_bucket", "s3_region", "s3_endpoint",
		"s3_path_style", "cors_allowed_origins", "audit_enabled",
	}
}

func setFrom[T any](dst *T, src *T, sources map[string]string, name string) {
	if src != nil {
		*dst = *src
		sources[name] = SourceFile
	}
}

func (c *Config) applyFileConfig(f *fileConfig) {
	setFrom(&c.ProtocolPrefix, f.ProtocolPrefix, c.sources, "protocol_prefix")
	setFrom(&c.LookupBaseURL, f.LookupBaseURL, c.sources, "lookup_base_url")
	setFrom(&c.DefaultCity, f.DefaultCity, c.sources, "default_city")
	setFrom(&c.DefaultState, f.DefaultState, c.sources, "default_state")
	setFrom(&c.ListPerPageDefault, f.ListPerPageDefault, c.sources, "list_per_page_default")
	setFrom(&c.ListPerPageMax, f.ListPerPageMax, c.sources, "list_per_page_max")
	setFrom(&c.MaxUploadBytes, f.MaxUploadBytes, c.sources, "max_upload_bytes")
	setFrom(&c.BlobDriver, f.BlobDriver, c.sources, "blob_driver")
	setFrom(&c.UploadDir, f.UploadDir, c.sources, "upload_dir")
	setFrom(&c.S3Bucket, f.S3Bucket, c.sources, "s3_bucket")
	setFrom(&c.S3Region, f.S3Region, c.sources, "s3_region")
	setFrom(&c.S3Endpoint, f.S3Endpoint, c.sources, "s3_endpoint")
	setFrom(&c.S3PathStyle, f.S3PathStyle, c.sources, "s3_path_style")
	setFrom(&c.AuditEnabled, f.AuditEnabled, c.sources, "audit_enabled")
	if f.CORSAllowedOrigins != nil {
		c.CORSAllowedOrigins = f.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = SourceFile
	}
}

func envName(attr string) string {
	return "CANAA_" + strings.ToUpper(attr)
}

func (c *Config) applyEnvConfig() error {
	strs := map[string]*string{
		"protocol_prefix": &c.ProtocolPrefix,
		"lookup_base_url": &c.LookupBaseURL,
		"default_city":    &c.DefaultCity,
		"default_state":   &c.DefaultState,
		"blob_driver":     &c.BlobDriver,
		"upload_dir":      &c.UploadDir,
		"s3_bucket":       &c.S3Bucket,
		"s3_region":       &c.S3Region,
		"s3_endpoint":     &c.S3Endpoint,
	}
	for name, dst := range strs {
		if val := os.Getenv(envName(name)); val != "" {
			*dst = val
			c.sources[name] = SourceEnvironment
		}
	}

	ints := map[string]*int{
		"list_per_page_default": &c.ListPerPageDefault,
		"list_per_page_max":     &c.ListPerPageMax,
	}
	for name, dst := range ints {
		if val := os.Getenv(envName(name)); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", envName(name), err)
			}
			*dst = i
			c.sources[name] = SourceEnvironment
		}
	}

	if val := os.Getenv(envName("max_upload_bytes")); val != "" {
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envName("max_upload_bytes"), err)
		}
		c.MaxUploadBytes = i
		c.sources["max_upload_bytes"] = SourceEnvironment
	}

	bools := map[string]*bool{
		"s3_path_style": &c.S3PathStyle,
		"audit_enabled": &c.AuditEnabled,
	}
	for name, dst := range bools {
		if val := os.Getenv(envName(name)); val != "" {
			*dst = val == "true" || val == "1"
			c.sources[name] = SourceEnvironment
		}
	}

	if val := os.Getenv(envName("cors_allowed_origins")); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = SourceEnvironment
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ProtocolPrefix) == "" {
		return fmt.Errorf("protocol_prefix must not be empty")
	}
	u, err := url.Parse(c.LookupBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid lookup_base_url: %q", c.LookupBaseURL)
	}
	if len(c.DefaultState) != 2 {
		return fmt.Errorf("default_state must have two letters: %q", c.DefaultState)
	}
	if c.ListPerPageDefault < 1 {
		return fmt.Errorf("list_per_page_default must be positive")
	}
	if c.ListPerPageMax < c.ListPerPageDefault {
		return fmt.Errorf("list_per_page_max (%d) is below list_per_page_default (%d)", c.ListPerPageMax, c.ListPerPageDefault)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	switch blob.Driver(c.BlobDriver) {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3_bucket is required when blob_driver is s3")
		}
	default:
		return fmt.Errorf("invalid blob_driver: %s", c.BlobDriver)
	}
	return nil
}

// Blob returns the blob store settings. S3 credentials come from the AWS
// environment.
func (c *Config) Blob() blob.Config {
	return blob.Config{
		Driver: blob.Driver(c.BlobDriver),
		Root:   c.UploadDir,
		S3: blob.S3Config{
			Bucket:          c.S3Bucket,
			Region:          c.S3Region,
			Endpoint:        c.S3Endpoint,
			PathStyle:       c.S3PathStyle,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		},
	}
}

// AddressDefaults returns the city and state used when a submission omits them.
func (c *Config) AddressDefaults() model.Defaults {
	return model.Defaults{Cidade: c.DefaultCity, Estado: c.DefaultState}
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	attr := func(name, value string) Attribute {
		return Attribute{Name: name, Value: value, Source: c.Source(name)}
	}
	return []Attribute{
		attr("protocol_prefix", c.ProtocolPrefix),
		attr("lookup_base_url", c.LookupBaseURL),
		attr("default_city", c.DefaultCity),
		attr("default_state", c.DefaultState),
		attr("list_per_page_default", strconv.Itoa(c.ListPerPageDefault)),
		attr("list_per_page_max", strconv.Itoa(c.ListPerPageMax)),
		attr("max_upload_bytes", strconv.FormatInt(c.MaxUploadBytes, 10)),
		attr("blob_driver", c.BlobDriver),
		attr("upload_dir", c.UploadDir),
		attr("s3_bucket", c.S3Bucket),
		attr("s3_region", c.S3Region),
		attr("s3_endpoint", c.S3Endpoint),
		attr("s3_path_style", strconv.FormatBool(c.S3PathStyle)),
		attr("cors_allowed_origins", strings.Join(c.CORSAllowedOrigins, ",")),
		attr("audit_enabled", strconv.FormatBool(c.AuditEnabled)),
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-25s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-25s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
