// Package config loads the qlabel configuration file.
//
// The file is TOML:
//
//	[server]
//	host = "0.0.0.0"
//	port = 8013
//	log_level = "info"
//	additional_font_folder = "/usr/share/fonts/custom"
//
//	[printer]
//	model = "QL-500"
//	printer = "file:///dev/usb/lp1"
//	spool = "dir"
//	spool_dir = "/var/spool/qlabel"
//
//	[label]
//	default_size = "62"
//	default_orientation = "standard"
//	default_font_size = 70
//	default_fonts = [
//	  { family = "DejaVu Sans", style = "Book" },
//	  { family = "Go", style = "Regular" },
//	]
//
//	[[fonts]]
//	family = "DejaVu Sans"
//	style = "Book"
//	file = "DejaVuSans.ttf"
//
// Every section is optional; Default documents the values used for
// missing keys.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/qlabel/pkg/errors"
	"github.com/matzehuels/qlabel/pkg/fonts"
	"github.com/matzehuels/qlabel/pkg/label"
)

// Backend names.
const (
	SpoolRedis = "redis"
	SpoolDir   = "dir"
	SpoolNone  = "none"

	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	HistoryMemory = "memory"
	HistoryMongo  = "mongo"
)

// Config is the complete configuration.
type Config struct {
	Server  Server     `toml:"server"`
	Printer Printer    `toml:"printer"`
	Label   Label      `toml:"label"`
	Fonts   []FontFile `toml:"fonts"`
	Website Website    `toml:"website"`
	Cache   Cache      `toml:"cache"`
	History History    `toml:"history"`
	Redis   Redis      `toml:"redis"`
	Mongo   Mongo      `toml:"mongo"`
}

type Server struct {
	Host                 string `toml:"host"`
	Port                 int    `toml:"port"`
	LogLevel             string `toml:"log_level"`
	AdditionalFontFolder string `toml:"additional_font_folder"`
}

// Addr returns host:port.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Printer struct {
	Model    string `toml:"model"`
	Printer  string `toml:"printer"`
	Spool    string `toml:"spool"`
	SpoolDir string `toml:"spool_dir"`
	Queue    string `toml:"queue"`
	// DryRun renders and records jobs without spooling them and returns
	// the job image in the print response.
	DryRun bool `toml:"dry_run"`
}

type Label struct {
	DefaultSize        string            `toml:"default_size"`
	DefaultOrientation label.Orientation `toml:"default_orientation"`
	DefaultFontSize    int               `toml:"default_font_size"`
	DefaultFonts       []fonts.Ref       `toml:"default_fonts"`
}

// FontFile registers a font file under a family and style.
type FontFile struct {
	Family string `toml:"family"`
	Style  string `toml:"style"`
	File   string `toml:"file"`
}

type Website struct {
	HTMLTitle    string `toml:"html_title"`
	PageTitle    string `toml:"page_title"`
	PageHeadline string `toml:"page_headline"`
}

type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
}

type History struct {
	Backend  string `toml:"backend"`
	Capacity int    `toml:"capacity"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Duration is a time.Duration written as a string ("24h") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8013
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Printer.Model == "" {
		c.Printer.Model = "QL-500"
	}
	if c.Printer.Spool == "" {
		c.Printer.Spool = SpoolNone
	}
	if c.Printer.SpoolDir == "" {
		c.Printer.SpoolDir = "spool"
	}
	if c.Label.DefaultSize == "" {
		c.Label.DefaultSize = label.DefaultLabelSize
	}
	if c.Label.DefaultOrientation == "" {
		c.Label.DefaultOrientation = label.DefaultOrientation
	}
	if c.Label.DefaultFontSize == 0 {
		c.Label.DefaultFontSize = label.DefaultFontSize
	}
	if len(c.Label.DefaultFonts) == 0 {
		c.Label.DefaultFonts = []fonts.Ref{fonts.DefaultRef}
	}
	if c.Website.HTMLTitle == "" {
		c.Website.HTMLTitle = "Label Designer"
	}
	if c.Website.PageTitle == "" {
		c.Website.PageTitle = "Brother QL Label Designer"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheNone
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = 24 * time.Hour
	}
	if c.History.Backend == "" {
		c.History.Backend = HistoryMemory
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "qlabel"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "history"
	}
}

// Validate checks the configuration against the stock catalog.
func (c *Config) Validate() error {
	if _, ok := label.BrotherQL.Lookup(c.Label.DefaultSize); !ok {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid default label size %q; choose one of: %s",
			c.Label.DefaultSize, strings.Join(label.BrotherQL.IDs(), " "))
	}
	if !c.Label.DefaultOrientation.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid default orientation %q", c.Label.DefaultOrientation)
	}
	if c.Label.DefaultFontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "default font size must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid port %d", c.Server.Port)
	}
	switch c.Printer.Spool {
	case SpoolRedis, SpoolDir, SpoolNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown spool backend %q", c.Printer.Spool)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.History.Backend {
	case HistoryMemory:
	case HistoryMongo:
		if c.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "history backend mongo requires [mongo] uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown history backend %q", c.History.Backend)
	}
	for i, f := range c.Fonts {
		if f.Family == "" || f.Style == "" || f.File == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "fonts[%d]: family, style and file are required", i)
		}
	}
	return nil
}

// Load reads, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes TOML text, then applies defaults and validation.
// Unknown keys are rejected so typos do not pass silently.
func Parse(text string) (*Config, error) {
	c := &Config{}
	md, err := toml.Decode(text, c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LabelDefaults returns the request defaults derived from the [label]
// section.
func (c *Config) LabelDefaults() label.Params {
	p := label.DefaultParams()
	p.LabelSize = c.Label.DefaultSize
	p.Orientation = c.Label.DefaultOrientation
	p.FontSize = c.Label.DefaultFontSize
	return p
}
