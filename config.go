package sitemeta

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultUserAgent = "Mozilla/5.0"

type Options struct {
	UserAgent       string        `yaml:"user_agent"`
	PageTimeout     time.Duration `yaml:"page_timeout"`
	AuxTimeout      time.Duration `yaml:"aux_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	RenderTimeout   time.Duration `yaml:"render_timeout"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	Render          bool          `yaml:"render"`
	Debug           bool          `yaml:"debug"`
}

func DefaultOptions() Options {
	return Options{
		UserAgent:       defaultUserAgent,
		PageTimeout:     10 * time.Second,
		AuxTimeout:      10 * time.Second,
		DownloadTimeout: 30 * time.Second,
		RenderTimeout:   35 * time.Second,
		CacheTTL:        24 * time.Hour,
	}
}

// LoadOptions reads a YAML file over the defaults. An empty path returns
// the defaults unchanged.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse config %s: %w", path, err)
	}
	opts.fillDefaults()
	return opts, nil
}

// ApplyEnv overrides fields from SITEMETA_USER_AGENT, SITEMETA_DEBUG and
// SITEMETA_RENDER. Unparseable booleans are ignored.
func (o *Options) ApplyEnv() {
	if value, exists := os.LookupEnv("SITEMETA_USER_AGENT"); exists && value != "" {
		o.UserAgent = value
	}
	if value, exists := os.LookupEnv("SITEMETA_DEBUG"); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			o.Debug = parsed
		}
	}
	if value, exists := os.LookupEnv("SITEMETA_RENDER"); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			o.Render = parsed
		}
	}
}

func (o *Options) fillDefaults() {
	def := DefaultOptions()
	if o.UserAgent == "" {
		o.UserAgent = def.UserAgent
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = def.PageTimeout
	}
	if o.AuxTimeout <= 0 {
		o.AuxTimeout = def.AuxTimeout
	}
	if o.DownloadTimeout <= 0 {
		o.DownloadTimeout = def.DownloadTimeout
	}
	if o.RenderTimeout <= 0 {
		o.RenderTimeout = def.RenderTimeout
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = def.CacheTTL
	}
}
