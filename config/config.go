package config

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/metamodel/factory"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"
	"strings"
	"time"
)

const (
	defaultBuildTimeoutMs = 10000
	defaultDebounceMs     = 250
)

// Config represents metamodel engine configuration
type Config struct {
	Factories        []string          //facet factory names in pipeline order, empty uses the default order
	BuildTimeoutMs   int               //single specification build limit
	DevMode          bool              //enables configuration watching and cache reset on change
	ReloadDebounceMs int               //wait time before a change is applied
	LogLevel         string            //DEBUG, INFO, WARN or ERROR
	MetaAnnotations  map[string]string //named annotation bundles referenced with meta:"Name"
}

// Init sets defaults
func (c *Config) Init() {
	if c.BuildTimeoutMs == 0 {
		c.BuildTimeoutMs = defaultBuildTimeoutMs
	}
	if c.ReloadDebounceMs == 0 {
		c.ReloadDebounceMs = defaultDebounceMs
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.MetaAnnotations == nil {
		c.MetaAnnotations = map[string]string{}
	}
}

// Validate checks factory names and meta annotation bundles, factory names are looked up
// in the supplied registry, nil registry skips the lookup
func (c *Config) Validate(registry *factory.Registry) error {
	if c.BuildTimeoutMs < 0 {
		return fmt.Errorf("invalid BuildTimeoutMs: %v", c.BuildTimeoutMs)
	}
	names := map[string]bool{}
	for _, name := range c.Factories {
		if names[name] {
			return errors.Errorf("duplicate facet factory: %v", name)
		}
		names[name] = true
		if registry == nil {
			continue
		}
		if _, err := registry.Lookup(name); err != nil {
			return err
		}
	}
	for name, value := range c.MetaAnnotations {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("meta annotation name was empty")
		}
		if _, issues := factory.ParseAnnotation(value); len(issues) > 0 {
			return errors.Errorf("invalid meta annotation %v: %v", name, issues[0].Error())
		}
	}
	return nil
}

// BuildTimeout returns build timeout
func (c *Config) BuildTimeout() time.Duration {
	return time.Duration(c.BuildTimeoutMs) * time.Millisecond
}

// ReloadDebounce returns reload debounce duration
func (c *Config) ReloadDebounce() time.Duration {
	return time.Duration(c.ReloadDebounceMs) * time.Millisecond
}

// NewConfigFromURL loads yaml or json configuration
func NewConfigFromURL(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download config: %v", URL)
	}
	return NewConfig(data, isYAML(URL))
}

// NewConfig decodes configuration content
func NewConfig(data []byte, asYAML bool) (*Config, error) {
	aMap := map[string]interface{}{}
	if asYAML {
		if err := yaml.Unmarshal(data, &aMap); err != nil {
			return nil, errors.Wrap(err, "failed to decode yaml config")
		}
	} else {
		if err := json.Unmarshal(data, &aMap); err != nil {
			return nil, errors.Wrap(err, "failed to decode json config")
		}
	}
	cfg := &Config{}
	if err := toolbox.DefaultConverter.AssignConverted(cfg, aMap); err != nil {
		return nil, errors.Wrap(err, "failed to assign config")
	}
	cfg.Init()
	return cfg, cfg.Validate(nil)
}

func isYAML(URL string) bool {
	return strings.HasSuffix(URL, ".yaml") || strings.HasSuffix(URL, ".yml")
}
