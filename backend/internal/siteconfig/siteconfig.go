// Package `siteconfig` resolves the site settings that the ECMWF tools need:
// command name overrides, the `ectrans` gateway, and the `ectrans` remote
// associations per storage.
//
// A configuration consists of sections with string keys:
//
//	ecmwf:
//	  ecfs_command: ecfs
//	ectrans:
//	  gateway: ecgb-gateway
//	  remote_default: meteo_default
//	  remote_hendrix.meteo.fr: meteo_hendrix
package siteconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v2"
)

const (
	SectionECMWF   = "ecmwf"
	SectionEctrans = "ectrans"

	KeyGateway    = "gateway"
	DefaultRemote = "default"
)

// `Lookuper` is the read-only view that the tool packages use.
type Lookuper interface {
	Lookup(section, key string) (string, bool)
}

// `ConfigurationError` reports a missing required setting.  It is never
// retried.
type ConfigurationError struct {
	Section string
	Key     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration `%s.%s`", e.Section, e.Key)
}

type Logger interface {
	Warnw(msg string, kv ...interface{})
}

type Config struct {
	sections map[string]map[string]string
}

// `New()` creates a config from a section map.  The map is copied.
func New(sections map[string]map[string]string) *Config {
	c := &Config{sections: make(map[string]map[string]string)}
	for s, kvs := range sections {
		for k, v := range kvs {
			c.Set(s, k, v)
		}
	}
	return c
}

func (c *Config) Set(section, key, value string) {
	if c.sections == nil {
		c.sections = make(map[string]map[string]string)
	}
	kvs, ok := c.sections[section]
	if !ok {
		kvs = make(map[string]string)
		c.sections[section] = kvs
	}
	kvs[key] = value
}

func (c *Config) Lookup(section, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.sections[section][key]
	return v, ok
}

// `Sections()` returns the sorted section names.
func (c *Config) Sections() []string {
	names := make([]string, 0, len(c.sections))
	for s := range c.sections {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

// `Keys()` returns the sorted keys of a section.
func (c *Config) Keys(section string) []string {
	kvs := c.sections[section]
	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// `Load()` reads a YAML file, or a legacy HCL file if the name ends with
// `.hcl`.  `~` is expanded to the home directory.
func Load(lg Logger, path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		lg.Warnw(
			"DEPRECATED HCL site config.  "+
				"You should migrate to YAML.",
			"path", path,
		)
		return ParseHCL(dat)
	}
	return ParseYAML(dat)
}

func ParseYAML(dat []byte) (*Config, error) {
	var raw map[string]map[string]interface{}
	if err := yaml.Unmarshal(dat, &raw); err != nil {
		return nil, err
	}
	c := New(nil)
	for s, kvs := range raw {
		for k, v := range kvs {
			c.Set(s, k, scalarString(v))
		}
	}
	return c, nil
}

// HCL decodes blocks like `ectrans { gateway = "x" }` as lists of maps.
func ParseHCL(dat []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := hcl.Unmarshal(dat, &raw); err != nil {
		return nil, err
	}
	c := New(nil)
	for s, block := range raw {
		switch b := block.(type) {
		case map[string]interface{}:
			for k, v := range b {
				c.Set(s, k, scalarString(v))
			}
		case []map[string]interface{}:
			for _, m := range b {
				for k, v := range m {
					c.Set(s, k, scalarString(v))
				}
			}
		default:
			return nil, fmt.Errorf(
				"section `%s` is not a block", s,
			)
		}
	}
	return c, nil
}

func scalarString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
