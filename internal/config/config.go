// Package config loads resource schema definitions from a jsonapi.yml file
// and materializes them into a schema registry.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/conduit-lang/jsonapi/schema"
)

// Config is the top-level shape of a jsonapi.yml file.
type Config struct {
	Case      string           `mapstructure:"case"`
	Resources []ResourceConfig `mapstructure:"resources"`
}

// ResourceConfig declares one resource type.
type ResourceConfig struct {
	Type          string               `mapstructure:"type"`
	IDAttribute   string               `mapstructure:"id_attribute"`
	Attributes    []AttributeConfig    `mapstructure:"attributes"`
	Relationships []RelationshipConfig `mapstructure:"relationships"`
}

// AttributeConfig declares one attribute. Serialize and Deserialize default
// to true when omitted.
type AttributeConfig struct {
	Name        string `mapstructure:"name"`
	Serialize   *bool  `mapstructure:"serialize"`
	Deserialize *bool  `mapstructure:"deserialize"`
}

// RelationshipConfig declares one relationship. ToMany selects the
// cardinality; the default is to-one.
type RelationshipConfig struct {
	Name   string `mapstructure:"name"`
	Target string `mapstructure:"target"`
	ToMany bool   `mapstructure:"to_many"`
}

// Load reads a configuration file. With an empty path it looks for
// jsonapi.yml (or .yaml) in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("jsonapi")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("JSONAPI")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(cfg.Resources) == 0 {
		return nil, fmt.Errorf("config declares no resources")
	}
	return &cfg, nil
}

// CaseMode resolves the configured wire case mode.
func (c *Config) CaseMode() (schema.CaseMode, error) {
	return schema.ParseCaseMode(c.Case)
}

// BuildRegistry materializes the declared resources into a registry and
// verifies that every relationship target is itself declared.
func (c *Config) BuildRegistry() (*schema.Registry, error) {
	reg := schema.NewRegistry()
	for _, res := range c.Resources {
		idAttr := res.IDAttribute
		if idAttr == "" {
			idAttr = "id"
		}

		s := schema.New(res.Type, idAttr)
		for _, attr := range res.Attributes {
			var opts []schema.FieldOptions
			if attr.Serialize != nil || attr.Deserialize != nil {
				opt := schema.FieldOptions{Serialize: true, Deserialize: true}
				if attr.Serialize != nil {
					opt.Serialize = *attr.Serialize
				}
				if attr.Deserialize != nil {
					opt.Deserialize = *attr.Deserialize
				}
				opts = append(opts, opt)
			}
			s = s.Attr(attr.Name, opts...)
		}
		for _, rel := range res.Relationships {
			if rel.ToMany {
				s = s.ToMany(rel.Name, rel.Target)
			} else {
				s = s.ToOne(rel.Name, rel.Target)
			}
		}

		if err := reg.Register(s); err != nil {
			return nil, fmt.Errorf("resource %q: %w", res.Type, err)
		}
	}

	if err := reg.ValidateTargets(); err != nil {
		return nil, err
	}
	return reg, nil
}
