// Package config is used to load the configuration file
package config

import (
	"fmt"
	"strings"

	"github.com/beatsaver/ingest/pkg/container"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

const defaultParallelism = 4

type ingest struct {
	Parallelism   int    `json:"parallelism" mapstructure:"parallelism" jsonschema:"minimum=1,default=4"`
	Compression   string `json:"compression" mapstructure:"compression" jsonschema:"enum=store,enum=deflate,default=store"`
	MaxMemberSize string `json:"max-member-size" mapstructure:"max-member-size" jsonschema:"description=human readable size such as 64MB; 0 disables the limit"`
}

type output struct {
	Dir    string `json:"dir" mapstructure:"dir"`
	Format string `json:"format" mapstructure:"format" jsonschema:"enum=json,enum=yaml,default=json"`
	Key    string `json:"key" mapstructure:"key"`
}

// Config is the configuration struct
type Config struct {
	Ingest ingest `json:"ingest" mapstructure:"ingest"`
	Output output `json:"output" mapstructure:"output"`

	compression   container.Compression
	maxMemberSize int64
}

func (c *Config) verify() error {
	if c.Ingest.Parallelism == 0 {
		c.Ingest.Parallelism = defaultParallelism
	} else if c.Ingest.Parallelism < 0 {
		return fmt.Errorf("parallelism must be at least 1 (got %d)", c.Ingest.Parallelism)
	}

	comp, err := container.ParseCompression(c.Ingest.Compression)
	if err != nil {
		return err
	}
	c.compression = comp

	if size := strings.TrimSpace(c.Ingest.MaxMemberSize); size != "" && size != "0" {
		n, err := humanize.ParseBytes(size)
		if err != nil {
			return fmt.Errorf("invalid max-member-size %q: %v", size, err)
		}
		c.maxMemberSize = int64(n)
	}

	switch strings.ToLower(c.Output.Format) {
	case "":
		c.Output.Format = "json"
	case "json", "yaml":
		c.Output.Format = strings.ToLower(c.Output.Format)
	default:
		return fmt.Errorf("output format must be json or yaml (got %q)", c.Output.Format)
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}

	return nil
}

// Compression returns the verified archive compression.
func (c *Config) Compression() container.Compression { return c.compression }

// MaxMemberSize returns the verified member size limit in bytes, 0 if unset.
func (c *Config) MaxMemberSize() int64 { return c.maxMemberSize }

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load unmarshals and verifies the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return &c, nil
}
