// Package config provides configuration management for the Caxton engine
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the CAXTON_ prefix. It covers logging, the design and
// schema definition directories, the asset-processing service endpoint,
// per-channel import targets, named transformations, and the task workflow
// declaration including the publish gate.
package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"

	"github.com/conneroisu/caxton/internal/importer"
	"github.com/conneroisu/caxton/internal/workflow"
)

type Config struct {
	Logging         LoggingConfig             `yaml:"logging"`
	Definitions     DefinitionsConfig         `yaml:"definitions"`
	Assets          AssetsConfig              `yaml:"assets"`
	Server          ServerConfig              `yaml:"server"`
	Tasks           TasksConfig               `yaml:"tasks"`
	Transformations []importer.Transformation `yaml:"transformations"`
	// Targets maps a channel name to its import target; every document in
	// one channel shares one design.
	Targets map[string]TargetConfig `yaml:"targets"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DefinitionsConfig struct {
	DesignsDir string `yaml:"designs_dir"`
	SchemasDir string `yaml:"schemas_dir"`
}

type AssetsConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TasksConfig struct {
	// Schema is the reserved metadata namespace for task state
	Schema string `yaml:"schema"`
	// Types declares the editorial task workflows
	Types []workflow.TaskType `yaml:"types"`
	// Gate configures the publish predicate "task X is at state Y"
	Gate GateConfig `yaml:"gate"`
}

type GateConfig struct {
	Task  string `yaml:"task"`
	State string `yaml:"state"`
}

// TargetConfig is the per-channel half of an import target; the channel
// name is the map key.
type TargetConfig struct {
	Design         string `yaml:"design"`
	DesignVersion  string `yaml:"design_version"`
	Layout         string `yaml:"layout"`
	Transformation string `yaml:"transformation"`
	MetadataSchema string `yaml:"metadata_schema"`
}

// Target resolves the channel's full import target.
func (c *Config) Target(channel string) (importer.Target, error) {
	tc, ok := c.Targets[channel]
	if !ok {
		return importer.Target{}, fmt.Errorf("no import target configured for channel %q", channel)
	}

	return importer.Target{
		DesignName:     tc.Design,
		DesignVersion:  tc.DesignVersion,
		Layout:         tc.Layout,
		Transformation: tc.Transformation,
		Channel:        channel,
		MetadataSchema: tc.MetadataSchema,
	}, nil
}

// Load unmarshals the viper-managed configuration and applies defaults.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
	if config.Definitions.DesignsDir == "" {
		config.Definitions.DesignsDir = "./designs"
	}
	if config.Definitions.SchemasDir == "" {
		config.Definitions.SchemasDir = "./schemas"
	}
	if config.Assets.TimeoutSeconds <= 0 {
		config.Assets.TimeoutSeconds = 30
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8420
	}
	if config.Tasks.Schema == "" {
		config.Tasks.Schema = "tasks"
	}
}

// Validate checks cross-field consistency that viper cannot.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	if c.Assets.Endpoint != "" {
		parsed, err := url.Parse(c.Assets.Endpoint)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("assets endpoint %q is not an http(s) URL", c.Assets.Endpoint)
		}
	}

	declared := make(map[string]bool, len(c.Transformations))
	for _, t := range c.Transformations {
		declared[t.Name] = true
	}

	for channel, target := range c.Targets {
		if target.Design == "" || target.DesignVersion == "" {
			return fmt.Errorf("target for channel %q requires design and design_version", channel)
		}
		if target.Transformation != "" && !declared[target.Transformation] {
			return fmt.Errorf("target for channel %q names undeclared transformation %q",
				channel, target.Transformation)
		}
	}

	if c.Tasks.Gate.Task != "" {
		found := false
		for _, t := range c.Tasks.Types {
			if t.Name != c.Tasks.Gate.Task {
				continue
			}
			found = true
			stateKnown := false
			for _, s := range t.States {
				if s.Name == c.Tasks.Gate.State {
					stateKnown = true
					break
				}
			}
			if !stateKnown {
				return fmt.Errorf("publish gate names unknown state %q of task %q",
					c.Tasks.Gate.State, c.Tasks.Gate.Task)
			}
		}
		if !found {
			return fmt.Errorf("publish gate names unknown task type %q", c.Tasks.Gate.Task)
		}
	}

	return nil
}
