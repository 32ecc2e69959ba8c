package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/ocitdo/registry"
)

type Config struct {
	// TypeMapping maps bare server type names to class names.
	TypeMapping map[string]string      `yaml:"typeMapping"`
	XML         bool                   `yaml:"xml"`
	LogFile     string                 `yaml:"logFile"`
	Options     map[string]interface{} `yaml:"options"`
}

func ReadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open file")
	}
	defer f.Close()

	var config Config

	err = yaml.NewDecoder(f).Decode(&config)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}

	if config.Options == nil {
		config.Options = make(map[string]interface{})
	}
	cleanupMaps(config.Options)

	return &config, nil
}

// BuildMapping registers the configured class of every mapped type name.
// Classes are looked up by name in classes; registry.Record is always available as "record".
func BuildMapping(config *Config, classes map[string]registry.Class) (*registry.Mapping, error) {
	mapping := registry.NewMapping()

	typeNames := make([]string, 0, len(config.TypeMapping))
	for typeName := range config.TypeMapping {
		typeNames = append(typeNames, typeName)
	}
	sort.Strings(typeNames)

	for _, typeName := range typeNames {
		className := config.TypeMapping[typeName]
		class, ok := classes[className]
		if !ok && className == registry.Record.Name() {
			class, ok = registry.Record, true
		}
		if !ok {
			return nil, errors.Errorf("unknown class %s for type %s", className, typeName)
		}
		mapping.Register(typeName, class)
	}

	return mapping, nil
}

// The yaml decoder may create maps of type map[interface{}]interface{} for non-string keys.
// cleanupMaps will change them to map[string]interface{}.
func cleanupMaps(config map[string]interface{}) {
	for k, v := range config {
		config[k] = cleanupMapsRecursive(v)
	}
}

func cleanupMapsRecursive(config interface{}) interface{} {
	switch config := config.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{})
		for k, v := range config {
			out[fmt.Sprintf("%v", k)] = cleanupMapsRecursive(v)
		}
		return out
	case map[string]interface{}:
		cleanupMaps(config)
	case []interface{}:
		for i := range config {
			config[i] = cleanupMapsRecursive(config[i])
		}
	}

	return config
}
