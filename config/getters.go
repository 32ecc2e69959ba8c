package config

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("field not found")

type Option func(options *options)

type options struct {
	withDefault  bool
	defaultValue interface{}
}

func getOptions(opts ...Option) *options {
	defaultOptions := &options{}
	for _, opt := range opts {
		opt(defaultOptions)
	}
	return defaultOptions
}

func WithDefault(value interface{}) Option {
	return func(options *options) {
		options.withDefault = true
		options.defaultValue = value
	}
}

// GetInterface gets the given, potentially dotted, field irrespective of its type.
// This will recursively descend into submaps.
func GetInterface(config map[string]interface{}, field string) (interface{}, error) {
	head, rest, nested := strings.Cut(field, ".")
	element, ok := config[head]
	if !ok {
		return nil, ErrNotFound
	}
	if !nested {
		return element, nil
	}

	submap, ok := element.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("%v should be a map, got: %v", head, reflect.TypeOf(element))
	}
	out, err := GetInterface(submap, rest)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't get %v", rest)
	}
	return out, nil
}

func get[T any](config map[string]interface{}, field string, opts []Option) (T, error) {
	var zero T
	options := getOptions(opts...)
	out, err := GetInterface(config, field)
	if err != nil {
		if options.withDefault && errors.Cause(err) == ErrNotFound {
			return options.defaultValue.(T), nil
		}
		return zero, errors.Wrapf(err, "couldn't get %s", field)
	}

	typed, ok := out.(T)
	if !ok {
		return zero, errors.Errorf("expected %v at %s, got %v", reflect.TypeOf(zero), field, reflect.TypeOf(out))
	}
	return typed, nil
}

// GetMap gets a sub-map from the given field.
func GetMap(config map[string]interface{}, field string, opts ...Option) (map[string]interface{}, error) {
	return get[map[string]interface{}](config, field, opts)
}

func GetString(config map[string]interface{}, field string, opts ...Option) (string, error) {
	return get[string](config, field, opts)
}

func GetInt(config map[string]interface{}, field string, opts ...Option) (int, error) {
	return get[int](config, field, opts)
}

func GetBool(config map[string]interface{}, field string, opts ...Option) (bool, error) {
	return get[bool](config, field, opts)
}

// GetStringList gets a list of strings from the given field.
func GetStringList(config map[string]interface{}, field string, opts ...Option) ([]string, error) {
	options := getOptions(opts...)
	out, err := get[[]interface{}](config, field, nil)
	if err != nil {
		if options.withDefault && errors.Cause(err) == ErrNotFound {
			return options.defaultValue.([]string), nil
		}
		return nil, err
	}

	outStrings := make([]string, len(out))
	for i := range out {
		str, ok := out[i].(string)
		if !ok {
			return nil, errors.Errorf("expected string slice, got %v at index %v", reflect.TypeOf(out[i]), i)
		}
		outStrings[i] = str
	}
	return outStrings, nil
}
