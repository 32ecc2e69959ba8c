package ocimem

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/ocitdo/oci"
)

// Fixture is the YAML description of a library catalog and some instances.
//
//	xml: true
//	types:
//	  - schema: SCOTT
//	    name: POINT_T
//	    attributes:
//	      - {name: X, type: NUMBER}
//	      - {name: Y, type: NUMBER}
//	instances:
//	  - name: origin
//	    type: SCOTT.POINT_T
//	    values: {X: 0, Y: 0}
type Fixture struct {
	XML       bool              `yaml:"xml"`
	Types     []FixtureType     `yaml:"types"`
	Instances []FixtureInstance `yaml:"instances"`
}

type FixtureType struct {
	Schema     string             `yaml:"schema"`
	Name       string             `yaml:"name"`
	Opaque     bool               `yaml:"opaque"`
	Attributes []FixtureAttribute `yaml:"attributes"`
}

type FixtureAttribute struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	// Of is the qualified attribute type name of OBJECT and OPAQUE attributes.
	Of string `yaml:"of"`
}

type FixtureInstance struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"`
	Null   bool                   `yaml:"null"`
	Values map[string]interface{} `yaml:"values"`

	// Payload is the document of opaque instances.
	Payload string `yaml:"payload"`
}

// ReadFixture reads and parses a fixture file.
func ReadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open file")
	}
	defer f.Close()

	var fixture Fixture
	if err := yaml.NewDecoder(f).Decode(&fixture); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml fixture")
	}

	for i := range fixture.Instances {
		cleanupMaps(fixture.Instances[i].Values)
	}

	return &fixture, nil
}

// NewLibraryFromFixture defines every fixture type in a new library.
func NewLibraryFromFixture(fixture *Fixture) (*Library, error) {
	lib := NewLibrary()
	lib.XML = fixture.XML
	for _, t := range fixture.Types {
		def := Type{
			Schema: t.Schema,
			Name:   t.Name,
			Code:   oci.TypeCodeObject,
		}
		if t.Opaque {
			def.Code = oci.TypeCodeOpaque
		}
		for _, attr := range t.Attributes {
			code, ok := oci.ParseTypeCode(attr.Type)
			if !ok {
				return nil, errors.Errorf("unknown type %s of attribute %s.%s.%s", attr.Type, t.Schema, t.Name, attr.Name)
			}
			def.Attributes = append(def.Attributes, Attribute{
				Name:     attr.Name,
				Code:     code,
				TypeName: attr.Of,
			})
		}
		if _, err := lib.AddType(def); err != nil {
			return nil, errors.Wrapf(err, "couldn't add type %s.%s", t.Schema, t.Name)
		}
	}
	return lib, nil
}

// Instance creates the named fixture instance in the session and returns its
// instance pointer, null structure and type.
func (s *Session) Instance(fixture *Fixture, name string) (oci.Pointer, oci.Pointer, string, error) {
	for _, inst := range fixture.Instances {
		if inst.Name != name {
			continue
		}
		if t, ok := s.lib.Type(inst.Type); ok && t.Code == oci.TypeCodeOpaque {
			ptr, err := s.NewOpaque(inst.Payload)
			if err != nil {
				return 0, 0, "", errors.Wrapf(err, "couldn't create instance %s", name)
			}
			return ptr, 0, inst.Type, nil
		}
		ptr, nsPtr, err := s.NewInstance(inst.Type, inst.Values)
		if err != nil {
			return 0, 0, "", errors.Wrapf(err, "couldn't create instance %s", name)
		}
		if inst.Null {
			if err := s.SetNull(nsPtr, true); err != nil {
				return 0, 0, "", err
			}
		}
		return ptr, nsPtr, inst.Type, nil
	}
	return 0, 0, "", errors.Errorf("instance %s not found", name)
}

// The yaml decoder may create maps of type map[interface{}]interface{} for nested values.
// cleanupMaps will change them to map[string]interface{}.
func cleanupMaps(values map[string]interface{}) {
	for k, v := range values {
		values[k] = cleanupMapsRecursive(v)
	}
}

func cleanupMapsRecursive(value interface{}) interface{} {
	switch value := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{})
		for k, v := range value {
			out[fmt.Sprintf("%v", k)] = cleanupMapsRecursive(v)
		}
		return out
	case map[string]interface{}:
		for k, v := range value {
			value[k] = cleanupMapsRecursive(v)
		}
	case []interface{}:
		for i := range value {
			value[i] = cleanupMapsRecursive(value[i])
		}
	}

	return value
}
