// Package catalog caches the type descriptors of one connection by qualified name.
package catalog

import (
	"log"
	"strings"

	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/cube2222/ocitdo/oci"
	"github.com/cube2222/ocitdo/registry"
	"github.com/cube2222/ocitdo/tdo"
)

const btreeDegree = 16

// TypeLookup is implemented by sessions able to resolve types by name.
type TypeLookup interface {
	LookupType(schema, name string) (oci.Ref, error)
}

type entry struct {
	name     string
	typ      *tdo.TypeDescriptor
	describe oci.Describe
}

func (e *entry) Less(than btree.Item) bool {
	return e.name < than.(*entry).name
}

// Catalog is not safe for concurrent use, like the session it belongs to.
type Catalog struct {
	sess    oci.Session
	mapping *registry.Mapping
	entries *btree.BTree
}

func New(sess oci.Session, mapping *registry.Mapping) *Catalog {
	return &Catalog{
		sess:    sess,
		mapping: mapping,
		entries: btree.New(btreeDegree),
	}
}

// ParseQualifiedName splits SCHEMA.NAME.
func ParseQualifiedName(qualifiedName string) (string, string, error) {
	i := strings.LastIndex(qualifiedName, ".")
	if i <= 0 || i == len(qualifiedName)-1 {
		return "", "", errors.Errorf("invalid qualified type name %q, expected SCHEMA.NAME", qualifiedName)
	}
	return qualifiedName[:i], qualifiedName[i+1:], nil
}

// Describe returns the cached descriptor of schema.name, describing it on first use.
func (c *Catalog) Describe(schema, name string) (*tdo.TypeDescriptor, error) {
	key := schema + "." + name
	if item := c.entries.Get(&entry{name: key}); item != nil {
		return item.(*entry).typ, nil
	}

	lookup, ok := c.sess.(TypeLookup)
	if !ok {
		return nil, &oci.UnsupportedError{Feature: "type lookup by name"}
	}
	ref, err := lookup.LookupType(schema, name)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't find type %s", key)
	}
	d, err := c.sess.DescribeAny(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't describe type %s", key)
	}
	param, err := d.Param()
	if err != nil {
		d.Free()
		return nil, errors.Wrapf(err, "couldn't get described type %s", key)
	}
	typ, err := tdo.Describe(c.sess, param, c.mapping)
	if err != nil {
		d.Free()
		return nil, errors.Wrapf(err, "couldn't describe type %s", key)
	}

	c.entries.ReplaceOrInsert(&entry{
		name:     key,
		typ:      typ,
		describe: d,
	})
	return typ, nil
}

// DescribeQualified is Describe for a SCHEMA.NAME string.
func (c *Catalog) DescribeQualified(qualifiedName string) (*tdo.TypeDescriptor, error) {
	schema, name, err := ParseQualifiedName(qualifiedName)
	if err != nil {
		return nil, err
	}
	return c.Describe(schema, name)
}

// Get returns a cached descriptor without describing.
func (c *Catalog) Get(qualifiedName string) (*tdo.TypeDescriptor, bool) {
	item := c.entries.Get(&entry{name: qualifiedName})
	if item == nil {
		return nil, false
	}
	return item.(*entry).typ, true
}

// Names returns the qualified names of the cached descriptors in ascending order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, c.entries.Len())
	c.entries.Ascend(func(item btree.Item) bool {
		out = append(out, item.(*entry).name)
		return true
	})
	return out
}

func (c *Catalog) Len() int {
	return c.entries.Len()
}

// Evict closes and forgets a cached descriptor.
func (c *Catalog) Evict(qualifiedName string) error {
	item := c.entries.Delete(&entry{name: qualifiedName})
	if item == nil {
		return nil
	}
	return item.(*entry).close()
}

// Close closes every cached descriptor. The catalog is empty afterwards.
func (c *Catalog) Close() error {
	var firstErr error
	count := c.entries.Len()
	for c.entries.Len() > 0 {
		item := c.entries.DeleteMin()
		if err := item.(*entry).close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	log.Printf("closed %d type descriptors of session %s", count, c.sess.ID())
	return firstErr
}

func (e *entry) close() error {
	if err := e.typ.Close(); err != nil {
		e.describe.Free()
		return errors.Wrapf(err, "couldn't close type %s", e.name)
	}
	if err := e.describe.Free(); err != nil {
		return errors.Wrapf(err, "couldn't free describe handle of %s", e.name)
	}
	return nil
}
