package tdo

import (
	"log"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cube2222/ocitdo/oci"
	"github.com/cube2222/ocitdo/registry"
)

// Describe builds the descriptor of the object or opaque type param describes.
// Nested attribute types are described recursively. The class is looked up in
// reg by bare type name and defaults to registry.Record; a nil reg uses
// registry.Default.
//
// On failure everything acquired so far is released before returning.
func Describe(sess oci.Session, param oci.Param, reg *registry.Mapping) (*TypeDescriptor, error) {
	if reg == nil {
		reg = registry.Default
	}
	return describe(sess, param, reg, nil)
}

func describe(sess oci.Session, param oci.Param, reg *registry.Mapping, owned oci.Describe) (out *TypeDescriptor, err error) {
	t := &TypeDescriptor{
		sess:     sess,
		describe: owned,
	}
	defer func() {
		if err != nil {
			t.Close()
		}
	}()

	code, err := param.TypeCode()
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get type code")
	}
	if code == oci.TypeCodeOpaque {
		if err := t.initOpaque(param); err != nil {
			return nil, err
		}
	} else if code != oci.TypeCodeObject {
		return nil, oci.NewError("describe", "%s is not an object type", code)
	}

	ref, err := param.TypeRef()
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get type reference")
	}
	handle, err := sess.Pin(ref)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't pin type")
	}
	t.handle = handle

	schema, err := param.SchemaName()
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get schema name")
	}
	name, err := param.Name()
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get type name")
	}
	t.SchemaName = string(schema)
	t.TypeName = string(name)
	t.Class = reg.Resolve(t.TypeName)

	if t.Opaque != OpaqueNone {
		log.Printf("described opaque type %s as %s", t.QualifiedName(), t.Opaque)
		return t, nil
	}

	count, err := param.NumTypeAttrs()
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't get attribute count of %s", t.QualifiedName())
	}
	lower := cases.Lower(language.Und)
	t.Attributes = make([]Attribute, 0, count)
	for i := 0; i < count; i++ {
		attrParam, err := param.TypeAttr(i)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't get attribute %d of %s", i, t.QualifiedName())
		}
		attr, err := describeAttribute(sess, attrParam, reg)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't describe attribute %d of %s", i, t.QualifiedName())
		}
		attr.FieldKey = lower.String(attr.Name)
		t.Attributes = append(t.Attributes, attr)
	}

	log.Printf("described type %s with %d attributes", t.QualifiedName(), len(t.Attributes))
	return t, nil
}

func (t *TypeDescriptor) initOpaque(param oci.Param) error {
	name, err := param.Name()
	if err != nil {
		return errors.Wrap(err, "couldn't get opaque type name")
	}
	kind, ok := opaqueKinds[string(name)]
	if !ok {
		return oci.NewError("describe", "unknown opaque datatype %s", name)
	}
	if kind != OpaqueXMLType {
		return &oci.UnsupportedError{Feature: "SYS." + string(name)}
	}

	xmlSess, ok := t.sess.(oci.XMLSession)
	if !ok {
		return &oci.UnsupportedError{Feature: "SYS.XMLTYPE"}
	}
	ctx, err := xmlSess.InitXMLContext()
	if err != nil {
		return errors.Wrap(err, "couldn't initialize xml context")
	}
	t.xmlCtx = ctx
	t.Opaque = kind
	return nil
}

func describeAttribute(sess oci.Session, param oci.Param, reg *registry.Mapping) (Attribute, error) {
	name, err := param.Name()
	if err != nil {
		return Attribute{}, errors.Wrap(err, "couldn't get attribute name")
	}
	attr := Attribute{Name: string(name)}

	code, err := param.TypeCode()
	if err != nil {
		return Attribute{}, errors.Wrapf(err, "couldn't get type code of %s", attr.Name)
	}

	switch code {
	case oci.TypeCodeObject, oci.TypeCodeOpaque:
		ref, err := param.TypeRef()
		if err != nil {
			return Attribute{}, errors.Wrapf(err, "couldn't get type reference of %s", attr.Name)
		}
		d, err := sess.DescribeAny(ref)
		if err != nil {
			return Attribute{}, errors.Wrapf(err, "couldn't describe type of %s", attr.Name)
		}
		nestedParam, err := d.Param()
		if err != nil {
			d.Free()
			return Attribute{}, errors.Wrapf(err, "couldn't get described type of %s", attr.Name)
		}
		nested, err := describe(sess, nestedParam, reg, d)
		if err != nil {
			return Attribute{}, errors.Wrapf(err, "couldn't describe type of %s", attr.Name)
		}
		attr.Type = nested
		attr.Code = code

	case oci.TypeCodeCLOB:
		form, err := param.CharsetForm()
		if err != nil {
			return Attribute{}, errors.Wrapf(err, "couldn't get charset form of %s", attr.Name)
		}
		attr.Code = oci.TypeCodeCLOB
		if form == oci.CharsetFormNChar {
			attr.Code = oci.TypeCodeNCLOB
		}

	default:
		attr.Code = code
	}

	return attr, nil
}
