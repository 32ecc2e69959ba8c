package tdo

import (
	"github.com/pkg/errors"

	"github.com/cube2222/ocitdo/native"
	"github.com/cube2222/ocitdo/oci"
	"github.com/cube2222/ocitdo/registry"
	"github.com/cube2222/ocitdo/scalar"
	"github.com/cube2222/ocitdo/xmldoc"
)

// ScalarDecoder converts one non-object attribute value.
type ScalarDecoder interface {
	DecodeScalar(sess oci.Session, code oci.TypeCode, raw oci.Pointer) (native.Value, error)
}

// XMLDecoder converts one XMLTYPE node.
type XMLDecoder interface {
	DecodeXML(ctx oci.XMLContext, node oci.Pointer) (native.Value, error)
}

type Decoder struct {
	sess    oci.Session
	scalars ScalarDecoder
	xml     XMLDecoder
}

type DecoderOption func(*Decoder)

func WithScalarDecoder(scalars ScalarDecoder) DecoderOption {
	return func(d *Decoder) {
		d.scalars = scalars
	}
}

func WithXMLDecoder(xml XMLDecoder) DecoderOption {
	return func(d *Decoder) {
		d.xml = xml
	}
}

func NewDecoder(sess oci.Session, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		sess:    sess,
		scalars: scalar.Decoder{},
		xml:     xmldoc.Decoder{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecodeInstance decodes one instance of t with the default scalar and XML decoders.
func DecodeInstance(sess oci.Session, t *TypeDescriptor, instance, nullStruct oci.Pointer) (native.Value, error) {
	return NewDecoder(sess).Decode(t, instance, nullStruct)
}

// Decode materializes instance as a value of t's class. A null structure
// marking the whole value null yields a null value.
func (d *Decoder) Decode(t *TypeDescriptor, instance, nullStruct oci.Pointer) (native.Value, error) {
	null, err := d.sess.IsNull(nullStruct)
	if err != nil {
		return native.ZeroValue, errors.Wrapf(err, "couldn't get null indicator of %s", t.QualifiedName())
	}
	if null {
		return native.NewNull(), nil
	}
	if t.Opaque != OpaqueNone {
		return d.DecodeOpaque(t, instance)
	}
	return d.decodeObject(t, instance, nullStruct)
}

func (d *Decoder) decodeObject(t *TypeDescriptor, instance, nullStruct oci.Pointer) (native.Value, error) {
	builder := t.Class.New(registry.Shape{
		Schema:    t.SchemaName,
		Name:      t.TypeName,
		FieldKeys: t.FieldKeys(),
	})

	for i := range t.Attributes {
		attr := &t.Attributes[i]
		value, err := d.decodeAttribute(t, attr, instance, nullStruct)
		if err != nil {
			return native.ZeroValue, err
		}
		if err := builder.SetField(attr.FieldKey, value); err != nil {
			return native.ZeroValue, errors.Wrapf(err, "couldn't set field %s of %s", attr.FieldKey, t.QualifiedName())
		}
	}

	out, err := builder.Finalize()
	if err != nil {
		return native.ZeroValue, errors.Wrapf(err, "couldn't initialize %s instance", t.Class.Name())
	}
	return out, nil
}

func (d *Decoder) decodeAttribute(t *TypeDescriptor, attr *Attribute, instance, nullStruct oci.Pointer) (native.Value, error) {
	live, err := d.sess.GetAttr(instance, nullStruct, t.handle, []byte(attr.Name))
	if err != nil {
		return native.ZeroValue, errors.Wrapf(err, "couldn't get attribute %s of %s", attr.Name, t.QualifiedName())
	}
	if live.Null {
		return native.NewNull(), nil
	}

	code, err := d.sess.TypeCodeOf(live.Type)
	if err != nil {
		return native.ZeroValue, errors.Wrapf(err, "couldn't get type code of attribute %s", attr.Name)
	}

	switch code {
	case oci.TypeCodeObject:
		if attr.Type == nil || attr.Type.Opaque != OpaqueNone {
			return native.ZeroValue, consistencyError(t, attr, code)
		}
		value, err := d.decodeObject(attr.Type, live.Value, live.NullStruct)
		if err != nil {
			return native.ZeroValue, errors.Wrapf(err, "couldn't decode attribute %s", attr.Name)
		}
		return value, nil

	case oci.TypeCodeOpaque:
		if attr.Type == nil || attr.Type.Opaque == OpaqueNone {
			return native.ZeroValue, consistencyError(t, attr, code)
		}
		value, err := d.DecodeOpaque(attr.Type, live.Value)
		if err != nil {
			return native.ZeroValue, errors.Wrapf(err, "couldn't decode attribute %s", attr.Name)
		}
		return value, nil

	case oci.TypeCodeCLOB:
		if attr.Code == oci.TypeCodeNCLOB {
			code = oci.TypeCodeNCLOB
		}
	}

	if attr.Type != nil || code != attr.Code {
		return native.ZeroValue, consistencyError(t, attr, code)
	}
	value, err := d.scalars.DecodeScalar(d.sess, code, live.Value)
	if err != nil {
		return native.ZeroValue, errors.Wrapf(err, "couldn't decode attribute %s", attr.Name)
	}
	return value, nil
}

func consistencyError(t *TypeDescriptor, attr *Attribute, actual oci.TypeCode) error {
	return &oci.ConsistencyError{
		Attribute: t.QualifiedName() + "." + attr.Name,
		Described: attr.Code,
		Actual:    actual,
	}
}
