package tdo

import (
	"github.com/pkg/errors"

	"github.com/cube2222/ocitdo/native"
	"github.com/cube2222/ocitdo/oci"
)

// DecodeOpaque decodes an instance of an opaque type. Descriptors of an
// unrecognized kind decode to null.
func (d *Decoder) DecodeOpaque(t *TypeDescriptor, instance oci.Pointer) (native.Value, error) {
	switch t.Opaque {
	case OpaqueXMLType:
		if t.xmlCtx == nil {
			return native.ZeroValue, &oci.UnsupportedError{Feature: "SYS.XMLTYPE"}
		}
		value, err := d.xml.DecodeXML(t.xmlCtx, instance)
		if err != nil {
			return native.ZeroValue, errors.Wrapf(err, "couldn't decode %s", t.QualifiedName())
		}
		return value, nil
	case OpaqueAnyData, OpaqueAnyType, OpaqueAnyDataSet:
		return native.ZeroValue, &oci.UnsupportedError{Feature: "SYS." + t.Opaque.String()}
	}
	return native.NewNull(), nil
}
