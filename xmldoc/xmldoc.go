// Package xmldoc turns XMLTYPE instances into XML documents.
package xmldoc

import (
	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"github.com/cube2222/ocitdo/native"
	"github.com/cube2222/ocitdo/oci"
)

type Decoder struct{}

func (Decoder) DecodeXML(ctx oci.XMLContext, node oci.Pointer) (native.Value, error) {
	data, err := ctx.SerializeNode(node)
	if err != nil {
		return native.ZeroValue, errors.Wrap(err, "couldn't serialize xml node")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return native.ZeroValue, errors.Wrap(err, "couldn't parse xml document")
	}
	return native.NewXML(doc), nil
}

// Decode serializes node through ctx and parses the result.
func Decode(ctx oci.XMLContext, node oci.Pointer) (native.Value, error) {
	return Decoder{}.DecodeXML(ctx, node)
}
