package ocimem

import (
	"fmt"

	"github.com/cube2222/ocitdo/oci"
)

type typeParam struct {
	lib *Library
	ref oci.Ref
	typ *Type
}

func (p *typeParam) TypeCode() (oci.TypeCode, error) {
	return p.typ.Code, nil
}

func (p *typeParam) TypeRef() (oci.Ref, error) {
	return p.ref, nil
}

func (p *typeParam) SchemaName() ([]byte, error) {
	return []byte(p.typ.Schema), nil
}

func (p *typeParam) Name() ([]byte, error) {
	return []byte(p.typ.Name), nil
}

func (p *typeParam) NumTypeAttrs() (int, error) {
	return len(p.typ.Attributes), nil
}

func (p *typeParam) TypeAttr(i int) (oci.Param, error) {
	if i < 0 || i >= len(p.typ.Attributes) {
		return nil, &oci.Error{Op: "OCIParamGet", Code: 24334, Message: fmt.Sprintf("no descriptor for position %d", i+1)}
	}
	return &attrParam{
		lib:  p.lib,
		attr: p.typ.Attributes[i],
	}, nil
}

func (p *typeParam) CharsetForm() (oci.CharsetForm, error) {
	return 0, &oci.Error{Op: "OCIAttrGet", Code: 24328, Message: "charset form is only available on attributes"}
}

type attrParam struct {
	lib  *Library
	attr Attribute
}

func (p *attrParam) TypeCode() (oci.TypeCode, error) {
	if p.attr.Code == oci.TypeCodeNCLOB {
		return oci.TypeCodeCLOB, nil
	}
	return p.attr.Code, nil
}

func (p *attrParam) TypeRef() (oci.Ref, error) {
	if !p.attr.Code.IsNested() {
		return 0, &oci.Error{Op: "OCIAttrGet", Code: 24328, Message: fmt.Sprintf("attribute %s of type %s has no type reference", p.attr.Name, p.attr.Code)}
	}
	ref, ok := p.lib.refs[p.attr.TypeName]
	if !ok {
		return 0, &oci.Error{Op: "OCIAttrGet", Code: 4043, Message: fmt.Sprintf("object %s does not exist", p.attr.TypeName)}
	}
	return ref, nil
}

func (p *attrParam) SchemaName() ([]byte, error) {
	schema, _ := splitQualifiedName(p.attr.TypeName)
	return []byte(schema), nil
}

func (p *attrParam) Name() ([]byte, error) {
	return []byte(p.attr.Name), nil
}

func (p *attrParam) NumTypeAttrs() (int, error) {
	return 0, nil
}

func (p *attrParam) TypeAttr(i int) (oci.Param, error) {
	return nil, &oci.Error{Op: "OCIParamGet", Code: 24334, Message: fmt.Sprintf("no descriptor for position %d", i+1)}
}

func (p *attrParam) CharsetForm() (oci.CharsetForm, error) {
	if p.attr.Code == oci.TypeCodeNCLOB {
		return oci.CharsetFormNChar, nil
	}
	return oci.CharsetFormImplicit, nil
}
