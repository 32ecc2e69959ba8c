package oci

import "fmt"

// TypeCode is an object type attribute type code as reported by the client library.
type TypeCode uint16

const (
	TypeCodeVarchar      TypeCode = 1
	TypeCodeNumber       TypeCode = 2
	TypeCodeInteger      TypeCode = 3
	TypeCodeFloat        TypeCode = 4
	TypeCodeDecimal      TypeCode = 7
	TypeCodeVarchar2     TypeCode = 9
	TypeCodeDate         TypeCode = 12
	TypeCodeReal         TypeCode = 21
	TypeCodeDouble       TypeCode = 22
	TypeCodeOpaque       TypeCode = 58
	TypeCodeRaw          TypeCode = 95
	TypeCodeChar         TypeCode = 96
	TypeCodeBFloat       TypeCode = 100
	TypeCodeBDouble      TypeCode = 101
	TypeCodeObject       TypeCode = 108
	TypeCodeRef          TypeCode = 110
	TypeCodeCLOB         TypeCode = 112
	TypeCodeBLOB         TypeCode = 113
	TypeCodeBFILE        TypeCode = 114
	TypeCodeNamedColl    TypeCode = 122
	TypeCodeTimestamp    TypeCode = 187
	TypeCodeTimestampTZ  TypeCode = 188
	TypeCodeIntervalYM   TypeCode = 189
	TypeCodeIntervalDS   TypeCode = 190
	TypeCodeTimestampLTZ TypeCode = 232
	TypeCodeSmallint     TypeCode = 246
	TypeCodeVarray       TypeCode = 247
	TypeCodeTable        TypeCode = 248
	TypeCodeNCLOB        TypeCode = 288
)

var typeCodeNames = map[TypeCode]string{
	TypeCodeVarchar:      "VARCHAR",
	TypeCodeNumber:       "NUMBER",
	TypeCodeInteger:      "INTEGER",
	TypeCodeFloat:        "FLOAT",
	TypeCodeDecimal:      "DECIMAL",
	TypeCodeVarchar2:     "VARCHAR2",
	TypeCodeDate:         "DATE",
	TypeCodeReal:         "REAL",
	TypeCodeDouble:       "DOUBLE",
	TypeCodeOpaque:       "OPAQUE",
	TypeCodeRaw:          "RAW",
	TypeCodeChar:         "CHAR",
	TypeCodeBFloat:       "BINARY_FLOAT",
	TypeCodeBDouble:      "BINARY_DOUBLE",
	TypeCodeObject:       "OBJECT",
	TypeCodeRef:          "REF",
	TypeCodeCLOB:         "CLOB",
	TypeCodeBLOB:         "BLOB",
	TypeCodeBFILE:        "BFILE",
	TypeCodeNamedColl:    "NAMED COLLECTION",
	TypeCodeTimestamp:    "TIMESTAMP",
	TypeCodeTimestampTZ:  "TIMESTAMP WITH TIME ZONE",
	TypeCodeIntervalYM:   "INTERVAL YEAR TO MONTH",
	TypeCodeIntervalDS:   "INTERVAL DAY TO SECOND",
	TypeCodeTimestampLTZ: "TIMESTAMP WITH LOCAL TIME ZONE",
	TypeCodeSmallint:     "SMALLINT",
	TypeCodeVarray:       "VARRAY",
	TypeCodeTable:        "TABLE",
	TypeCodeNCLOB:        "NCLOB",
}

func (c TypeCode) String() string {
	if name, ok := typeCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("TypeCode(%d)", uint16(c))
}

// ParseTypeCode resolves a type code by the name String returns.
func ParseTypeCode(name string) (TypeCode, bool) {
	for code, codeName := range typeCodeNames {
		if codeName == name {
			return code, true
		}
	}
	return 0, false
}

// IsNested reports whether attributes of this type code are described by their own TDO.
func (c TypeCode) IsNested() bool {
	return c == TypeCodeObject || c == TypeCodeOpaque
}

// CharsetForm is the character set form of a character attribute.
type CharsetForm uint8

const (
	CharsetFormImplicit CharsetForm = 1
	CharsetFormNChar    CharsetForm = 2
)

// DataType is an external bind data type.
type DataType uint16

// SQLTNamedType is the bind data type for named (object and opaque) types.
const SQLTNamedType DataType = 108
