package ocimem

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cube2222/ocitdo/oci"
)

// NewInstance creates an instance of the named type from attribute values keyed by attribute name.
// Missing attributes and nil values are null. Nested objects are given as maps, XMLTYPE values as strings.
func (s *Session) NewInstance(qualifiedName string, values map[string]interface{}) (oci.Pointer, oci.Pointer, error) {
	ref, ok := s.lib.refs[qualifiedName]
	if !ok {
		return 0, 0, errors.Errorf("type %s not found", qualifiedName)
	}
	t := s.lib.types[ref]
	if t.Code == oci.TypeCodeOpaque {
		return 0, 0, errors.Errorf("type %s is opaque, use NewOpaque", qualifiedName)
	}
	ptr, nsPtr := s.newInstance(t)
	if err := s.Assign(ptr, values); err != nil {
		return 0, 0, err
	}
	return ptr, nsPtr, nil
}

// NewOpaque stores the payload of an opaque instance, for XMLTYPE the document text.
func (s *Session) NewOpaque(payload string) (oci.Pointer, error) {
	return s.writeCell([]byte(payload))
}

// SetOpaque overwrites the payload of an opaque instance.
func (s *Session) SetOpaque(ptr oci.Pointer, payload string) error {
	if _, ok := s.cells[ptr]; !ok {
		return errors.Errorf("invalid opaque instance %#x", uintptr(ptr))
	}
	data, err := msgpack.Marshal([]byte(payload))
	if err != nil {
		return errors.Wrap(err, "couldn't encode opaque payload")
	}
	s.cells[ptr] = data
	return nil
}

// Assign overwrites attributes of an existing instance.
func (s *Session) Assign(ptr oci.Pointer, values map[string]interface{}) error {
	inst, ok := s.instances[ptr]
	if !ok {
		return errors.Errorf("invalid instance %#x", uintptr(ptr))
	}
	ns := s.nullStructs[inst.nulls]

	for name, value := range values {
		i := inst.typ.attributeIndex(name)
		if i == -1 {
			return errors.Errorf("type %s has no attribute %s", inst.typ.QualifiedName(), name)
		}
		attr := inst.typ.Attributes[i]
		if value == nil {
			ns.attrs[i] = true
			continue
		}

		if attr.Code == oci.TypeCodeObject {
			fields, ok := value.(map[string]interface{})
			if !ok {
				return errors.Errorf("attribute %s expects a map, got %T", name, value)
			}
			if inst.values[i] == 0 {
				childPtr, childNs, err := s.NewInstance(attr.TypeName, fields)
				if err != nil {
					return errors.Wrapf(err, "couldn't create attribute %s", name)
				}
				inst.values[i] = childPtr
				ns.children[i] = childNs
			} else if err := s.Assign(inst.values[i], fields); err != nil {
				return errors.Wrapf(err, "couldn't assign attribute %s", name)
			}
			ns.attrs[i] = false
			continue
		}

		cell, err := s.encodeScalar(attr.Code, value)
		if err != nil {
			return errors.Wrapf(err, "couldn't encode attribute %s", name)
		}
		inst.values[i] = cell
		ns.attrs[i] = false
	}
	return nil
}

// SetNull marks the value behind a null structure as null or not null as a whole.
func (s *Session) SetNull(nsPtr oci.Pointer, null bool) error {
	ns, ok := s.nullStructs[nsPtr]
	if !ok {
		return errors.Errorf("invalid null structure %#x", uintptr(nsPtr))
	}
	ns.null = null
	return nil
}

func (s *Session) encodeScalar(code oci.TypeCode, value interface{}) (oci.Pointer, error) {
	switch code {
	case oci.TypeCodeChar, oci.TypeCodeVarchar, oci.TypeCodeVarchar2, oci.TypeCodeRaw:
		switch value := value.(type) {
		case []byte:
			return s.writeCell(value)
		case string:
			return s.writeCell([]byte(value))
		default:
			return s.writeCell([]byte(fmt.Sprint(value)))
		}

	case oci.TypeCodeNumber, oci.TypeCodeDecimal, oci.TypeCodeInteger, oci.TypeCodeSmallint,
		oci.TypeCodeReal, oci.TypeCodeDouble, oci.TypeCodeFloat:
		number, err := toDecimal(value)
		if err != nil {
			return 0, err
		}
		return s.writeCell(number.String())

	case oci.TypeCodeBFloat:
		number, err := toDecimal(value)
		if err != nil {
			return 0, err
		}
		f, _ := number.Float64()
		return s.writeCell(float32(f))

	case oci.TypeCodeBDouble:
		number, err := toDecimal(value)
		if err != nil {
			return 0, err
		}
		f, _ := number.Float64()
		return s.writeCell(f)

	case oci.TypeCodeDate, oci.TypeCodeTimestamp, oci.TypeCodeTimestampTZ, oci.TypeCodeTimestampLTZ:
		t, err := toTime(value)
		if err != nil {
			return 0, err
		}
		return s.writeCell(t.Format(time.RFC3339Nano))

	case oci.TypeCodeIntervalYM:
		years, months, err := toYearMonth(value)
		if err != nil {
			return 0, err
		}
		return s.writeCell([]int{years, months})

	case oci.TypeCodeIntervalDS:
		d, err := toDuration(value)
		if err != nil {
			return 0, err
		}
		return s.writeCell(int64(d))

	case oci.TypeCodeCLOB, oci.TypeCodeNCLOB, oci.TypeCodeBLOB, oci.TypeCodeBFILE:
		var contents []byte
		switch value := value.(type) {
		case []byte:
			contents = value
		default:
			contents = []byte(fmt.Sprint(value))
		}
		locator, err := s.writeCell(contents)
		if err != nil {
			return 0, err
		}
		return s.writeCell(uint64(locator))

	case oci.TypeCodeOpaque:
		str, ok := value.(string)
		if !ok {
			return 0, errors.Errorf("opaque values must be given as strings, got %T", value)
		}
		return s.NewOpaque(str)
	}

	return 0, errors.Errorf("can't store values of type %s", code)
}

func toDecimal(value interface{}) (decimal.Decimal, error) {
	switch value := value.(type) {
	case decimal.Decimal:
		return value, nil
	case int:
		return decimal.NewFromInt(int64(value)), nil
	case int64:
		return decimal.NewFromInt(value), nil
	case float32:
		return decimal.NewFromFloat32(value), nil
	case float64:
		return decimal.NewFromFloat(value), nil
	case string:
		out, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Decimal{}, errors.Wrapf(err, "invalid number %q", value)
		}
		return out, nil
	}
	return decimal.Decimal{}, errors.Errorf("can't use %T as a number", value)
}

func toTime(value interface{}) (time.Time, error) {
	switch value := value.(type) {
	case time.Time:
		return value, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
		}
		return time.Time{}, errors.Errorf("invalid datetime %q", value)
	}
	return time.Time{}, errors.Errorf("can't use %T as a datetime", value)
}

// toYearMonth accepts a month count or "Y-M" with an optional sign.
func toYearMonth(value interface{}) (int, int, error) {
	switch value := value.(type) {
	case int:
		return value / 12, value % 12, nil
	case string:
		sign := 1
		str := value
		if strings.HasPrefix(str, "-") {
			sign = -1
			str = str[1:]
		}
		str = strings.TrimPrefix(str, "+")
		parts := strings.SplitN(str, "-", 2)
		if len(parts) != 2 {
			return 0, 0, errors.Errorf("invalid year to month interval %q", value)
		}
		years, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, errors.Wrapf(err, "invalid year to month interval %q", value)
		}
		months, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, errors.Wrapf(err, "invalid year to month interval %q", value)
		}
		return sign * years, sign * months, nil
	}
	return 0, 0, errors.Errorf("can't use %T as a year to month interval", value)
}

func toDuration(value interface{}) (time.Duration, error) {
	switch value := value.(type) {
	case time.Duration:
		return value, nil
	case string:
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid day to second interval %q", value)
		}
		return d, nil
	}
	return 0, errors.Errorf("can't use %T as a day to second interval", value)
}
