// Package scalar converts scalar attribute values of object instances into native values.
package scalar

import (
	"github.com/pkg/errors"

	"github.com/cube2222/ocitdo/native"
	"github.com/cube2222/ocitdo/oci"
)

// Decoder is the default scalar decoder. It reads the value behind raw through
// the session's Memory and never retains raw.
type Decoder struct{}

func (Decoder) DecodeScalar(sess oci.Session, code oci.TypeCode, raw oci.Pointer) (native.Value, error) {
	switch code {
	case oci.TypeCodeChar, oci.TypeCodeVarchar, oci.TypeCodeVarchar2:
		str, err := sess.ReadString(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read string")
		}
		return native.NewString(string(str)), nil

	case oci.TypeCodeRaw:
		data, err := sess.ReadString(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read raw")
		}
		return native.NewBytes(data), nil

	case oci.TypeCodeNumber, oci.TypeCodeDecimal:
		number, err := sess.ReadNumber(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read number")
		}
		return native.NewNumber(number), nil

	case oci.TypeCodeInteger, oci.TypeCodeSmallint:
		number, err := sess.ReadNumber(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read integer")
		}
		return native.NewInt(int(number.IntPart())), nil

	case oci.TypeCodeReal, oci.TypeCodeDouble, oci.TypeCodeFloat:
		number, err := sess.ReadNumber(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read float")
		}
		f, _ := number.Float64()
		return native.NewFloat(f), nil

	case oci.TypeCodeCLOB, oci.TypeCodeNCLOB, oci.TypeCodeBLOB, oci.TypeCodeBFILE:
		locator, err := sess.ReadLobLocator(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrapf(err, "couldn't read %s locator", code)
		}
		return native.NewLob(native.LobLocator{
			Kind:    code,
			Locator: locator,
			Session: sess.ID(),
		}), nil

	case oci.TypeCodeDate:
		t, err := sess.ReadDate(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read date")
		}
		return native.NewTime(t), nil

	case oci.TypeCodeTimestamp, oci.TypeCodeTimestampTZ, oci.TypeCodeTimestampLTZ:
		t, err := sess.ReadDateTime(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read timestamp")
		}
		return native.NewTime(t), nil

	case oci.TypeCodeIntervalYM:
		years, months, err := sess.ReadIntervalYM(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read interval year to month")
		}
		return native.NewIntervalYM(years, months), nil

	case oci.TypeCodeIntervalDS:
		d, err := sess.ReadIntervalDS(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read interval day to second")
		}
		return native.NewDuration(d), nil

	case oci.TypeCodeBFloat:
		f, err := sess.ReadFloat32(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read binary float")
		}
		return native.NewFloat(float64(f)), nil

	case oci.TypeCodeBDouble:
		f, err := sess.ReadFloat64(raw)
		if err != nil {
			return native.ZeroValue, errors.Wrap(err, "couldn't read binary double")
		}
		return native.NewFloat(f), nil
	}

	return native.ZeroValue, &oci.UnsupportedError{Feature: "typecode " + code.String()}
}
