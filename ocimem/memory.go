package ocimem

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cube2222/ocitdo/oci"
)

// Scalar values live in msgpack-encoded cells addressed by pointers.

func (s *Session) writeCell(value interface{}) (oci.Pointer, error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return 0, errors.Wrap(err, "couldn't encode memory cell")
	}
	p := s.lib.alloc()
	s.cells[p] = data
	return p, nil
}

func (s *Session) readCell(op string, p oci.Pointer, out interface{}) error {
	data, ok := s.cells[p]
	if !ok {
		return &oci.Error{Op: op, Code: 21560, Message: fmt.Sprintf("invalid address %#x", uintptr(p))}
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return &oci.Error{Op: op, Code: 21525, Message: fmt.Sprintf("invalid value at %#x: %s", uintptr(p), err)}
	}
	return nil
}

func (s *Session) ReadString(p oci.Pointer) ([]byte, error) {
	var out []byte
	if err := s.readCell("OCIStringPtr", p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) ReadNumber(p oci.Pointer) (decimal.Decimal, error) {
	var str string
	if err := s.readCell("OCINumberToText", p, &str); err != nil {
		return decimal.Decimal{}, err
	}
	out, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, &oci.Error{Op: "OCINumberToText", Code: 1722, Message: fmt.Sprintf("invalid number %q", str)}
	}
	return out, nil
}

func (s *Session) readTime(op string, p oci.Pointer) (time.Time, error) {
	var str string
	if err := s.readCell(op, p, &str); err != nil {
		return time.Time{}, err
	}
	out, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return time.Time{}, &oci.Error{Op: op, Code: 1858, Message: fmt.Sprintf("invalid datetime %q", str)}
	}
	return out, nil
}

func (s *Session) ReadDate(p oci.Pointer) (time.Time, error) {
	return s.readTime("OCIDateGetDate", p)
}

func (s *Session) ReadDateTime(p oci.Pointer) (time.Time, error) {
	return s.readTime("OCIDateTimeGetDate", p)
}

func (s *Session) ReadIntervalYM(p oci.Pointer) (int, int, error) {
	var out []int
	if err := s.readCell("OCIIntervalGetYearMonth", p, &out); err != nil {
		return 0, 0, err
	}
	if len(out) != 2 {
		return 0, 0, &oci.Error{Op: "OCIIntervalGetYearMonth", Code: 1867, Message: fmt.Sprintf("invalid interval at %#x", uintptr(p))}
	}
	return out[0], out[1], nil
}

func (s *Session) ReadIntervalDS(p oci.Pointer) (time.Duration, error) {
	var out int64
	if err := s.readCell("OCIIntervalGetDaySecond", p, &out); err != nil {
		return 0, err
	}
	return time.Duration(out), nil
}

func (s *Session) ReadFloat32(p oci.Pointer) (float32, error) {
	var out float32
	if err := s.readCell("OCIAttrGet", p, &out); err != nil {
		return 0, err
	}
	return out, nil
}

func (s *Session) ReadFloat64(p oci.Pointer) (float64, error) {
	var out float64
	if err := s.readCell("OCIAttrGet", p, &out); err != nil {
		return 0, err
	}
	return out, nil
}

func (s *Session) ReadLobLocator(p oci.Pointer) (oci.Pointer, error) {
	var out uint64
	if err := s.readCell("OCILobLocatorAssign", p, &out); err != nil {
		return 0, err
	}
	return oci.Pointer(out), nil
}

// LobContents returns the data stored behind a LOB locator.
func (s *Session) LobContents(locator oci.Pointer) ([]byte, error) {
	var out []byte
	if err := s.readCell("OCILobRead", locator, &out); err != nil {
		return nil, err
	}
	return out, nil
}
