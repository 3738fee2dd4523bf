package recordlog

import (
	"bytes"
	"encoding/binary"

	"github.com/juju/errors"
)

// DefaultPathFieldLen is the on-disk width of the path field.
const DefaultPathFieldLen = 512

// sizeFieldLen is the width of the little-endian int64 size field.
const sizeFieldLen = 8

type SizeRecord struct {
	SizeKB int64
	Path   string
}

// RecordWidth is the exact number of bytes every record occupies on disk.
func RecordWidth(pathFieldLen int) int {
	return sizeFieldLen + pathFieldLen
}

// EncodeRecord lays the record out as
//
//	[0:8)        SizeKB, int64 little-endian
//	[8:8+L)      Path bytes, NUL terminated, zero padded
//
// Paths of L bytes or more have no room for the terminator and are rejected.
func EncodeRecord(rec SizeRecord, pathFieldLen int) ([]byte, error) {
	if len(rec.Path) >= pathFieldLen {
		return nil, errors.NotValidf("path of %d bytes for a %d byte field", len(rec.Path), pathFieldLen)
	}
	if bytes.IndexByte([]byte(rec.Path), 0) >= 0 {
		return nil, errors.NotValidf("path with NUL byte")
	}

	buf := make([]byte, RecordWidth(pathFieldLen))
	binary.LittleEndian.PutUint64(buf[:sizeFieldLen], uint64(rec.SizeKB))
	copy(buf[sizeFieldLen:], rec.Path)
	return buf, nil
}

// DecodeRecord reads one record from data, which must be exactly one record wide.
func DecodeRecord(data []byte, pathFieldLen int) (SizeRecord, error) {
	if len(data) != RecordWidth(pathFieldLen) {
		return SizeRecord{}, errors.NotValidf("record of %d bytes, want %d", len(data), RecordWidth(pathFieldLen))
	}

	field := data[sizeFieldLen:]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}

	return SizeRecord{
		SizeKB: int64(binary.LittleEndian.Uint64(data[:sizeFieldLen])),
		Path:   string(field),
	}, nil
}
