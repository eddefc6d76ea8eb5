package gds

import (
	"encoding/binary"
	"io"

	"github.com/wafertools/wafermap/pkg/errors"
)

// Record is one decoded GDSII record.
type Record struct {
	Type     RecordType
	DataType DataType
	Data     []byte
}

// ReadRecords decodes a GDSII stream into its record sequence. It rejects
// truncated streams and records with odd total length.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	var hdr [4]byte

	for {
		_, err := io.ReadFull(r, hdr[:])
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read record header")
		}

		length := int(binary.BigEndian.Uint16(hdr[:2]))
		if length < 4 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "record length %d below header size", length)
		}
		if length%2 != 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "odd record length %d", length)
		}

		data := make([]byte, length-4)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read record payload")
		}

		records = append(records, Record{
			Type:     RecordType(hdr[2]),
			DataType: DataType(hdr[3]),
			Data:     data,
		})

		if RecordType(hdr[2]) == RecEndLib {
			return records, nil
		}
	}
}

// Int16s decodes the payload as big-endian signed 16-bit integers.
func (r Record) Int16s() []int16 {
	out := make([]int16, 0, len(r.Data)/2)
	for i := 0; i+2 <= len(r.Data); i += 2 {
		out = append(out, int16(binary.BigEndian.Uint16(r.Data[i:])))
	}
	return out
}

// Int32s decodes the payload as big-endian signed 32-bit integers.
func (r Record) Int32s() []int32 {
	out := make([]int32, 0, len(r.Data)/4)
	for i := 0; i+4 <= len(r.Data); i += 4 {
		out = append(out, int32(binary.BigEndian.Uint32(r.Data[i:])))
	}
	return out
}

// Reals decodes the payload as GDSII 8-byte reals.
func (r Record) Reals() []float64 {
	out := make([]float64, 0, len(r.Data)/8)
	for i := 0; i+8 <= len(r.Data); i += 8 {
		out = append(out, real8ToFloat(r.Data[i:i+8]))
	}
	return out
}

// Text decodes the payload as a NUL-padded ASCII string.
func (r Record) Text() string {
	data := r.Data
	for len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	return string(data)
}

// CountBoundaries returns the number of BOUNDARY elements in a record
// sequence.
func CountBoundaries(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Type == RecBoundary {
			n++
		}
	}
	return n
}
