// Package gds implements the binary GDSII stream format: an encoder that
// serializes a wafer.Layout into a library/structure/element record stream,
// a minimal reader used for verification, and KLayout layer-property (.lyp)
// import for resolving layer assignments.
//
// Every record is a 2-byte big-endian length (header included), a record
// type byte, a data type byte, and the payload. Record lengths are always
// even; string payloads are NUL-padded.
package gds

// RecordType identifies a GDSII record.
type RecordType byte

// Record types emitted and understood by this package.
const (
	RecHeader   RecordType = 0x00
	RecBgnLib   RecordType = 0x01
	RecLibName  RecordType = 0x02
	RecUnits    RecordType = 0x03
	RecEndLib   RecordType = 0x04
	RecBgnStr   RecordType = 0x05
	RecStrName  RecordType = 0x06
	RecEndStr   RecordType = 0x07
	RecBoundary RecordType = 0x08
	RecLayer    RecordType = 0x0D
	RecDatatype RecordType = 0x0E
	RecXY       RecordType = 0x10
	RecEndEl    RecordType = 0x11
)

// DataType identifies the payload encoding of a record.
type DataType byte

// Payload data types.
const (
	DataNone   DataType = 0x00
	DataInt16  DataType = 0x02
	DataInt32  DataType = 0x03
	DataReal8  DataType = 0x05
	DataString DataType = 0x06
)

// Format constants.
const (
	// gdsVersion is the stream format version written in the HEADER record.
	gdsVersion = 5

	// UserUnit is the size of one database unit in user units: 1e-3 means
	// one user unit is a micrometer when the database unit is a nanometer.
	UserUnit = 1e-3

	// DatabaseUnitMeters is the size of one database unit in meters (1 nm).
	DatabaseUnitMeters = 1e-9

	// DBUPerMillimeter converts engine millimeters to database units.
	DBUPerMillimeter = 1e6
)

var recordNames = map[RecordType]string{
	RecHeader:   "HEADER",
	RecBgnLib:   "BGNLIB",
	RecLibName:  "LIBNAME",
	RecUnits:    "UNITS",
	RecEndLib:   "ENDLIB",
	RecBgnStr:   "BGNSTR",
	RecStrName:  "STRNAME",
	RecEndStr:   "ENDSTR",
	RecBoundary: "BOUNDARY",
	RecLayer:    "LAYER",
	RecDatatype: "DATATYPE",
	RecXY:       "XY",
	RecEndEl:    "ENDEL",
}

// String returns the conventional GDSII record name.
func (t RecordType) String() string {
	if name, ok := recordNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}
