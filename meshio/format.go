package meshio

// Magic identifies MKM streams (ASCII "MKM1").
var Magic = [4]byte{'M', 'K', 'M', '1'}

// Version is the current format version.
const Version uint16 = 1

const headerSize = 8

// Record tags of the decompressed stream.
const (
	recEnd      byte = 0
	recTop      byte = 1
	recCaps     byte = 2
	recInt8     byte = 3
	recInt64    byte = 4
	recFloat64  byte = 5
	recRational byte = 6
)

// maxCount bounds element and name counts read from a stream.
const maxCount = 1 << 32
