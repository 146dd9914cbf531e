package acs

import "encoding/binary"

// le32 appends a little-endian int32.
func le32(buf []byte, v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return append(buf, b[:]...)
}

// le16 appends a little-endian int16.
func le16(buf []byte, v int16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	return append(buf, b[:]...)
}

// cstr appends s followed by a NUL.
func cstr(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0)
}
