// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "fmt"

// MajorType is the 3-bit type tag in the high bits of a token's
// initial byte (RFC 8949 §3.1). The set is closed.
type MajorType uint8

const (
	Unsigned    MajorType = 0
	Negative    MajorType = 1
	ByteString  MajorType = 2
	String      MajorType = 3
	Array       MajorType = 4
	Map         MajorType = 5
	Tag         MajorType = 6
	SimpleValue MajorType = 7
)

var majorTypeNames = [...]string{
	Unsigned:    "unsigned",
	Negative:    "negative",
	ByteString:  "byte string",
	String:      "string",
	Array:       "array",
	Map:         "map",
	Tag:         "tag",
	SimpleValue: "simple value",
}

func (t MajorType) String() string {
	if int(t) < len(majorTypeNames) {
		return majorTypeNames[t]
	}
	return fmt.Sprintf("MajorType(%d)", uint8(t))
}

const (
	majorTypeShift      = 5
	additionalInfoMask  = 0x1f
	additionalInfo1Byte = 24
	additionalInfo2Byte = 25
	additionalInfo4Byte = 26
	additionalInfo8Byte = 27
	additionalInfoIndef = 31
)

// InitialByte packs a major type and a 5-bit additional-information
// field into a token's first byte.
func InitialByte(t MajorType, additionalInfo uint8) byte {
	return byte(t)<<majorTypeShift | additionalInfo&additionalInfoMask
}

// Fixed initial bytes used by the profile.
var (
	byteEnvelope          = InitialByte(Tag, 24)
	byte32BitByteString   = InitialByte(ByteString, additionalInfo4Byte)
	byteArrayStart        = InitialByte(Array, additionalInfoIndef)
	byteMapStart          = InitialByte(Map, additionalInfoIndef)
	byteStop              = InitialByte(SimpleValue, additionalInfoIndef)
	byteFalse             = InitialByte(SimpleValue, 20)
	byteTrue              = InitialByte(SimpleValue, 21)
	byteNull              = InitialByte(SimpleValue, 22)
	byteDouble            = InitialByte(SimpleValue, additionalInfo8Byte)
	byteBase64Conversion  = InitialByte(Tag, 22)
	standardEnvelopeTagNo = byte(24)
)

// Token is the decoded header of one wire item. For integers Value is
// the magnitude argument; for strings it is the byte length.
type Token struct {
	Type      MajorType
	Value     uint64
	HeaderLen int
}

// Minimal reports whether the header used the smallest width class
// able to hold Value.
func (t Token) Minimal() bool {
	return t.HeaderLen == headerLen(t.Value)
}

// headerLen is the minimal header size for value.
func headerLen(value uint64) int {
	switch {
	case value < 24:
		return 1
	case value <= 0xff:
		return 2
	case value <= 0xffff:
		return 3
	case value <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// AppendTokenStart appends the initial byte for t followed by value in
// the smallest big-endian width that holds it.
func AppendTokenStart(dst []byte, t MajorType, value uint64) []byte {
	switch {
	case value < 24:
		return append(dst, InitialByte(t, uint8(value)))
	case value <= 0xff:
		return append(dst, InitialByte(t, additionalInfo1Byte), byte(value))
	case value <= 0xffff:
		return append(dst, InitialByte(t, additionalInfo2Byte),
			byte(value>>8), byte(value))
	case value <= 0xffffffff:
		return append(dst, InitialByte(t, additionalInfo4Byte),
			byte(value>>24), byte(value>>16), byte(value>>8), byte(value))
	default:
		return appendUint64(append(dst, InitialByte(t, additionalInfo8Byte)), value)
	}
}

// ReadTokenStart decodes the header at the front of data. It accepts
// any width large enough for the value, minimal or not, and never
// reads past len(data).
func ReadTokenStart(data []byte) (Token, error) {
	if len(data) == 0 {
		return Token{}, ErrTruncatedInput
	}
	initial := data[0]
	token := Token{Type: MajorType(initial >> majorTypeShift)}

	additionalInfo := initial & additionalInfoMask
	var width int
	switch {
	case additionalInfo < 24:
		token.Value = uint64(additionalInfo)
		token.HeaderLen = 1
		return token, nil
	case additionalInfo == additionalInfo1Byte:
		width = 1
	case additionalInfo == additionalInfo2Byte:
		width = 2
	case additionalInfo == additionalInfo4Byte:
		width = 4
	case additionalInfo == additionalInfo8Byte:
		width = 8
	default:
		return Token{}, ErrInvalidInitialByte
	}

	if len(data) < 1+width {
		return Token{}, ErrTruncatedInput
	}
	token.Value = readUint(data[1 : 1+width])
	token.HeaderLen = 1 + width
	return token, nil
}

// readUint reads a big-endian unsigned integer of len(b) bytes.
func readUint(b []byte) uint64 {
	var value uint64
	for _, octet := range b {
		value = value<<8 | uint64(octet)
	}
	return value
}

func appendUint64(dst []byte, value uint64) []byte {
	return append(dst,
		byte(value>>56), byte(value>>48), byte(value>>40), byte(value>>32),
		byte(value>>24), byte(value>>16), byte(value>>8), byte(value))
}

func putUint32(b []byte, value uint32) {
	b[0] = byte(value >> 24)
	b[1] = byte(value >> 16)
	b[2] = byte(value >> 8)
	b[3] = byte(value)
}
