// Package binary provides put/get helpers for the little-endian, length
// prefixed (Borsh) layouts used by Anchor programs. Every helper advances
// offset by the number of bytes it consumed.
package binary

import (
	"crypto/ed25519"
	"encoding/binary"
)

// Size of the u32 prefix preceding Borsh vectors and byte strings.
const VecPrefixSize = 4

func PutDiscriminator(dst []byte, src []byte, offset *int) {
	copy(dst, src)
	*offset += len(src)
}

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst, src)
	*offset += ed25519.PublicKeySize
}

// PutFixed copies exactly size bytes of src, zero padding when src is short.
func PutFixed(dst []byte, src []byte, size int, offset *int) {
	copy(dst[:size], src)
	*offset += size
}

// PutBytes writes a Borsh Vec<u8>.
func PutBytes(dst []byte, src []byte, offset *int) {
	binary.LittleEndian.PutUint32(dst, uint32(len(src)))
	copy(dst[VecPrefixSize:], src)
	*offset += VecPrefixSize + len(src)
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst, v)
	*offset += 4
}

func PutUint16(dst []byte, v uint16, offset *int) {
	binary.LittleEndian.PutUint16(dst, v)
	*offset += 2
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[0] = v
	*offset += 1
}

func PutBool(dst []byte, v bool, offset *int) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
	*offset += 1
}

// BytesSize is the encoded size of a Borsh Vec<u8>.
func BytesSize(src []byte) int {
	return VecPrefixSize + len(src)
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src)
	*offset += ed25519.PublicKeySize
}

func GetFixed(src []byte, dst *[]byte, size int, offset *int) {
	*dst = make([]byte, size)
	copy(*dst, src)
	*offset += size
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src)
	*offset += 8
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src)
	*offset += 4
}

func GetUint16(src []byte, dst *uint16, offset *int) {
	*dst = binary.LittleEndian.Uint16(src)
	*offset += 2
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[0]
	*offset += 1
}

func GetBool(src []byte, dst *bool, offset *int) {
	*dst = src[0] != 0
	*offset += 1
}
