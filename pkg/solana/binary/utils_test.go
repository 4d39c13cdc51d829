package binary

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGetRoundTrip(t *testing.T) {
	key := ed25519.PublicKey(bytes.Repeat([]byte{9}, 32))
	payload := []byte{1, 2, 3}

	buf := make([]byte, 8+32+33+BytesSize(payload)+8+1+1)

	var offset int
	PutDiscriminator(buf[offset:], []byte{1, 1, 1, 1, 2, 2, 2, 2}, &offset)
	PutKey32(buf[offset:], key, &offset)
	PutFixed(buf[offset:], []byte{4, 4}, 33, &offset)
	PutBytes(buf[offset:], payload, &offset)
	PutUint64(buf[offset:], 1234567890, &offset)
	PutUint8(buf[offset:], 254, &offset)
	PutBool(buf[offset:], true, &offset)
	assert.Equal(t, len(buf), offset)

	// Vec<u8> is prefixed with a little-endian u32 length
	assert.Equal(t, []byte{3, 0, 0, 0, 1, 2, 3}, buf[8+32+33:8+32+33+7])

	offset = 8
	var actualKey ed25519.PublicKey
	var fixed, actualPayload []byte
	var length uint32
	var u64 uint64
	var u8 uint8
	var flag bool

	GetKey32(buf[offset:], &actualKey, &offset)
	GetFixed(buf[offset:], &fixed, 33, &offset)
	GetUint32(buf[offset:], &length, &offset)
	GetFixed(buf[offset:], &actualPayload, int(length), &offset)
	GetUint64(buf[offset:], &u64, &offset)
	GetUint8(buf[offset:], &u8, &offset)
	GetBool(buf[offset:], &flag, &offset)

	assert.Equal(t, key, actualKey)
	assert.Equal(t, append([]byte{4, 4}, make([]byte, 31)...), fixed)
	assert.Equal(t, payload, actualPayload)
	assert.EqualValues(t, 1234567890, u64)
	assert.EqualValues(t, 254, u8)
	assert.True(t, flag)
	assert.Equal(t, len(buf), offset)
}
