package secp256r1

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateSignature(t *testing.T, message []byte) (publicKey, signature []byte, key *ecdsa.PrivateKey) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	digest := sha256.Sum256(message)
	r, s, err := ecdsa.Sign(rand.Reader, key, digest[:])
	require.NoError(t, err)

	signature = make([]byte, SignatureSize)
	r.FillBytes(signature[:32])
	s.FillBytes(signature[32:])

	publicKey = elliptic.MarshalCompressed(elliptic.P256(), key.X, key.Y)
	return publicKey, signature, key
}

func TestInstruction_Layout(t *testing.T) {
	message := []byte("authenticator data || client data hash")
	publicKey, signature, _ := generateSignature(t, message)

	ix, err := Instruction(message, publicKey, signature)
	require.NoError(t, err)

	assert.EqualValues(t, ProgramKey, ix.Program)
	assert.Empty(t, ix.Accounts)
	require.Len(t, ix.Data, 113+len(message))

	assert.EqualValues(t, 1, ix.Data[0])
	assert.EqualValues(t, 0, ix.Data[1])

	u16 := func(at int) uint16 { return binary.LittleEndian.Uint16(ix.Data[at:]) }
	assert.EqualValues(t, 49, u16(2))
	assert.EqualValues(t, math.MaxUint16, u16(4))
	assert.EqualValues(t, 16, u16(6))
	assert.EqualValues(t, math.MaxUint16, u16(8))
	assert.EqualValues(t, 113, u16(10))
	assert.EqualValues(t, len(message), u16(12))
	assert.EqualValues(t, math.MaxUint16, u16(14))

	assert.Equal(t, publicKey, ix.Data[16:49])
	assert.True(t, IsLowS(ix.Data[49:113]))
	assert.Equal(t, message, ix.Data[113:])
}

func TestInstruction_InvalidInput(t *testing.T) {
	message := []byte("hello")
	publicKey, signature, _ := generateSignature(t, message)

	_, err := Instruction(message, publicKey[:32], signature)
	assert.Equal(t, ErrInvalidPublicKey, err)

	_, err = Instruction(message, publicKey, signature[:63])
	assert.Equal(t, ErrInvalidSignature, err)

	_, err = Instruction(make([]byte, math.MaxUint16), publicKey, signature)
	assert.Equal(t, ErrMessageTooLarge, err)
}

func TestNormalizeLowS(t *testing.T) {
	message := []byte("normalize me")
	_, signature, key := generateSignature(t, message)
	digest := sha256.Sum256(message)

	low := NormalizeLowS(signature)
	assert.True(t, IsLowS(low))

	// Flipping s yields the other valid signature for the same message
	s := new(big.Int).SetBytes(low[32:])
	high := make([]byte, SignatureSize)
	copy(high, low)
	new(big.Int).Sub(curveOrder, s).FillBytes(high[32:])
	assert.False(t, IsLowS(high))

	normalized := NormalizeLowS(high)
	assert.Equal(t, low, normalized)

	// The input is never mutated
	assert.False(t, IsLowS(high))

	r := new(big.Int).SetBytes(normalized[:32])
	assert.True(t, ecdsa.Verify(&key.PublicKey, digest[:], r, new(big.Int).SetBytes(normalized[32:])))
}
