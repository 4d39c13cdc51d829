package secp256r1

import (
	"crypto/ed25519"
	"crypto/elliptic"
	"errors"
	"math"
	"math/big"

	"github.com/mr-tron/base58"

	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

const (
	CompressedPublicKeySize = 33
	SignatureSize           = 64

	dataStart             = 2  // num_signatures + padding
	signatureOffsetsSize  = 14 // seven u16 fields
	publicKeyOffset       = dataStart + signatureOffsetsSize
	signatureOffset       = publicKeyOffset + CompressedPublicKeySize
	messageDataOffset     = signatureOffset + SignatureSize
	instructionHeaderSize = messageDataOffset
)

var (
	ErrInvalidPublicKey = errors.New("secp256r1: public key must be a 33 byte compressed point")
	ErrInvalidSignature = errors.New("secp256r1: signature must be 64 bytes")
	ErrMessageTooLarge  = errors.New("secp256r1: message too large")
)

// Secp256r1SigVerify1111111111111111111111111
var ProgramKey ed25519.PublicKey

var (
	curveOrder     = elliptic.P256().Params().N
	halfCurveOrder = new(big.Int).Rsh(curveOrder, 1)
)

func init() {
	decoded, err := base58.Decode("Secp256r1SigVerify1111111111111111111111111")
	if err != nil {
		panic(err)
	}
	ProgramKey = decoded
}

// Instruction builds a precompile instruction verifying a single P-256
// signature, with every offset pointing into the instruction's own data.
// The signature is normalized to low-S before it is embedded.
//
// Reference: https://github.com/anza-xyz/agave/blob/master/sdk/secp256r1-program/src/lib.rs
func Instruction(message, publicKey, signature []byte) (solana.Instruction, error) {
	if len(publicKey) != CompressedPublicKeySize {
		return solana.Instruction{}, ErrInvalidPublicKey
	}
	if len(signature) != SignatureSize {
		return solana.Instruction{}, ErrInvalidSignature
	}
	if len(message) > math.MaxUint16-instructionHeaderSize {
		return solana.Instruction{}, ErrMessageTooLarge
	}

	data := make([]byte, instructionHeaderSize+len(message))

	var offset int
	binary.PutUint8(data[offset:], 1, &offset) // num_signatures
	binary.PutUint8(data[offset:], 0, &offset) // padding

	binary.PutUint16(data[offset:], signatureOffset, &offset)
	binary.PutUint16(data[offset:], math.MaxUint16, &offset) // signature_instruction_index
	binary.PutUint16(data[offset:], publicKeyOffset, &offset)
	binary.PutUint16(data[offset:], math.MaxUint16, &offset) // public_key_instruction_index
	binary.PutUint16(data[offset:], messageDataOffset, &offset)
	binary.PutUint16(data[offset:], uint16(len(message)), &offset)
	binary.PutUint16(data[offset:], math.MaxUint16, &offset) // message_instruction_index

	binary.PutFixed(data[offset:], publicKey, CompressedPublicKeySize, &offset)
	binary.PutFixed(data[offset:], NormalizeLowS(signature), SignatureSize, &offset)
	copy(data[offset:], message)

	return solana.NewInstruction(ProgramKey, data), nil
}

// NormalizeLowS returns a copy of the raw r||s signature with s replaced by
// n-s whenever s is in the upper half of the curve order. The precompile
// rejects high-S signatures.
func NormalizeLowS(signature []byte) []byte {
	normalized := make([]byte, len(signature))
	copy(normalized, signature)

	if len(signature) != SignatureSize {
		return normalized
	}

	s := new(big.Int).SetBytes(signature[32:])
	if s.Cmp(halfCurveOrder) <= 0 {
		return normalized
	}

	s.Sub(curveOrder, s)
	s.FillBytes(normalized[32:])
	return normalized
}

// IsLowS reports whether the signature's s component is in the lower half of
// the curve order.
func IsLowS(signature []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}
	s := new(big.Int).SetBytes(signature[32:])
	return s.Cmp(halfCurveOrder) <= 0
}
