package lazorkit

import (
	"crypto/ed25519"
	"errors"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")

	// ErrInvalidKeyMaterial is returned before any derivation or network call
	// when a passkey public key is not exactly PasskeyPublicKeySize bytes.
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("3CFG1eVGpUVAxMeuFnNw7CbBA1GQ746eQDdMWPoFTAD8")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID     = ed25519.PublicKey(mustBase58Decode("11111111111111111111111111111111"))
	BPF_LOADER_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("BPFLoader2111111111111111111111111111111111"))

	SYSVAR_INSTRUCTIONS_PUBKEY = ed25519.PublicKey(mustBase58Decode("Sysvar1nstructions1111111111111111111111111"))
)

// DEFAULT_PAYER is the relayer's fee payer, used when a caller doesn't
// provide its own.
var DEFAULT_PAYER = ed25519.PublicKey(mustBase58Decode("hij78MKbJSSs15qvkHWTDCtnmba2c1W4r1V22g5sD8w"))

const (
	PasskeyPublicKeySize = 33
)

func validatePasskey(passkey []byte) error {
	if len(passkey) != PasskeyPublicKeySize {
		return ErrInvalidKeyMaterial
	}
	return nil
}
