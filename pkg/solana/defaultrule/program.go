package defaultrule

import (
	"crypto/ed25519"
	"errors"

	"github.com/mr-tron/base58"

	"github.com/lazor-kit/wallet-client/pkg/solana/lazorkit"
)

var (
	ErrInvalidAccountData = errors.New("unexpected account data")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("B98ooLRYBP6m6Zsrd3Hnzn4UAejfVZwyDgMFaBNzVR2W")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	LAZORKIT_PROGRAM_ID = lazorkit.PROGRAM_ID
	SYSTEM_PROGRAM_ID   = lazorkit.SYSTEM_PROGRAM_ID
)

// ProgramError is a custom error code returned by the default rule program.
type ProgramError uint32

const (
	// Invalid passkey provided
	InvalidPasskey ProgramError = iota + 0x1770

	// Unauthorized access
	UnAuthorize
)

func (e ProgramError) Error() string {
	switch e {
	case InvalidPasskey:
		return "default rule: invalid passkey provided"
	case UnAuthorize:
		return "default rule: unauthorized access"
	}
	return "default rule: unknown program error"
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
