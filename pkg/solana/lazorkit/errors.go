package lazorkit

import (
	"fmt"

	"github.com/lazor-kit/wallet-client/pkg/solana"
)

// ProgramError is a custom error code returned by the smart wallet program.
type ProgramError uint32

const (
	// Invalid passkey provided
	InvalidPasskey ProgramError = iota + 0x1770

	// Invalid authenticator for smart wallet
	InvalidAuthenticator

	// Invalid rule program for smart wallet
	InvalidRuleProgram

	// Invalid instruction length for signature verification
	InvalidLengthForVerification

	// Signature header mismatch
	VerifyHeaderMismatchError

	// Signature data mismatch
	VerifyDataMismatchError

	// Invalid bump seed
	InvalidBump

	// Invalid or missing required account
	InvalidAccountInput

	// Insufficient funds for requested operation
	InsufficientFunds

	// Invalid rule instruction provided
	InvalidRuleInstruction
)

var programErrorMessages = map[ProgramError]string{
	InvalidPasskey:               "invalid passkey provided",
	InvalidAuthenticator:         "invalid authenticator for smart wallet",
	InvalidRuleProgram:           "invalid rule program for smart wallet",
	InvalidLengthForVerification: "invalid instruction length for signature verification",
	VerifyHeaderMismatchError:    "signature header mismatch",
	VerifyDataMismatchError:      "signature data mismatch",
	InvalidBump:                  "invalid bump seed",
	InvalidAccountInput:          "invalid or missing required account",
	InsufficientFunds:            "insufficient funds for requested operation",
	InvalidRuleInstruction:       "invalid rule instruction provided",
}

func (e ProgramError) Error() string {
	if msg, ok := programErrorMessages[e]; ok {
		return fmt.Sprintf("lazorkit: %s (%d)", msg, uint32(e))
	}
	return fmt.Sprintf("lazorkit: unknown program error (%d)", uint32(e))
}

// ProgramErrorFromCustom maps a custom instruction error decoded from RPC into
// a ProgramError, if the code belongs to this program.
func ProgramErrorFromCustom(custom solana.CustomError) (ProgramError, bool) {
	code := ProgramError(custom)
	_, ok := programErrorMessages[code]
	return code, ok
}
