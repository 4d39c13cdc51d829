package lazorkit

import (
	"crypto/ed25519"

	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

var initializeInstructionDiscriminator = []byte{175, 175, 109, 31, 13, 152, 155, 237}

const (
	InitializeInstructionArgsSize = 0
)

type InitializeInstructionAccounts struct {
	Signer                ed25519.PublicKey
	Config                ed25519.PublicKey
	WhitelistRulePrograms ed25519.PublicKey
	SmartWalletSeq        ed25519.PublicKey
	DefaultRuleProgram    ed25519.PublicKey
}

// NewInitializeInstruction creates the program singletons. The BPF loader is
// passed as the only remaining account.
func NewInitializeInstruction(
	accounts *InitializeInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, len(initializeInstructionDiscriminator)+InitializeInstructionArgsSize)
	binary.PutDiscriminator(data[offset:], initializeInstructionDiscriminator, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Signer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Config,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.WhitelistRulePrograms,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SmartWalletSeq,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DefaultRuleProgram,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  BPF_LOADER_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
