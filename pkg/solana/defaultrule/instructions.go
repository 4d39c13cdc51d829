package defaultrule

import (
	"crypto/ed25519"

	"github.com/lazor-kit/wallet-client/pkg/solana"
)

var (
	checkRuleInstructionDiscriminator = []byte{215, 90, 220, 175, 191, 212, 144, 147}
	destroyInstructionDiscriminator   = []byte{157, 40, 96, 3, 135, 203, 143, 74}
	initRuleInstructionDiscriminator  = []byte{129, 224, 96, 169, 247, 125, 74, 118}
)

type CheckRuleInstructionAccounts struct {
	SmartWalletAuthenticator ed25519.PublicKey
	Rule                     ed25519.PublicKey
}

// NewCheckRuleInstruction is the rule check executeInstruction calls to
// authorize a signed action.
func NewCheckRuleInstruction(accounts *CheckRuleInstructionAccounts) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,
		Data:    append([]byte{}, checkRuleInstructionDiscriminator...),
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.SmartWalletAuthenticator,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Rule,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

type DestroyInstructionAccounts struct {
	SmartWallet              ed25519.PublicKey
	SmartWalletAuthenticator ed25519.PublicKey
	Rule                     ed25519.PublicKey
}

func NewDestroyInstruction(accounts *DestroyInstructionAccounts) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,
		Data:    append([]byte{}, destroyInstructionDiscriminator...),
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.SmartWallet,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SmartWalletAuthenticator,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Rule,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

type InitRuleInstructionAccounts struct {
	Payer                    ed25519.PublicKey
	SmartWallet              ed25519.PublicKey
	SmartWalletAuthenticator ed25519.PublicKey
	Rule                     ed25519.PublicKey
}

// NewInitRuleInstruction is the rule initialization createSmartWallet runs
// when no custom rule is supplied.
func NewInitRuleInstruction(accounts *InitRuleInstructionAccounts) solana.Instruction {
	return solana.Instruction{
		Program: PROGRAM_ADDRESS,
		Data:    append([]byte{}, initRuleInstructionDiscriminator...),
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Payer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.SmartWallet,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SmartWalletAuthenticator,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Rule,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  LAZORKIT_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
