package lazorkit

import (
	"crypto/ed25519"

	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

var createSmartWalletInstructionDiscriminator = []byte{129, 39, 235, 18, 132, 68, 203, 19}

type CreateSmartWalletInstructionArgs struct {
	PasskeyPubkey []byte
	RuleData      []byte
}

func (args *CreateSmartWalletInstructionArgs) size() int {
	return PasskeyPublicKeySize + binary.BytesSize(args.RuleData)
}

type CreateSmartWalletInstructionAccounts struct {
	Signer                   ed25519.PublicKey
	SmartWalletSeq           ed25519.PublicKey
	WhitelistRulePrograms    ed25519.PublicKey
	SmartWallet              ed25519.PublicKey
	SmartWalletConfig        ed25519.PublicKey
	SmartWalletAuthenticator ed25519.PublicKey
	Config                   ed25519.PublicKey
	DefaultRuleProgram       ed25519.PublicKey

	// Accounts of the rule initialization instruction, already remapped
	// with RemapAccounts.
	RemainingAccounts []solana.AccountMeta
}

func NewCreateSmartWalletInstruction(
	accounts *CreateSmartWalletInstructionAccounts,
	args *CreateSmartWalletInstructionArgs,
) (solana.Instruction, error) {
	if err := validatePasskey(args.PasskeyPubkey); err != nil {
		return solana.Instruction{}, err
	}

	var offset int

	// Serialize instruction arguments
	data := make([]byte, len(createSmartWalletInstructionDiscriminator)+args.size())

	binary.PutDiscriminator(data[offset:], createSmartWalletInstructionDiscriminator, &offset)
	binary.PutFixed(data[offset:], args.PasskeyPubkey, PasskeyPublicKeySize, &offset)
	binary.PutBytes(data[offset:], args.RuleData, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: append(
			[]solana.AccountMeta{
				{
					PublicKey:  accounts.Signer,
					IsWritable: true,
					IsSigner:   true,
				},
				{
					PublicKey:  accounts.SmartWalletSeq,
					IsWritable: true,
					IsSigner:   false,
				},
				{
					PublicKey:  accounts.WhitelistRulePrograms,
					IsWritable: false,
					IsSigner:   false,
				},
				{
					PublicKey:  accounts.SmartWallet,
					IsWritable: true,
					IsSigner:   false,
				},
				{
					PublicKey:  accounts.SmartWalletConfig,
					IsWritable: true,
					IsSigner:   false,
				},
				{
					PublicKey:  accounts.SmartWalletAuthenticator,
					IsWritable: true,
					IsSigner:   false,
				},
				{
					PublicKey:  accounts.Config,
					IsWritable: false,
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
			},
			accounts.RemainingAccounts...,
		),
	}, nil
}
