package lazorkit

import (
	"crypto/ed25519"

	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

var executeInstructionInstructionDiscriminator = []byte{48, 18, 40, 40, 75, 74, 147, 110}

type ExecuteInstructionInstructionArgs struct {
	PasskeyPubkey          []byte
	Signature              []byte
	Message                []byte
	VerifyInstructionIndex uint8
	RuleData               CpiData
	CpiData                *CpiData
	Action                 Action

	// Passkey of an authenticator to bind to the same smart wallet, if any
	CreateNewAuthenticator []byte
}

func (args *ExecuteInstructionInstructionArgs) size() int {
	size := PasskeyPublicKeySize +
		binary.BytesSize(args.Signature) +
		binary.BytesSize(args.Message) +
		1 + // verify_instruction_index
		args.RuleData.size() +
		optionalCpiDataSize(args.CpiData) +
		1 + // action
		1 // create_new_authenticator option
	if args.CreateNewAuthenticator != nil {
		size += PasskeyPublicKeySize
	}
	return size
}

type ExecuteInstructionInstructionAccounts struct {
	Payer                    ed25519.PublicKey
	Config                   ed25519.PublicKey
	SmartWallet              ed25519.PublicKey
	SmartWalletConfig        ed25519.PublicKey
	SmartWalletAuthenticator ed25519.PublicKey
	WhitelistRulePrograms    ed25519.PublicKey
	AuthenticatorProgram     ed25519.PublicKey

	// Optional. Defaults to the all zero key when there is no inner call.
	CpiProgram ed25519.PublicKey

	// Optional. Anchor expects the program id in place of an absent account.
	NewSmartWalletAuthenticator ed25519.PublicKey

	// CPI accounts followed by rule accounts, already remapped with
	// RemapAccounts.
	RemainingAccounts []solana.AccountMeta
}

func NewExecuteInstructionInstruction(
	accounts *ExecuteInstructionInstructionAccounts,
	args *ExecuteInstructionInstructionArgs,
) (solana.Instruction, error) {
	if err := validatePasskey(args.PasskeyPubkey); err != nil {
		return solana.Instruction{}, err
	}
	if args.CreateNewAuthenticator != nil {
		if err := validatePasskey(args.CreateNewAuthenticator); err != nil {
			return solana.Instruction{}, err
		}
	}
	if !args.Action.Valid() {
		return solana.Instruction{}, ErrInvalidInstructionData
	}

	var offset int

	// Serialize instruction arguments
	data := make([]byte, len(executeInstructionInstructionDiscriminator)+args.size())

	binary.PutDiscriminator(data[offset:], executeInstructionInstructionDiscriminator, &offset)
	binary.PutFixed(data[offset:], args.PasskeyPubkey, PasskeyPublicKeySize, &offset)
	binary.PutBytes(data[offset:], args.Signature, &offset)
	binary.PutBytes(data[offset:], args.Message, &offset)
	binary.PutUint8(data[offset:], args.VerifyInstructionIndex, &offset)
	putCpiData(data[offset:], &args.RuleData, &offset)
	putOptionalCpiData(data[offset:], args.CpiData, &offset)
	putAction(data[offset:], args.Action, &offset)
	if args.CreateNewAuthenticator == nil {
		binary.PutUint8(data[offset:], 0, &offset)
	} else {
		binary.PutUint8(data[offset:], 1, &offset)
		binary.PutFixed(data[offset:], args.CreateNewAuthenticator, PasskeyPublicKeySize, &offset)
	}

	cpiProgram := accounts.CpiProgram
	if cpiProgram == nil {
		cpiProgram = make(ed25519.PublicKey, ed25519.PublicKeySize)
	}

	newSmartWalletAuthenticator := solana.AccountMeta{
		PublicKey:  PROGRAM_ID,
		IsWritable: false,
		IsSigner:   false,
	}
	if accounts.NewSmartWalletAuthenticator != nil {
		newSmartWalletAuthenticator = solana.AccountMeta{
			PublicKey:  accounts.NewSmartWalletAuthenticator,
			IsWritable: true,
			IsSigner:   false,
		}
	}

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: append(
			[]solana.AccountMeta{
				{
					PublicKey:  accounts.Payer,
					IsWritable: true,
					IsSigner:   true,
				},
				{
					PublicKey:  accounts.Config,
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
					IsWritable: false,
					IsSigner:   false,
				},
				{
					PublicKey:  accounts.WhitelistRulePrograms,
					IsWritable: false,
					IsSigner:   false,
				},
				{
					PublicKey:  accounts.AuthenticatorProgram,
					IsWritable: false,
					IsSigner:   false,
				},
				{
					PublicKey:  SYSVAR_INSTRUCTIONS_PUBKEY,
					IsWritable: false,
					IsSigner:   false,
				},
				{
					PublicKey:  SYSTEM_PROGRAM_ID,
					IsWritable: false,
					IsSigner:   false,
				},
				{
					PublicKey:  cpiProgram,
					IsWritable: false,
					IsSigner:   false,
				},
				newSmartWalletAuthenticator,
			},
			accounts.RemainingAccounts...,
		),
	}, nil
}
