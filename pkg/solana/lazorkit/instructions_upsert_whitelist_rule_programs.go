package lazorkit

import (
	"crypto/ed25519"

	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

var upsertWhitelistRuleProgramsInstructionDiscriminator = []byte{41, 238, 96, 66, 217, 254, 156, 163}

const (
	UpsertWhitelistRuleProgramsInstructionArgsSize = 32 // program_id
)

type UpsertWhitelistRuleProgramsInstructionArgs struct {
	ProgramId ed25519.PublicKey
}

type UpsertWhitelistRuleProgramsInstructionAccounts struct {
	Signer                ed25519.PublicKey
	WhitelistRulePrograms ed25519.PublicKey
}

func NewUpsertWhitelistRuleProgramsInstruction(
	accounts *UpsertWhitelistRuleProgramsInstructionAccounts,
	args *UpsertWhitelistRuleProgramsInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(upsertWhitelistRuleProgramsInstructionDiscriminator)+
			UpsertWhitelistRuleProgramsInstructionArgsSize)

	binary.PutDiscriminator(data[offset:], upsertWhitelistRuleProgramsInstructionDiscriminator, &offset)
	binary.PutKey32(data[offset:], args.ProgramId, &offset)

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
				PublicKey:  accounts.WhitelistRulePrograms,
				IsWritable: true,
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
