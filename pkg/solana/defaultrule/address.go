package defaultrule

import (
	"crypto/ed25519"

	"github.com/lazor-kit/wallet-client/pkg/solana"
)

var (
	RulePrefix   = []byte("rule")
	ConfigPrefix = []byte("config")
)

type GetRuleAddressArgs struct {
	SmartWallet ed25519.PublicKey
}

func GetRuleAddress(args *GetRuleAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		RulePrefix,
		args.SmartWallet,
	)
}

func GetConfigAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		ConfigPrefix,
	)
}
