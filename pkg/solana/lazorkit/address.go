package lazorkit

import (
	"crypto/ed25519"

	"github.com/lazor-kit/wallet-client/pkg/solana"
)

var (
	SmartWalletSeqPrefix        = []byte("smart_wallet_seq")
	SmartWalletPrefix           = []byte("smart_wallet")
	SmartWalletConfigPrefix     = []byte("smart_wallet_config")
	WhitelistRuleProgramsPrefix = []byte("whitelist_rule_programs")
	ConfigPrefix                = []byte("config")
)

func GetSmartWalletSeqAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		SmartWalletSeqPrefix,
	)
}

type GetSmartWalletAddressArgs struct {
	Sequence uint64
}

func GetSmartWalletAddress(args *GetSmartWalletAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		SmartWalletPrefix,
		sequenceToBytes(args.Sequence),
	)
}

type GetSmartWalletConfigAddressArgs struct {
	SmartWallet ed25519.PublicKey
}

func GetSmartWalletConfigAddress(args *GetSmartWalletConfigAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		SmartWalletConfigPrefix,
		args.SmartWallet,
	)
}

type GetSmartWalletAuthenticatorAddressArgs struct {
	Passkey     []byte
	SmartWallet ed25519.PublicKey
}

// GetSmartWalletAuthenticatorAddress derives the authenticator binding a
// passkey to a smart wallet. The PDA has a single seed: the sha256 hash of the
// compressed passkey followed by the smart wallet address.
func GetSmartWalletAuthenticatorAddress(args *GetSmartWalletAuthenticatorAddressArgs) (ed25519.PublicKey, uint8, error) {
	if err := validatePasskey(args.Passkey); err != nil {
		return nil, 0, err
	}

	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		hashSeeds(args.Passkey, args.SmartWallet),
	)
}

func GetWhitelistRuleProgramsAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		WhitelistRuleProgramsPrefix,
	)
}

func GetConfigAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		ConfigPrefix,
	)
}
