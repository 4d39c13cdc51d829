package system

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// https://explorer.solana.com/address/11111111111111111111111111111111
var SystemAccount ed25519.PublicKey

// InstructionsSysVar points to the system variable "Instructions", which
// programs read to inspect sibling instructions (e.g. signature verification)
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/sysvar/instructions.rs
var InstructionsSysVar ed25519.PublicKey

// RentSysVar points to the system variable "Rent"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/rent.rs#L11
var RentSysVar ed25519.PublicKey

// BPFLoaderUpgradeable is the loader owning upgradeable programs.
var BPFLoaderUpgradeable ed25519.PublicKey

// BPFLoader2 is the (non-upgradeable) BPF loader.
var BPFLoader2 ed25519.PublicKey

func init() {
	SystemAccount = mustBase58Decode("11111111111111111111111111111111")
	InstructionsSysVar = mustBase58Decode("Sysvar1nstructions1111111111111111111111111")
	RentSysVar = mustBase58Decode("SysvarRent111111111111111111111111111111111")
	BPFLoaderUpgradeable = mustBase58Decode("BPFLoaderUpgradeab1e11111111111111111111111")
	BPFLoader2 = mustBase58Decode("BPFLoader2111111111111111111111111111111111")
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
