package lazorkit

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"

	"github.com/mr-tron/base58"

	"github.com/lazor-kit/wallet-client/pkg/solana"
)

// RemapAccounts copies accounts for use as remaining accounts of an outer
// instruction. Only the fee payer keeps signer status; writability is
// preserved as is.
func RemapAccounts(accounts []solana.AccountMeta, feePayer ed25519.PublicKey) []solana.AccountMeta {
	remapped := make([]solana.AccountMeta, len(accounts))
	for i, account := range accounts {
		remapped[i] = solana.AccountMeta{
			PublicKey:  account.PublicKey,
			IsSigner:   account.PublicKey.Equal(feePayer),
			IsWritable: account.IsWritable,
		}
	}
	return remapped
}

// hashSeeds is the single seed of an authenticator PDA: sha256(passkey || wallet).
func hashSeeds(passkey []byte, smartWallet ed25519.PublicKey) []byte {
	h := sha256.New()
	h.Write(passkey)
	h.Write(smartWallet)
	return h.Sum(nil)
}

func sequenceToBytes(seq uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, seq)
	return b
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
