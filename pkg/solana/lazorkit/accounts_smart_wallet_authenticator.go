package lazorkit

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

const (
	SmartWalletAuthenticatorAccountSize = (8 + // discriminator
		PasskeyPublicKeySize + // passkey_pubkey
		32 + // smart_wallet
		1) // bump

	// Offset of the passkey within the account, used to look up
	// authenticators by passkey.
	SmartWalletAuthenticatorPasskeyOffset = 8
)

var SmartWalletAuthenticatorAccountDiscriminator = []byte{126, 36, 85, 166, 77, 139, 221, 129}

// SmartWalletAuthenticatorAccount binds a single passkey to a smart wallet.
type SmartWalletAuthenticatorAccount struct {
	PasskeyPubkey []byte
	SmartWallet   ed25519.PublicKey
	Bump          uint8
}

func (obj *SmartWalletAuthenticatorAccount) Unmarshal(data []byte) error {
	if len(data) < SmartWalletAuthenticatorAccountSize {
		return ErrInvalidAccountData
	}

	if !bytes.Equal(data[:8], SmartWalletAuthenticatorAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	offset := 8
	binary.GetFixed(data[offset:], &obj.PasskeyPubkey, PasskeyPublicKeySize, &offset)
	binary.GetKey32(data[offset:], &obj.SmartWallet, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)

	return nil
}

func (obj *SmartWalletAuthenticatorAccount) String() string {
	return fmt.Sprintf(
		"SmartWalletAuthenticator{smart_wallet=%s,bump=%d}",
		base58.Encode(obj.SmartWallet),
		obj.Bump,
	)
}
