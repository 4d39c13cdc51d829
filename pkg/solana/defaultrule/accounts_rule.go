package defaultrule

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

const (
	RuleAccountSize = (8 + // discriminator
		32 + // smart_wallet
		32 + // admin
		1) // is_initialized
)

var RuleAccountDiscriminator = []byte{82, 10, 53, 40, 250, 61, 143, 130}

type RuleAccount struct {
	SmartWallet   ed25519.PublicKey
	Admin         ed25519.PublicKey
	IsInitialized bool
}

func (obj *RuleAccount) Unmarshal(data []byte) error {
	if len(data) < RuleAccountSize {
		return ErrInvalidAccountData
	}

	if !bytes.Equal(data[:8], RuleAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	offset := 8
	binary.GetKey32(data[offset:], &obj.SmartWallet, &offset)
	binary.GetKey32(data[offset:], &obj.Admin, &offset)
	binary.GetBool(data[offset:], &obj.IsInitialized, &offset)

	return nil
}

func (obj *RuleAccount) String() string {
	return fmt.Sprintf(
		"Rule{smart_wallet=%s,admin=%s,is_initialized=%t}",
		base58.Encode(obj.SmartWallet),
		base58.Encode(obj.Admin),
		obj.IsInitialized,
	)
}
