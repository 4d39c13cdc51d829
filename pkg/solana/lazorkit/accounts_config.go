package lazorkit

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

const (
	ConfigAccountSize = (8 + // discriminator
		8 + // create_smart_wallet_fee
		32) // default_rule_program
)

var ConfigAccountDiscriminator = []byte{155, 12, 170, 224, 30, 250, 204, 130}

// ConfigAccount is the program wide configuration singleton.
type ConfigAccount struct {
	CreateSmartWalletFee uint64
	DefaultRuleProgram   ed25519.PublicKey
}

func (obj *ConfigAccount) Unmarshal(data []byte) error {
	if len(data) < ConfigAccountSize {
		return ErrInvalidAccountData
	}

	if !bytes.Equal(data[:8], ConfigAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	offset := 8
	binary.GetUint64(data[offset:], &obj.CreateSmartWalletFee, &offset)
	binary.GetKey32(data[offset:], &obj.DefaultRuleProgram, &offset)

	return nil
}

func (obj *ConfigAccount) String() string {
	return fmt.Sprintf(
		"Config{create_smart_wallet_fee=%d,default_rule_program=%s}",
		obj.CreateSmartWalletFee,
		base58.Encode(obj.DefaultRuleProgram),
	)
}
