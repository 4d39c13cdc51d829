package lazorkit

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

const (
	SmartWalletConfigAccountSize = (8 + // discriminator
		8 + // id
		32 + // rule_program
		1) // bump
)

var SmartWalletConfigAccountDiscriminator = []byte{138, 211, 3, 80, 65, 100, 207, 142}

type SmartWalletConfigAccount struct {
	Id          uint64
	RuleProgram ed25519.PublicKey
	Bump        uint8
}

func (obj *SmartWalletConfigAccount) Unmarshal(data []byte) error {
	if len(data) < SmartWalletConfigAccountSize {
		return ErrInvalidAccountData
	}

	if !bytes.Equal(data[:8], SmartWalletConfigAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	offset := 8
	binary.GetUint64(data[offset:], &obj.Id, &offset)
	binary.GetKey32(data[offset:], &obj.RuleProgram, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)

	return nil
}

func (obj *SmartWalletConfigAccount) String() string {
	return fmt.Sprintf(
		"SmartWalletConfig{id=%d,rule_program=%s,bump=%d}",
		obj.Id,
		base58.Encode(obj.RuleProgram),
		obj.Bump,
	)
}
