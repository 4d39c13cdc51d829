package lazorkit

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

const (
	minWhitelistRuleProgramsAccountSize = (8 + // discriminator
		4 + // list length
		1) // bump
)

var WhitelistRuleProgramsAccountDiscriminator = []byte{234, 147, 45, 188, 65, 212, 154, 241}

// WhitelistRuleProgramsAccount holds the rule programs a smart wallet is
// allowed to be governed by.
type WhitelistRuleProgramsAccount struct {
	List []ed25519.PublicKey
	Bump uint8
}

func (obj *WhitelistRuleProgramsAccount) Unmarshal(data []byte) error {
	if len(data) < minWhitelistRuleProgramsAccountSize {
		return ErrInvalidAccountData
	}

	if !bytes.Equal(data[:8], WhitelistRuleProgramsAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	offset := 8

	var length uint32
	binary.GetUint32(data[offset:], &length, &offset)
	if uint64(len(data)) < uint64(minWhitelistRuleProgramsAccountSize)+uint64(length)*ed25519.PublicKeySize {
		return ErrInvalidAccountData
	}

	obj.List = make([]ed25519.PublicKey, length)
	for i := range obj.List {
		binary.GetKey32(data[offset:], &obj.List[i], &offset)
	}
	binary.GetUint8(data[offset:], &obj.Bump, &offset)

	return nil
}

// Contains reports whether program is whitelisted.
func (obj *WhitelistRuleProgramsAccount) Contains(program ed25519.PublicKey) bool {
	for _, whitelisted := range obj.List {
		if whitelisted.Equal(program) {
			return true
		}
	}
	return false
}

func (obj *WhitelistRuleProgramsAccount) String() string {
	encoded := make([]string, len(obj.List))
	for i, program := range obj.List {
		encoded[i] = base58.Encode(program)
	}

	return fmt.Sprintf(
		"WhitelistRulePrograms{list=[%s],bump=%d}",
		strings.Join(encoded, ","),
		obj.Bump,
	)
}
