package lazorkit

import (
	"bytes"
	"fmt"

	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

const (
	SmartWalletSeqAccountSize = (8 + // discriminator
		8 + // seq
		1) // bump
)

var SmartWalletSeqAccountDiscriminator = []byte{12, 192, 82, 50, 253, 49, 195, 84}

// SmartWalletSeqAccount tracks the sequence number used to derive the next
// smart wallet.
type SmartWalletSeqAccount struct {
	Seq  uint64
	Bump uint8
}

func (obj *SmartWalletSeqAccount) Unmarshal(data []byte) error {
	if len(data) < SmartWalletSeqAccountSize {
		return ErrInvalidAccountData
	}

	if !bytes.Equal(data[:8], SmartWalletSeqAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	offset := 8
	binary.GetUint64(data[offset:], &obj.Seq, &offset)
	binary.GetUint8(data[offset:], &obj.Bump, &offset)

	return nil
}

func (obj *SmartWalletSeqAccount) String() string {
	return fmt.Sprintf("SmartWalletSeq{seq=%d,bump=%d}", obj.Seq, obj.Bump)
}
