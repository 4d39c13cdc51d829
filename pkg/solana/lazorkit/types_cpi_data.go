package lazorkit

import (
	"github.com/lazor-kit/wallet-client/pkg/solana/binary"
)

// CpiData describes the contiguous slice of an executeInstruction's
// remaining accounts consumed by a single inner call, along with that
// call's instruction data.
type CpiData struct {
	Data       []byte
	StartIndex uint8
	Length     uint8
}

func (obj *CpiData) size() int {
	return binary.BytesSize(obj.Data) + 1 + 1
}

func putCpiData(dst []byte, v *CpiData, offset *int) {
	var local int
	binary.PutBytes(dst[local:], v.Data, &local)
	binary.PutUint8(dst[local:], v.StartIndex, &local)
	binary.PutUint8(dst[local:], v.Length, &local)
	*offset += local
}

func optionalCpiDataSize(v *CpiData) int {
	if v == nil {
		return 1
	}
	return 1 + v.size()
}

func putOptionalCpiData(dst []byte, v *CpiData, offset *int) {
	if v == nil {
		binary.PutUint8(dst, 0, offset)
		return
	}

	var local int
	binary.PutUint8(dst[local:], 1, &local)
	putCpiData(dst[local:], v, &local)
	*offset += local
}
