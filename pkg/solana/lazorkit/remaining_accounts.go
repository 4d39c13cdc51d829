package lazorkit

import (
	"crypto/ed25519"
	"errors"
	"math"

	"github.com/lazor-kit/wallet-client/pkg/solana"
)

var ErrTooManyRemainingAccounts = errors.New("too many remaining accounts")

// PackRemainingAccounts lays out the remaining accounts of an
// executeInstruction call. The optional CPI's accounts come first, followed
// by the rule instruction's accounts, and the returned descriptors locate
// each block within that list.
func PackRemainingAccounts(
	rule solana.Instruction,
	cpi *solana.Instruction,
	feePayer ed25519.PublicKey,
) (remaining []solana.AccountMeta, ruleData CpiData, cpiData *CpiData, err error) {
	total := len(rule.Accounts)
	if cpi != nil {
		total += len(cpi.Accounts)
	}
	if total > math.MaxUint8 {
		return nil, CpiData{}, nil, ErrTooManyRemainingAccounts
	}

	remaining = make([]solana.AccountMeta, 0, total)

	ruleData = CpiData{
		Data:       rule.Data,
		StartIndex: 0,
		Length:     uint8(len(rule.Accounts)),
	}

	if cpi != nil {
		cpiData = &CpiData{
			Data:       cpi.Data,
			StartIndex: 0,
			Length:     uint8(len(cpi.Accounts)),
		}
		remaining = append(remaining, RemapAccounts(cpi.Accounts, feePayer)...)
		ruleData.StartIndex = cpiData.Length
	}

	remaining = append(remaining, RemapAccounts(rule.Accounts, feePayer)...)

	return remaining, ruleData, cpiData, nil
}
