package testutil

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lazor-kit/wallet-client/pkg/solana/defaultrule"
	"github.com/lazor-kit/wallet-client/pkg/solana/lazorkit"
)

// SetupLazorkitProgram seeds the program config and sequence accounts as if
// initialize had run and seq wallets had been created.
func SetupLazorkitProgram(t *testing.T, sc *FakeSolanaClient, seq uint64) {
	config, _, err := lazorkit.GetConfigAddress()
	require.NoError(t, err)

	data := append([]byte{}, lazorkit.ConfigAccountDiscriminator...)
	data = binary.LittleEndian.AppendUint64(data, 0)
	data = append(data, defaultrule.PROGRAM_ID...)
	sc.SetAccount(config, lazorkit.PROGRAM_ID, data)

	SetSmartWalletSeq(t, sc, seq)
}

func SetSmartWalletSeq(t *testing.T, sc *FakeSolanaClient, seq uint64) {
	address, bump, err := lazorkit.GetSmartWalletSeqAddress()
	require.NoError(t, err)

	data := append([]byte{}, lazorkit.SmartWalletSeqAccountDiscriminator...)
	data = binary.LittleEndian.AppendUint64(data, seq)
	data = append(data, bump)
	sc.SetAccount(address, lazorkit.PROGRAM_ID, data)
}

// SetSmartWalletAuthenticator binds passkey to smartWallet on the fake chain
// and returns the authenticator address.
func SetSmartWalletAuthenticator(t *testing.T, sc *FakeSolanaClient, passkey []byte, smartWallet ed25519.PublicKey) ed25519.PublicKey {
	address, bump, err := lazorkit.GetSmartWalletAuthenticatorAddress(&lazorkit.GetSmartWalletAuthenticatorAddressArgs{
		Passkey:     passkey,
		SmartWallet: smartWallet,
	})
	require.NoError(t, err)

	data := append([]byte{}, lazorkit.SmartWalletAuthenticatorAccountDiscriminator...)
	data = append(data, passkey...)
	data = append(data, smartWallet...)
	data = append(data, bump)
	sc.SetAccount(address, lazorkit.PROGRAM_ID, data)

	return address
}
