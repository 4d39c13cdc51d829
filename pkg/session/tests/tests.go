package tests

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazor-kit/wallet-client/pkg/session"
)

func RunTests(t *testing.T, s session.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s session.Store){
		testRoundTrip,
		testDelete,
		testInvalidRecord,
		testKeyIsolation,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s session.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, session.StorageKey)
		assert.Equal(t, session.ErrSessionNotFound, err)

		expected := newRecord(t)
		cloned := expected.Clone()

		require.NoError(t, s.Save(ctx, session.StorageKey, expected))

		actual, err := s.Get(ctx, session.StorageKey)
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)
		assert.False(t, actual.IsResolved())

		expected.SmartWallet = randomAddress(t)
		expected.SmartWalletAuthenticator = randomAddress(t)
		cloned = expected.Clone()

		require.NoError(t, s.Save(ctx, session.StorageKey, expected))

		actual, err = s.Get(ctx, session.StorageKey)
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)
		assert.True(t, actual.IsResolved())
	})
}

func testDelete(t *testing.T, s session.Store) {
	t.Run("testDelete", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Delete(ctx, session.StorageKey))

		require.NoError(t, s.Save(ctx, session.StorageKey, newRecord(t)))
		require.NoError(t, s.Delete(ctx, session.StorageKey))

		_, err := s.Get(ctx, session.StorageKey)
		assert.Equal(t, session.ErrSessionNotFound, err)
	})
}

func testInvalidRecord(t *testing.T, s session.Store) {
	t.Run("testInvalidRecord", func(t *testing.T) {
		ctx := context.Background()

		record := newRecord(t)
		record.PasskeyPubkey = record.PasskeyPubkey[:32]
		assert.Error(t, s.Save(ctx, session.StorageKey, record))

		record = newRecord(t)
		record.SmartWallet = randomAddress(t)
		assert.Error(t, s.Save(ctx, session.StorageKey, record))

		_, err := s.Get(ctx, session.StorageKey)
		assert.Equal(t, session.ErrSessionNotFound, err)
	})
}

func testKeyIsolation(t *testing.T, s session.Store) {
	t.Run("testKeyIsolation", func(t *testing.T) {
		ctx := context.Background()

		first := newRecord(t)
		second := newRecord(t)

		require.NoError(t, s.Save(ctx, "first", first))
		require.NoError(t, s.Save(ctx, "second", second))

		actual, err := s.Get(ctx, "first")
		require.NoError(t, err)
		assertEquivalentRecords(t, first, actual)

		require.NoError(t, s.Delete(ctx, "first"))

		actual, err = s.Get(ctx, "second")
		require.NoError(t, err)
		assertEquivalentRecords(t, second, actual)
	})
}

func newRecord(t *testing.T) *session.WalletInfo {
	passkey := make([]byte, 33)
	_, err := rand.Read(passkey)
	require.NoError(t, err)
	passkey[0] = 0x02

	credential := make([]byte, 16)
	_, err = rand.Read(credential)
	require.NoError(t, err)

	return &session.WalletInfo{
		CredentialID:  base58.Encode(credential),
		PasskeyPubkey: passkey,
		Platform:      "android",
		Expo:          "exp://127.0.0.1:8081",
	}
}

func randomAddress(t *testing.T) string {
	buf := make([]byte, 32)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return base58.Encode(buf)
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *session.WalletInfo) {
	assert.Equal(t, obj1.CredentialID, obj2.CredentialID)
	assert.Equal(t, obj1.PasskeyPubkey, obj2.PasskeyPubkey)
	assert.Equal(t, obj1.Platform, obj2.Platform)
	assert.Equal(t, obj1.Expo, obj2.Expo)
	assert.Equal(t, obj1.SmartWallet, obj2.SmartWallet)
	assert.Equal(t, obj1.SmartWalletAuthenticator, obj2.SmartWalletAuthenticator)
}
