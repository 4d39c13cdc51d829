package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureStatus(t *testing.T) {
	zero, one := 0, 1

	testCases := []struct {
		s         SignatureStatus
		confirmed bool
		finalized bool
	}{
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: "",
			},
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: "random",
			},
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: confirmationStatusProcessed,
			},
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &one,
				ConfirmationStatus: "",
			},
			confirmed: true,
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: confirmationStatusConfirmed,
			},
			confirmed: true,
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: confirmationStatusFinalized,
			},
			confirmed: true,
			finalized: true,
		},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.confirmed, tc.s.Confirmed())
		assert.Equal(t, tc.finalized, tc.s.Finalized())
	}
}

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     int               `json:"id"`
}

func newTestRPCServer(t *testing.T, handler func(req rpcRequest) interface{}) Client {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handler(req),
		}))
	}))
	t.Cleanup(server.Close)

	return New(server.URL)
}

func TestClient_GetProgramAccounts(t *testing.T) {
	program := ed25519.PublicKey(bytes.Repeat([]byte{7}, 32))
	account := ed25519.PublicKey(bytes.Repeat([]byte{8}, 32))
	discriminator := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	passkey := bytes.Repeat([]byte{2}, 33)

	c := newTestRPCServer(t, func(req rpcRequest) interface{} {
		require.Equal(t, "getProgramAccounts", req.Method)
		require.Len(t, req.Params, 2)

		var programParam string
		require.NoError(t, json.Unmarshal(req.Params[0], &programParam))
		assert.Equal(t, base58.Encode(program), programParam)

		var config struct {
			Commitment string `json:"commitment"`
			Filters    []struct {
				Memcmp struct {
					Offset uint   `json:"offset"`
					Bytes  string `json:"bytes"`
				} `json:"memcmp"`
			} `json:"filters"`
			DataSlice struct {
				Offset uint `json:"offset"`
				Length uint `json:"length"`
			} `json:"dataSlice"`
		}
		require.NoError(t, json.Unmarshal(req.Params[1], &config))
		assert.Equal(t, "confirmed", config.Commitment)
		require.Len(t, config.Filters, 2)
		assert.EqualValues(t, 0, config.Filters[0].Memcmp.Offset)
		assert.Equal(t, base58.Encode(discriminator), config.Filters[0].Memcmp.Bytes)
		assert.EqualValues(t, 8, config.Filters[1].Memcmp.Offset)
		assert.Equal(t, base58.Encode(passkey), config.Filters[1].Memcmp.Bytes)
		assert.EqualValues(t, 8, config.DataSlice.Offset)
		assert.EqualValues(t, 33, config.DataSlice.Length)

		return []interface{}{
			map[string]interface{}{
				"pubkey": base58.Encode(account),
				"account": map[string]interface{}{
					"lamports": 100,
					"data":     []string{base64.StdEncoding.EncodeToString(passkey), "base64"},
				},
			},
		}
	})

	accounts, err := c.GetProgramAccounts(program, ProgramAccountsQuery{
		Filters: []MemcmpFilter{
			{Offset: 0, Bytes: discriminator},
			{Offset: 8, Bytes: passkey},
		},
		DataSlice: &DataSlice{Offset: 8, Length: 33},
	})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, account, accounts[0].PublicKey)
	assert.Equal(t, passkey, accounts[0].Data)
	assert.EqualValues(t, 100, accounts[0].Lamports)
}

func TestClient_GetAccountInfo(t *testing.T) {
	owner := ed25519.PublicKey(bytes.Repeat([]byte{3}, 32))
	exists := ed25519.PublicKey(bytes.Repeat([]byte{4}, 32))
	missing := ed25519.PublicKey(bytes.Repeat([]byte{5}, 32))

	c := newTestRPCServer(t, func(req rpcRequest) interface{} {
		require.Equal(t, "getAccountInfo", req.Method)

		var address string
		require.NoError(t, json.Unmarshal(req.Params[0], &address))
		if address == base58.Encode(missing) {
			return map[string]interface{}{"context": map[string]interface{}{"slot": 1}, "value": nil}
		}

		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value": map[string]interface{}{
				"lamports":   42,
				"owner":      base58.Encode(owner),
				"data":       []string{base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), "base64"},
				"executable": false,
			},
		}
	})

	info, err := c.GetAccountInfo(exists, CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, owner, info.Owner)
	assert.Equal(t, []byte{1, 2, 3}, info.Data)
	assert.EqualValues(t, 42, info.Lamports)

	_, err = c.GetAccountInfo(missing, CommitmentConfirmed)
	assert.Equal(t, ErrNoAccountInfo, err)
}

func TestClient_GetLatestBlockhash(t *testing.T) {
	expected := Blockhash{}
	for i := range expected {
		expected[i] = byte(i + 1)
	}

	var calls int
	c := newTestRPCServer(t, func(req rpcRequest) interface{} {
		calls++
		require.Equal(t, "getLatestBlockhash", req.Method)

		var commitment Commitment
		require.Len(t, req.Params, 1)
		require.NoError(t, json.Unmarshal(req.Params[0], &commitment))
		assert.Equal(t, CommitmentConfirmed, commitment)

		return map[string]interface{}{
			"value": map[string]interface{}{"blockhash": base58.Encode(expected[:])},
		}
	})

	actual, err := c.GetLatestBlockhash()
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	// Served from the cache
	actual, err = c.GetLatestBlockhash()
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
	assert.Equal(t, 1, calls)
}

func TestSignatureFromBase58(t *testing.T) {
	var expected Signature
	expected[0] = 1
	expected[63] = 2

	actual, err := SignatureFromBase58(base58.Encode(expected[:]))
	require.NoError(t, err)
	assert.Equal(t, expected, actual)

	_, err = SignatureFromBase58(base58.Encode([]byte{1, 2, 3}))
	assert.Error(t, err)

	_, err = SignatureFromBase58("0OIl")
	assert.Error(t, err)
}
