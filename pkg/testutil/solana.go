package testutil

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"sync"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/lazor-kit/wallet-client/pkg/solana"
)

func GenerateSolanaKeypair(t *testing.T) ed25519.PrivateKey {
	_, p, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return p
}

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

// Passkey is a P-256 key standing in for a device passkey.
type Passkey struct {
	key *ecdsa.PrivateKey
}

func GeneratePasskey(t *testing.T) *Passkey {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return &Passkey{key: key}
}

// PublicKey returns the 33 byte compressed public key.
func (p *Passkey) PublicKey() []byte {
	return elliptic.MarshalCompressed(elliptic.P256(), p.key.X, p.key.Y)
}

// Sign returns a raw r||s signature over sha256(message).
func (p *Passkey) Sign(t *testing.T, message []byte) []byte {
	digest := sha256.Sum256(message)
	r, s, err := ecdsa.Sign(rand.Reader, p.key, digest[:])
	require.NoError(t, err)

	signature := make([]byte, 64)
	r.FillBytes(signature[:32])
	s.FillBytes(signature[32:])
	return signature
}

type fakeAccount struct {
	owner ed25519.PublicKey
	data  []byte
}

// FakeSolanaClient is an in memory solana.Client.
type FakeSolanaClient struct {
	mu         sync.Mutex
	accounts   map[string]fakeAccount
	statuses   map[solana.Signature]*solana.SignatureStatus
	Blockhash  solana.Blockhash
	QueryCalls int

	// Number of GetAccountInfo calls made
	AccountInfoCalls int
}

func NewFakeSolanaClient() *FakeSolanaClient {
	return &FakeSolanaClient{
		accounts:  make(map[string]fakeAccount),
		statuses:  make(map[solana.Signature]*solana.SignatureStatus),
		Blockhash: solana.Blockhash{1, 2, 3},
	}
}

func (c *FakeSolanaClient) SetAccount(address, owner ed25519.PublicKey, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accounts[base58.Encode(address)] = fakeAccount{
		owner: owner,
		data:  append([]byte{}, data...),
	}
}

func (c *FakeSolanaClient) SetSignatureStatus(sig solana.Signature, status *solana.SignatureStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.statuses[sig] = status
}

func (c *FakeSolanaClient) GetAccountInfo(address ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.AccountInfoCalls++

	account, ok := c.accounts[base58.Encode(address)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}

	return solana.AccountInfo{
		Data:  append([]byte{}, account.data...),
		Owner: account.owner,
	}, nil
}

func (c *FakeSolanaClient) GetBalance(address ed25519.PublicKey) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.accounts[base58.Encode(address)]; !ok {
		return 0, solana.ErrNoBalance
	}
	return 0, nil
}

func (c *FakeSolanaClient) GetLatestBlockhash() (solana.Blockhash, error) {
	return c.Blockhash, nil
}

func (c *FakeSolanaClient) GetProgramAccounts(program ed25519.PublicKey, query solana.ProgramAccountsQuery) ([]solana.ProgramAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.QueryCalls++

	var res []solana.ProgramAccount
	for address, account := range c.accounts {
		if !bytes.Equal(account.owner, program) {
			continue
		}

		matches := true
		for _, filter := range query.Filters {
			end := int(filter.Offset) + len(filter.Bytes)
			if end > len(account.data) || !bytes.Equal(account.data[filter.Offset:end], filter.Bytes) {
				matches = false
				break
			}
		}
		if !matches {
			continue
		}

		data := account.data
		if query.DataSlice != nil {
			start := int(query.DataSlice.Offset)
			end := start + int(query.DataSlice.Length)
			if start > len(data) {
				start = len(data)
			}
			if end > len(data) {
				end = len(data)
			}
			data = data[start:end]
		}

		decoded, err := base58.Decode(address)
		if err != nil {
			return nil, err
		}

		res = append(res, solana.ProgramAccount{
			PublicKey: decoded,
			Data:      append([]byte{}, data...),
		})
	}
	return res, nil
}

func (c *FakeSolanaClient) GetSignatureStatus(sig solana.Signature, _ solana.Commitment) (*solana.SignatureStatus, error) {
	statuses, err := c.GetSignatureStatuses([]solana.Signature{sig})
	if err != nil {
		return nil, err
	}
	if statuses[0] == nil {
		return nil, solana.ErrSignatureNotFound
	}
	if statuses[0].ErrorResult != nil {
		return statuses[0], statuses[0].ErrorResult
	}
	return statuses[0], nil
}

func (c *FakeSolanaClient) GetSignatureStatuses(sigs []solana.Signature) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := make([]*solana.SignatureStatus, len(sigs))
	for i, sig := range sigs {
		res[i] = c.statuses[sig]
	}
	return res, nil
}
