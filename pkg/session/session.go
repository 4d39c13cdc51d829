package session

import (
	"context"
	"errors"

	"github.com/mr-tron/base58"
)

// StorageKey is the single well known key the connected wallet is persisted
// under.
const StorageKey = "lazor_wallet_info"

const passkeyPublicKeySize = 33

var (
	ErrSessionNotFound = errors.New("session record not found")
	ErrInvalidRecord   = errors.New("invalid session record")
)

type Store interface {
	// Save creates or replaces the record stored under key
	Save(ctx context.Context, key string, record *WalletInfo) error

	// Get gets the record stored under key. ErrSessionNotFound is returned if
	// no record exists.
	Get(ctx context.Context, key string) (*WalletInfo, error)

	// Delete removes the record stored under key. Deleting a missing record
	// is not an error.
	Delete(ctx context.Context, key string) error
}

// WalletInfo is the connected wallet. The smart wallet fields stay empty
// until resolution completes.
type WalletInfo struct {
	CredentialID  string `json:"credentialId"`
	PasskeyPubkey []byte `json:"passkeyPubkey"`
	Platform      string `json:"platform"`
	Expo          string `json:"expo"`

	SmartWallet              string `json:"smartWallet,omitempty"`
	SmartWalletAuthenticator string `json:"smartWalletAuthenticator,omitempty"`
}

// IsResolved reports whether the smart wallet addresses have been filled in.
func (w *WalletInfo) IsResolved() bool {
	return len(w.SmartWallet) > 0 && len(w.SmartWalletAuthenticator) > 0
}

func (w *WalletInfo) Validate() error {
	if len(w.CredentialID) == 0 {
		return errors.New("credential id is required")
	}

	if len(w.PasskeyPubkey) != passkeyPublicKeySize {
		return errors.New("passkey public key must be a 33 byte compressed point")
	}

	if (len(w.SmartWallet) == 0) != (len(w.SmartWalletAuthenticator) == 0) {
		return errors.New("smart wallet and authenticator must be set together")
	}

	if w.IsResolved() {
		for _, address := range []string{w.SmartWallet, w.SmartWalletAuthenticator} {
			decoded, err := base58.Decode(address)
			if err != nil || len(decoded) != 32 {
				return errors.New("smart wallet addresses must be base58 encoded public keys")
			}
		}
	}

	return nil
}

func (w *WalletInfo) Clone() WalletInfo {
	passkey := make([]byte, len(w.PasskeyPubkey))
	copy(passkey, w.PasskeyPubkey)

	return WalletInfo{
		CredentialID:             w.CredentialID,
		PasskeyPubkey:            passkey,
		Platform:                 w.Platform,
		Expo:                     w.Expo,
		SmartWallet:              w.SmartWallet,
		SmartWalletAuthenticator: w.SmartWalletAuthenticator,
	}
}
