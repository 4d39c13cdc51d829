package smartwallet

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lazor-kit/wallet-client/pkg/cache"
	"github.com/lazor-kit/wallet-client/pkg/metrics"
	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/defaultrule"
	"github.com/lazor-kit/wallet-client/pkg/solana/lazorkit"
)

const (
	metricsStructName = "smartwallet.client"

	confirmationAttemptsMetricName = "ConfirmationPollAttempts"

	// Position of the secp256r1 verification within an execute transaction
	verifyInstructionIndex = 0

	// Authenticators are immutable once created, so lookups are cached
	authenticatorCacheSize = 1024
)

var (
	ErrWalletNotFound = errors.New("smart wallet not found")
)

// Client reads smart wallet program state and assembles unsigned
// transactions for it. Fee payer signatures are left for the relayer.
type Client struct {
	log *logrus.Entry
	sc  solana.Client

	authenticators *cache.Cache[lazorkit.SmartWalletAuthenticatorAccount]
}

func NewClient(sc solana.Client) *Client {
	return &Client{
		log:            logrus.StandardLogger().WithField("type", "smartwallet/client"),
		sc:             sc,
		authenticators: cache.New[lazorkit.SmartWalletAuthenticatorAccount](authenticatorCacheSize),
	}
}

// GetConfig fetches the program's Config singleton.
func (c *Client) GetConfig(ctx context.Context) (*lazorkit.ConfigAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetConfig")
	defer tracer.End()

	address, _, err := lazorkit.GetConfigAddress()
	if err != nil {
		return nil, err
	}

	var account lazorkit.ConfigAccount
	if err := c.fetchAccount(ctx, address, &account); err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error getting config account")
	}
	return &account, nil
}

// GetSmartWalletSeq fetches the sequence tracker used to derive new wallets.
func (c *Client) GetSmartWalletSeq(ctx context.Context) (*lazorkit.SmartWalletSeqAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetSmartWalletSeq")
	defer tracer.End()

	address, _, err := lazorkit.GetSmartWalletSeqAddress()
	if err != nil {
		return nil, err
	}

	var account lazorkit.SmartWalletSeqAccount
	if err := c.fetchAccount(ctx, address, &account); err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error getting smart wallet sequence account")
	}
	return &account, nil
}

// GetLatestSmartWallet returns the address the next created smart wallet
// will have, as of the currently observed sequence value.
func (c *Client) GetLatestSmartWallet(ctx context.Context) (ed25519.PublicKey, error) {
	seq, err := c.GetSmartWalletSeq(ctx)
	if err != nil {
		return nil, err
	}

	address, _, err := lazorkit.GetSmartWalletAddress(&lazorkit.GetSmartWalletAddressArgs{
		Sequence: seq.Seq,
	})
	return address, err
}

func (c *Client) GetSmartWalletConfig(ctx context.Context, smartWallet ed25519.PublicKey) (*lazorkit.SmartWalletConfigAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetSmartWalletConfig")
	defer tracer.End()

	address, _, err := lazorkit.GetSmartWalletConfigAddress(&lazorkit.GetSmartWalletConfigAddressArgs{
		SmartWallet: smartWallet,
	})
	if err != nil {
		return nil, err
	}

	var account lazorkit.SmartWalletConfigAccount
	if err := c.fetchAccount(ctx, address, &account); err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error getting smart wallet config account")
	}
	return &account, nil
}

func (c *Client) GetSmartWalletAuthenticator(ctx context.Context, address ed25519.PublicKey) (*lazorkit.SmartWalletAuthenticatorAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetSmartWalletAuthenticator")
	defer tracer.End()

	key := base58.Encode(address)
	if cached, ok := c.authenticators.Retrieve(key); ok {
		return &cached, nil
	}

	var account lazorkit.SmartWalletAuthenticatorAccount
	if err := c.fetchAccount(ctx, address, &account); err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error getting smart wallet authenticator account")
	}

	// A concurrent fetch may have inserted the same account first
	_ = c.authenticators.Insert(key, account, 1)

	return &account, nil
}

func (c *Client) GetWhitelistRulePrograms(ctx context.Context) (*lazorkit.WhitelistRuleProgramsAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetWhitelistRulePrograms")
	defer tracer.End()

	address, _, err := lazorkit.GetWhitelistRuleProgramsAddress()
	if err != nil {
		return nil, err
	}

	var account lazorkit.WhitelistRuleProgramsAccount
	if err := c.fetchAccount(ctx, address, &account); err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error getting whitelist rule programs account")
	}
	return &account, nil
}

// Wallet is a smart wallet located through one of its authenticators.
type Wallet struct {
	SmartWallet              ed25519.PublicKey
	SmartWalletAuthenticator ed25519.PublicKey
}

// FindSmartWalletByPasskey locates the authenticator bound to passkey and the
// smart wallet it belongs to. ErrWalletNotFound is returned when no
// authenticator exists for the passkey.
func (c *Client) FindSmartWalletByPasskey(ctx context.Context, passkey []byte) (*Wallet, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "FindSmartWalletByPasskey")
	defer tracer.End()

	log := c.log.WithField("method", "FindSmartWalletByPasskey")

	if len(passkey) != lazorkit.PasskeyPublicKeySize {
		return nil, lazorkit.ErrInvalidKeyMaterial
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accounts, err := c.sc.GetProgramAccounts(lazorkit.PROGRAM_ID, solana.ProgramAccountsQuery{
		Commitment: solana.CommitmentConfirmed,
		Filters: []solana.MemcmpFilter{
			{
				Offset: 0,
				Bytes:  lazorkit.SmartWalletAuthenticatorAccountDiscriminator,
			},
			{
				Offset: lazorkit.SmartWalletAuthenticatorPasskeyOffset,
				Bytes:  passkey,
			},
		},
		DataSlice: &solana.DataSlice{
			Offset: lazorkit.SmartWalletAuthenticatorPasskeyOffset,
			Length: lazorkit.PasskeyPublicKeySize,
		},
	})
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error querying smart wallet authenticators")
	}

	if len(accounts) == 0 {
		return nil, ErrWalletNotFound
	}
	if len(accounts) > 1 {
		// Each authenticator binds the passkey to a different wallet. The
		// first is used, matching the order the RPC returned.
		log.WithField("count", len(accounts)).Warn("multiple authenticators found for passkey")
	}

	authenticator, err := c.GetSmartWalletAuthenticator(ctx, accounts[0].PublicKey)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		SmartWallet:              authenticator.SmartWallet,
		SmartWalletAuthenticator: accounts[0].PublicKey,
	}, nil
}

type accountUnmarshaler interface {
	Unmarshal([]byte) error
}

func (c *Client) fetchAccount(ctx context.Context, address ed25519.PublicKey, dst accountUnmarshaler) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := c.sc.GetAccountInfo(address, solana.CommitmentConfirmed)
	if err != nil {
		return errors.Wrapf(err, "account %s", base58.Encode(address))
	}
	return dst.Unmarshal(info.Data)
}

// DefaultRuleInstruction returns the default rule's check instruction for a
// smart wallet authenticator.
func DefaultRuleInstruction(smartWallet, smartWalletAuthenticator ed25519.PublicKey) (solana.Instruction, error) {
	rule, _, err := defaultrule.GetRuleAddress(&defaultrule.GetRuleAddressArgs{
		SmartWallet: smartWallet,
	})
	if err != nil {
		return solana.Instruction{}, err
	}

	return defaultrule.NewCheckRuleInstruction(&defaultrule.CheckRuleInstructionAccounts{
		SmartWalletAuthenticator: smartWalletAuthenticator,
		Rule:                     rule,
	}), nil
}
