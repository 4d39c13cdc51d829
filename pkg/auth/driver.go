// Package auth drives the passkey connect and sign flows against the external
// signing portal, resolving the user's smart wallet and submitting execute
// transactions through the relayer.
package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lazor-kit/wallet-client/pkg/metrics"
	"github.com/lazor-kit/wallet-client/pkg/portal"
	"github.com/lazor-kit/wallet-client/pkg/relayer"
	"github.com/lazor-kit/wallet-client/pkg/session"
	"github.com/lazor-kit/wallet-client/pkg/smartwallet"
	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/lazorkit"
	"github.com/lazor-kit/wallet-client/pkg/surface"
)

const (
	metricsStructName = "auth.driver"

	portalRoundTripMetricName = "PortalRoundTrip"
)

// Driver runs one connect or sign operation at a time. Overlapping calls are
// rejected with ErrOperationInProgress rather than queued.
type Driver struct {
	log  *logrus.Entry
	conf *conf

	wallets   *smartwallet.Client
	submitter relayer.Submitter
	launcher  surface.Launcher
	sessions  *session.Holder

	callbackURL string

	mu    sync.Mutex
	state State
	last  Outcome
}

func NewDriver(
	wallets *smartwallet.Client,
	submitter relayer.Submitter,
	launcher surface.Launcher,
	sessions *session.Holder,
	callbackURL string,
	configProvider ConfigProvider,
) *Driver {
	return &Driver{
		log:         logrus.StandardLogger().WithField("type", "auth/driver"),
		conf:        configProvider(),
		wallets:     wallets,
		submitter:   submitter,
		launcher:    launcher,
		sessions:    sessions,
		callbackURL: callbackURL,
	}
}

// State is either StateIdle or StateAwaitingExternalResponse.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// LastOutcome reports how the most recent operation ended.
func (d *Driver) LastOutcome() Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.last
}

// Wallet returns the connected wallet, or nil.
func (d *Driver) Wallet() *session.WalletInfo {
	return d.sessions.Current()
}

// Disconnect clears the connected wallet.
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateAwaitingExternalResponse {
		return ErrOperationInProgress
	}
	return d.sessions.Clear(ctx)
}

func (d *Driver) begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateAwaitingExternalResponse {
		return ErrOperationInProgress
	}
	d.state = StateAwaitingExternalResponse
	return nil
}

func (d *Driver) end(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case err == nil:
		d.last = Outcome{State: StateResolved}
	case errors.Is(err, ErrUserCancelled):
		d.last = Outcome{State: StateCancelled, Err: err}
	default:
		d.last = Outcome{State: StateFailed, Err: err}
	}
	d.state = StateIdle
}

// PendingWalletHandler observes the wallet as soon as the portal returns,
// before its smart wallet addresses are resolved.
type PendingWalletHandler func(info *session.WalletInfo)

// Connect authenticates a passkey through the portal and resolves the smart
// wallet bound to it, creating one if none exists yet. The resolved wallet is
// persisted as the current session.
func (d *Driver) Connect(ctx context.Context, onPending PendingWalletHandler) (info *session.WalletInfo, err error) {
	if err := d.begin(); err != nil {
		return nil, err
	}
	defer func() {
		d.end(err)
	}()

	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Connect")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	log := d.log.WithField("method", "Connect")

	target := portal.ConnectURL(d.conf.portalUrl.Get(ctx), d.conf.appId.Get(ctx), d.callbackURL)

	redirect, err := d.launch(ctx, target)
	if err != nil {
		return nil, err
	}

	resp, err := portal.ParseConnectRedirect(redirect)
	if err != nil {
		log.WithError(err).Info("portal returned an invalid connect redirect")
		return nil, err
	}

	info = &session.WalletInfo{
		CredentialID:  resp.CredentialID,
		PasskeyPubkey: resp.PasskeyPubkey,
		Platform:      resp.Platform,
		Expo:          resp.Expo,
	}

	log = log.WithField("credential_id", info.CredentialID)

	if onPending != nil {
		pending := info.Clone()
		onPending(&pending)
	}

	wallet, err := d.resolveWallet(ctx, info.PasskeyPubkey)
	if err != nil {
		log.WithError(err).Warn("failure resolving smart wallet")
		return nil, err
	}

	info.SmartWallet = base58.Encode(wallet.SmartWallet)
	info.SmartWalletAuthenticator = base58.Encode(wallet.SmartWalletAuthenticator)

	if err := d.sessions.Set(ctx, info); err != nil {
		return nil, err
	}

	log.WithField("smart_wallet", info.SmartWallet).Info("wallet connected")
	metrics.RecordEvent(ctx, "WalletConnected", map[string]interface{}{
		"smart_wallet": info.SmartWallet,
	})

	return info, nil
}

// resolveWallet looks the passkey up before ever creating a wallet, so the
// same passkey connected from another device finds its existing wallet. After
// a creation is submitted there is exactly one more lookup.
func (d *Driver) resolveWallet(ctx context.Context, passkey []byte) (*smartwallet.Wallet, error) {
	log := d.log.WithField("method", "resolveWallet")

	wallet, err := d.wallets.FindSmartWalletByPasskey(ctx, passkey)
	if err == nil {
		return wallet, nil
	} else if err != smartwallet.ErrWalletNotFound {
		return nil, err
	}

	payer, err := d.payer(ctx)
	if err != nil {
		return nil, err
	}

	created, err := d.wallets.CreateSmartWalletTransaction(ctx, &smartwallet.CreateSmartWalletArgs{
		Passkey: passkey,
		Payer:   payer,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error building create smart wallet transaction")
	}

	log = log.WithFields(logrus.Fields{
		"sequence":     created.Sequence,
		"smart_wallet": base58.Encode(created.SmartWallet),
	})

	if lamports := d.conf.initialDepositLamports.Get(ctx); lamports > 0 {
		deposit, err := d.wallets.DepositTransaction(ctx, payer, created.SmartWallet, lamports)
		if err != nil {
			return nil, errors.Wrap(err, "error building deposit transaction")
		}

		if _, err := d.submitter.Submit(ctx, deposit.ToBase64()); err != nil {
			return nil, err
		}
		log.WithField("lamports", lamports).Debug("submitted initial deposit")
	}

	submitted, err := d.submitter.Submit(ctx, created.Transaction.ToBase64())
	if err != nil {
		return nil, err
	}

	log = log.WithField("txn_id", submitted.TransactionID)
	log.Info("submitted create smart wallet transaction")

	if d.conf.waitForConfirmation.Get(ctx) {
		if err := d.waitForConfirmation(ctx, submitted.TransactionID); err != nil {
			return nil, errors.Wrap(ErrWalletResolutionFailed, err.Error())
		}
	}

	wallet, err = d.wallets.FindSmartWalletByPasskey(ctx, passkey)
	if err == smartwallet.ErrWalletNotFound {
		return nil, ErrWalletResolutionFailed
	} else if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (d *Driver) waitForConfirmation(ctx context.Context, txnID string) error {
	decoded, err := base58.Decode(txnID)
	if err != nil || len(decoded) != ed25519.SignatureSize {
		// Relayers aren't required to report a signature, so there's
		// nothing to poll.
		d.log.WithField("txn_id", txnID).Debug("relayer id is not a signature, skipping confirmation")
		return nil
	}

	var sig solana.Signature
	copy(sig[:], decoded)

	return d.wallets.WaitForConfirmation(
		ctx,
		sig,
		d.conf.confirmationPollInterval.Get(ctx),
		uint(d.conf.confirmationMaxAttempts.Get(ctx)),
	)
}

// SignOptions tune a sign operation. The zero value executes the instruction
// as a CPI gated by the default rule.
type SignOptions struct {
	// Action defaults to lazorkit.ActionExecuteCpi. For any other action the
	// signed instruction is the rule program call and no CPI is made.
	Action lazorkit.Action

	// RuleInstruction replaces the default rule check for ActionExecuteCpi.
	RuleInstruction *solana.Instruction

	// NewAuthenticator binds an extra passkey to the smart wallet.
	NewAuthenticator []byte

	// Message shown to and signed by the passkey. Defaults to the base64
	// SHA-256 digest of the instruction data.
	Message string
}

type SignResult struct {
	Signature     []byte
	Message       []byte
	Transaction   solana.Transaction
	TransactionID string
}

// Sign approves ix with the connected passkey through the portal and submits
// the resulting execute transaction. It fails fast with ErrNotConnected, and
// without opening the portal, when no resolved wallet is connected.
func (d *Driver) Sign(ctx context.Context, ix solana.Instruction, opts *SignOptions) (result *SignResult, err error) {
	if err := d.begin(); err != nil {
		return nil, err
	}
	defer func() {
		d.end(err)
	}()

	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Sign")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if opts == nil {
		opts = &SignOptions{}
	}

	wallet := d.sessions.Current()
	if wallet == nil || !wallet.IsResolved() {
		return nil, ErrNotConnected
	}

	log := d.log.WithFields(logrus.Fields{
		"method":       "Sign",
		"smart_wallet": wallet.SmartWallet,
		"action":       opts.Action.String(),
	})

	if !opts.Action.Valid() {
		return nil, errors.Wrapf(lazorkit.ErrInvalidInstructionData, "invalid action %d", opts.Action)
	}
	if opts.NewAuthenticator != nil && len(opts.NewAuthenticator) != lazorkit.PasskeyPublicKeySize {
		return nil, ErrInvalidKeyMaterial
	}

	smartWallet, authenticator, err := decodeWalletAddresses(wallet)
	if err != nil {
		return nil, err
	}

	payer, err := d.payer(ctx)
	if err != nil {
		return nil, err
	}

	message := opts.Message
	if message == "" {
		message = DefaultMessage(ix)
	}

	target := portal.SignURL(d.conf.portalUrl.Get(ctx), d.conf.appId.Get(ctx), d.callbackURL, message)

	redirect, err := d.launch(ctx, target)
	if err != nil {
		return nil, err
	}

	resp, err := portal.ParseSignRedirect(redirect)
	if err != nil {
		log.WithError(err).Info("portal returned an invalid sign redirect")
		return nil, err
	}

	args := &smartwallet.ExecuteInstructionArgs{
		Passkey:                 wallet.PasskeyPubkey,
		Payer:                   payer,
		SmartWallet:             smartWallet,
		Message:                 resp.Message,
		Signature:               resp.Signature,
		Action:                  opts.Action,
		NewAuthenticatorPasskey: opts.NewAuthenticator,
	}

	if opts.Action == lazorkit.ActionExecuteCpi {
		cpi := ix
		args.CpiInstruction = &cpi

		if opts.RuleInstruction != nil {
			args.RuleInstruction = *opts.RuleInstruction
		} else {
			args.RuleInstruction, err = smartwallet.DefaultRuleInstruction(smartWallet, authenticator)
			if err != nil {
				return nil, err
			}
		}
	} else {
		args.RuleInstruction = ix
	}

	built, err := d.wallets.ExecuteInstructionTransaction(ctx, args)
	if err != nil {
		return nil, errors.Wrap(err, "error building execute transaction")
	}

	submitted, err := d.submitter.Submit(ctx, built.Transaction.ToBase64())
	if err != nil {
		log.WithError(err).Warn("failure submitting execute transaction")
		return nil, err
	}

	log.WithField("txn_id", submitted.TransactionID).Info("execute transaction submitted")

	return &SignResult{
		Signature:     resp.Signature,
		Message:       resp.Message,
		Transaction:   built.Transaction,
		TransactionID: submitted.TransactionID,
	}, nil
}

func (d *Driver) launch(ctx context.Context, target string) (string, error) {
	start := time.Now()
	redirect, err := d.launcher.Launch(ctx, target, d.callbackURL)
	metrics.RecordDuration(ctx, portalRoundTripMetricName, time.Since(start))
	return redirect, err
}

// DefaultMessage is the base64 SHA-256 digest of the instruction data.
func DefaultMessage(ix solana.Instruction) string {
	digest := sha256.Sum256(ix.Data)
	return base64.StdEncoding.EncodeToString(digest[:])
}

func (d *Driver) payer(ctx context.Context) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(d.conf.payer.Get(ctx))
	if err != nil || len(decoded) != ed25519.PublicKeySize {
		return nil, errors.New("configured payer is not a valid public key")
	}
	return ed25519.PublicKey(decoded), nil
}

func decodeWalletAddresses(wallet *session.WalletInfo) (smartWallet, authenticator ed25519.PublicKey, err error) {
	decoded, err := base58.Decode(wallet.SmartWallet)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid smart wallet address")
	}
	smartWallet = decoded

	decoded, err = base58.Decode(wallet.SmartWalletAuthenticator)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid smart wallet authenticator address")
	}
	authenticator = decoded

	return smartWallet, authenticator, nil
}
