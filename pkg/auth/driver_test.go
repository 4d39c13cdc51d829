package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazor-kit/wallet-client/pkg/portal"
	"github.com/lazor-kit/wallet-client/pkg/relayer"
	"github.com/lazor-kit/wallet-client/pkg/session"
	"github.com/lazor-kit/wallet-client/pkg/session/memory"
	"github.com/lazor-kit/wallet-client/pkg/smartwallet"
	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/defaultrule"
	"github.com/lazor-kit/wallet-client/pkg/solana/lazorkit"
	"github.com/lazor-kit/wallet-client/pkg/solana/secp256r1"
	"github.com/lazor-kit/wallet-client/pkg/solana/system"
	"github.com/lazor-kit/wallet-client/pkg/surface"
	"github.com/lazor-kit/wallet-client/pkg/testutil"
)

const testCallback = "myapp://auth"

type fakeLauncher struct {
	mu      sync.Mutex
	targets []string
	respond func(target string) (string, error)
}

func (l *fakeLauncher) Launch(_ context.Context, target, callbackURL string) (string, error) {
	l.mu.Lock()
	l.targets = append(l.targets, target)
	respond := l.respond
	l.mu.Unlock()

	if callbackURL != testCallback {
		return "", surface.ErrUserCancelled
	}
	return respond(target)
}

func (l *fakeLauncher) launches() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.targets...)
}

type fakeSubmitter struct {
	mu        sync.Mutex
	submitted []solana.Transaction
	onSubmit  func(txn solana.Transaction) (*relayer.Result, error)
}

func (s *fakeSubmitter) Submit(_ context.Context, encodedTxn string) (*relayer.Result, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedTxn)
	if err != nil {
		return nil, err
	}

	var txn solana.Transaction
	if err := txn.Unmarshal(raw); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.submitted = append(s.submitted, txn)
	onSubmit := s.onSubmit
	s.mu.Unlock()

	if onSubmit == nil {
		return &relayer.Result{TransactionID: "relayed"}, nil
	}
	return onSubmit(txn)
}

func (s *fakeSubmitter) transactions() []solana.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]solana.Transaction{}, s.submitted...)
}

type testEnv struct {
	ctx       context.Context
	sc        *testutil.FakeSolanaClient
	launcher  *fakeLauncher
	submitter *fakeSubmitter
	sessions  *session.Holder
	driver    *Driver
	payer     ed25519.PublicKey
	seq       uint64
	overrides *testOverrides
}

func setup(t *testing.T, seq uint64, overrides *testOverrides) *testEnv {
	sc := testutil.NewFakeSolanaClient()
	testutil.SetupLazorkitProgram(t, sc, seq)

	payer := testutil.GenerateSolanaKeys(t, 1)[0]
	overrides.payer = base58.Encode(payer)

	env := &testEnv{
		ctx:       context.Background(),
		sc:        sc,
		launcher:  &fakeLauncher{},
		submitter: &fakeSubmitter{},
		sessions:  session.NewHolder(memory.New()),
		payer:     payer,
		seq:       seq,
		overrides: overrides,
	}
	env.driver = env.newDriver(env.sessions)
	return env
}

// newDriver returns a driver sharing the chain and relayer, as a second
// device would.
func (e *testEnv) newDriver(sessions *session.Holder) *Driver {
	return NewDriver(
		smartwallet.NewClient(e.sc),
		e.submitter,
		e.launcher,
		sessions,
		testCallback,
		withManualTestOverrides(e.overrides),
	)
}

// landCreations makes every submitted createSmartWallet transaction take
// effect on the fake chain.
func (e *testEnv) landCreations(t *testing.T, passkey []byte) {
	seq := e.seq
	e.submitter.onSubmit = func(txn solana.Transaction) (*relayer.Result, error) {
		if !isCreateSmartWallet(txn) {
			return &relayer.Result{TransactionID: "deposit"}, nil
		}

		smartWallet, _, err := lazorkit.GetSmartWalletAddress(&lazorkit.GetSmartWalletAddressArgs{Sequence: seq})
		require.NoError(t, err)
		testutil.SetSmartWalletAuthenticator(t, e.sc, passkey, smartWallet)

		seq++
		testutil.SetSmartWalletSeq(t, e.sc, seq)

		return &relayer.Result{TransactionID: "created"}, nil
	}
}

func isCreateSmartWallet(txn solana.Transaction) bool {
	if len(txn.Message.Instructions) != 1 {
		return false
	}
	ix := txn.Message.Instructions[0]
	return txn.Message.Accounts[ix.ProgramIndex].Equal(lazorkit.PROGRAM_ID)
}

func connectResponder(credentialID string, passkey []byte) func(string) (string, error) {
	resp := &portal.ConnectResponse{
		CredentialID:  credentialID,
		PasskeyPubkey: passkey,
		Platform:      "android",
		Expo:          "my-web-app",
	}
	return func(string) (string, error) {
		return resp.RedirectURL(testCallback), nil
	}
}

func TestConnect_CreatesWallet(t *testing.T) {
	env := setup(t, 3, &testOverrides{})

	passkey := testutil.GeneratePasskey(t).PublicKey()
	env.launcher.respond = connectResponder("credential", passkey)
	env.landCreations(t, passkey)

	var pending *session.WalletInfo
	info, err := env.driver.Connect(env.ctx, func(info *session.WalletInfo) {
		pending = info
	})
	require.NoError(t, err)

	require.NotNil(t, pending)
	assert.Equal(t, "credential", pending.CredentialID)
	assert.Equal(t, passkey, pending.PasskeyPubkey)
	assert.False(t, pending.IsResolved())

	expectedWallet, _, err := lazorkit.GetSmartWalletAddress(&lazorkit.GetSmartWalletAddressArgs{Sequence: 3})
	require.NoError(t, err)
	expectedAuthenticator, _, err := lazorkit.GetSmartWalletAuthenticatorAddress(&lazorkit.GetSmartWalletAuthenticatorAddressArgs{
		Passkey:     passkey,
		SmartWallet: expectedWallet,
	})
	require.NoError(t, err)

	assert.Equal(t, base58.Encode(expectedWallet), info.SmartWallet)
	assert.Equal(t, base58.Encode(expectedAuthenticator), info.SmartWalletAuthenticator)
	assert.Equal(t, "android", info.Platform)

	submitted := env.submitter.transactions()
	require.Len(t, submitted, 1)
	assert.True(t, isCreateSmartWallet(submitted[0]))
	assert.Equal(t, env.payer, submitted[0].Message.Accounts[0])

	launches := env.launcher.launches()
	require.Len(t, launches, 1)
	assert.Equal(t, portal.ConnectURL(portal.DefaultURL, portal.DefaultAppID, testCallback), launches[0])

	current := env.sessions.Current()
	require.NotNil(t, current)
	assert.Equal(t, *info, *current)

	assert.Equal(t, StateIdle, env.driver.State())
	assert.Equal(t, StateResolved, env.driver.LastOutcome().State)
}

func TestConnect_Idempotent(t *testing.T) {
	env := setup(t, 0, &testOverrides{})

	passkey := testutil.GeneratePasskey(t).PublicKey()
	env.launcher.respond = connectResponder("credential", passkey)
	env.landCreations(t, passkey)

	first, err := env.driver.Connect(env.ctx, nil)
	require.NoError(t, err)

	second, err := env.driver.Connect(env.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first.SmartWallet, second.SmartWallet)

	// Same passkey from another device with no local session
	otherDevice := env.newDriver(session.NewHolder(memory.New()))
	third, err := otherDevice.Connect(env.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first.SmartWallet, third.SmartWallet)
	assert.Equal(t, first.SmartWalletAuthenticator, third.SmartWalletAuthenticator)

	assert.Len(t, env.submitter.transactions(), 1)
}

func TestConnect_ExistingWalletZeroPasskey(t *testing.T) {
	env := setup(t, 1, &testOverrides{})

	passkey := make([]byte, 33)
	smartWallet, _, err := lazorkit.GetSmartWalletAddress(&lazorkit.GetSmartWalletAddressArgs{Sequence: 0})
	require.NoError(t, err)
	authenticator := testutil.SetSmartWalletAuthenticator(t, env.sc, passkey, smartWallet)

	env.launcher.respond = func(string) (string, error) {
		return testCallback + "?success=true&credentialId=abc&publicKey=" + url.QueryEscape(base64.StdEncoding.EncodeToString(passkey)), nil
	}

	var pending *session.WalletInfo
	info, err := env.driver.Connect(env.ctx, func(info *session.WalletInfo) {
		pending = info
	})
	require.NoError(t, err)

	require.NotNil(t, pending)
	assert.Equal(t, "abc", pending.CredentialID)
	assert.Equal(t, passkey, pending.PasskeyPubkey)
	assert.Empty(t, pending.SmartWallet)
	assert.Empty(t, pending.SmartWalletAuthenticator)

	assert.Equal(t, base58.Encode(smartWallet), info.SmartWallet)
	assert.Equal(t, base58.Encode(authenticator), info.SmartWalletAuthenticator)
	assert.Empty(t, env.submitter.transactions())
}

func TestConnect_InvalidRedirect(t *testing.T) {
	passkey := base64.StdEncoding.EncodeToString(make([]byte, 33))

	for _, redirect := range []string{
		testCallback + "?credentialId=abc&publicKey=" + url.QueryEscape(passkey),
		testCallback + "?success=false&credentialId=abc&publicKey=" + url.QueryEscape(passkey),
		testCallback + "?success=true&publicKey=" + url.QueryEscape(passkey),
		testCallback + "?success=true&credentialId=abc",
		testCallback + "?success=true&credentialId=abc&publicKey=%25%25%25",
	} {
		env := setup(t, 0, &testOverrides{})
		env.launcher.respond = func(string) (string, error) {
			return redirect, nil
		}

		var pendingCalled bool
		_, err := env.driver.Connect(env.ctx, func(*session.WalletInfo) {
			pendingCalled = true
		})
		assert.ErrorIs(t, err, ErrInvalidRedirectPayload, redirect)
		assert.False(t, pendingCalled)
		assert.Empty(t, env.submitter.transactions())
		assert.Nil(t, env.sessions.Current())
		assert.Equal(t, StateFailed, env.driver.LastOutcome().State)
		assert.Equal(t, StateIdle, env.driver.State())
	}
}

func TestConnect_WrongKeyLength(t *testing.T) {
	for _, size := range []int{32, 34, 65} {
		env := setup(t, 0, &testOverrides{})
		env.launcher.respond = connectResponder("credential", make([]byte, size))

		_, err := env.driver.Connect(env.ctx, nil)
		assert.ErrorIs(t, err, ErrInvalidRedirectPayload)
		assert.NotErrorIs(t, err, ErrInvalidKeyMaterial)
		assert.Zero(t, env.sc.QueryCalls)
		assert.Empty(t, env.submitter.transactions())
		assert.Nil(t, env.sessions.Current())
	}
}

func TestConnect_UserCancelled(t *testing.T) {
	env := setup(t, 0, &testOverrides{})
	env.launcher.respond = func(string) (string, error) {
		return "", surface.ErrUserCancelled
	}

	_, err := env.driver.Connect(env.ctx, nil)
	assert.ErrorIs(t, err, ErrUserCancelled)
	assert.Equal(t, StateCancelled, env.driver.LastOutcome().State)
	assert.Equal(t, StateIdle, env.driver.State())
}

func TestConnect_WalletResolutionFailed(t *testing.T) {
	env := setup(t, 0, &testOverrides{})

	passkey := testutil.GeneratePasskey(t).PublicKey()
	env.launcher.respond = connectResponder("credential", passkey)

	_, err := env.driver.Connect(env.ctx, nil)
	assert.ErrorIs(t, err, ErrWalletResolutionFailed)

	// One lookup before creating, exactly one after
	assert.Equal(t, 2, env.sc.QueryCalls)
	assert.Len(t, env.submitter.transactions(), 1)
	assert.Nil(t, env.sessions.Current())
}

func TestConnect_RelayerFailure(t *testing.T) {
	env := setup(t, 0, &testOverrides{})

	passkey := testutil.GeneratePasskey(t).PublicKey()
	env.launcher.respond = connectResponder("credential", passkey)
	env.submitter.onSubmit = func(solana.Transaction) (*relayer.Result, error) {
		return nil, relayer.ErrRelayerSubmissionFailed
	}

	_, err := env.driver.Connect(env.ctx, nil)
	assert.ErrorIs(t, err, ErrRelayerSubmissionFailed)
	assert.Equal(t, 1, env.sc.QueryCalls)
}

func TestConnect_InitialDeposit(t *testing.T) {
	env := setup(t, 5, &testOverrides{initialDepositLamports: 10_000_000})

	passkey := testutil.GeneratePasskey(t).PublicKey()
	env.launcher.respond = connectResponder("credential", passkey)
	env.landCreations(t, passkey)

	info, err := env.driver.Connect(env.ctx, nil)
	require.NoError(t, err)

	submitted := env.submitter.transactions()
	require.Len(t, submitted, 2)

	transfer, err := system.DecompileTransfer(submitted[0].Message, 0)
	require.NoError(t, err)
	assert.Equal(t, env.payer, transfer.From)
	assert.Equal(t, info.SmartWallet, base58.Encode(transfer.To))
	assert.EqualValues(t, 10_000_000, transfer.Lamports)

	assert.True(t, isCreateSmartWallet(submitted[1]))
}

func TestConnect_WaitsForConfirmation(t *testing.T) {
	for _, tc := range []struct {
		status *solana.SignatureStatus
		err    error
	}{
		{&solana.SignatureStatus{ConfirmationStatus: "confirmed"}, nil},
		{&solana.SignatureStatus{ErrorResult: solana.NewTransactionError(solana.TransactionErrorAccountNotFound)}, ErrWalletResolutionFailed},
		{nil, ErrWalletResolutionFailed},
	} {
		env := setup(t, 0, &testOverrides{waitForConfirmation: true})

		passkey := testutil.GeneratePasskey(t).PublicKey()
		env.launcher.respond = connectResponder("credential", passkey)

		var sig solana.Signature
		_, err := rand.Read(sig[:])
		require.NoError(t, err)

		env.submitter.onSubmit = func(solana.Transaction) (*relayer.Result, error) {
			smartWallet, _, err := lazorkit.GetSmartWalletAddress(&lazorkit.GetSmartWalletAddressArgs{Sequence: 0})
			require.NoError(t, err)
			testutil.SetSmartWalletAuthenticator(t, env.sc, passkey, smartWallet)

			if tc.status != nil {
				env.sc.SetSignatureStatus(sig, tc.status)
			}
			return &relayer.Result{TransactionID: base58.Encode(sig[:])}, nil
		}

		_, err = env.driver.Connect(env.ctx, nil)
		if tc.err == nil {
			require.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, tc.err)
		}
	}
}

func TestSign_NotConnected(t *testing.T) {
	env := setup(t, 0, &testOverrides{})
	env.launcher.respond = func(string) (string, error) {
		t.Fatal("portal must not be opened")
		return "", nil
	}

	keys := testutil.GenerateSolanaKeys(t, 2)
	_, err := env.driver.Sign(env.ctx, system.Transfer(keys[0], keys[1], 1), nil)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, env.launcher.launches())
	assert.Equal(t, StateFailed, env.driver.LastOutcome().State)
}

func TestSign_RejectedWhileConnectPending(t *testing.T) {
	env := setup(t, 0, &testOverrides{})

	passkey := testutil.GeneratePasskey(t).PublicKey()
	env.landCreations(t, passkey)

	release := make(chan struct{})
	launched := make(chan struct{})
	redirect := connectResponder("credential", passkey)
	env.launcher.respond = func(target string) (string, error) {
		close(launched)
		<-release
		return redirect(target)
	}

	done := make(chan error, 1)
	go func() {
		_, err := env.driver.Connect(env.ctx, nil)
		done <- err
	}()

	<-launched
	assert.Equal(t, StateAwaitingExternalResponse, env.driver.State())

	keys := testutil.GenerateSolanaKeys(t, 2)
	_, err := env.driver.Sign(env.ctx, system.Transfer(keys[0], keys[1], 1), nil)
	assert.Equal(t, ErrOperationInProgress, err)

	_, err = env.driver.Connect(env.ctx, nil)
	assert.Equal(t, ErrOperationInProgress, err)

	assert.Equal(t, ErrOperationInProgress, env.driver.Disconnect(env.ctx))

	// No second surface was opened
	assert.Len(t, env.launcher.launches(), 1)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("connect did not resolve")
	}
	assert.Equal(t, StateIdle, env.driver.State())
}

type connectedEnv struct {
	*testEnv
	passkey       *testutil.Passkey
	smartWallet   ed25519.PublicKey
	authenticator ed25519.PublicKey
}

func setupConnected(t *testing.T) *connectedEnv {
	env := setup(t, 1, &testOverrides{})

	passkey := testutil.GeneratePasskey(t)
	smartWallet, _, err := lazorkit.GetSmartWalletAddress(&lazorkit.GetSmartWalletAddressArgs{Sequence: 0})
	require.NoError(t, err)
	authenticator := testutil.SetSmartWalletAuthenticator(t, env.sc, passkey.PublicKey(), smartWallet)

	env.launcher.respond = connectResponder("credential", passkey.PublicKey())
	_, err = env.driver.Connect(env.ctx, nil)
	require.NoError(t, err)
	require.Empty(t, env.submitter.transactions())

	return &connectedEnv{
		testEnv:       env,
		passkey:       passkey,
		smartWallet:   smartWallet,
		authenticator: authenticator,
	}
}

func (e *connectedEnv) respondWithSignature(t *testing.T, expectedMessage string) []byte {
	signedBytes := []byte("authenticator-data||client-data-hash")
	signature := e.passkey.Sign(t, signedBytes)

	e.launcher.respond = func(target string) (string, error) {
		parsed, err := url.Parse(target)
		require.NoError(t, err)
		assert.Equal(t, portal.ActionSign, parsed.Query().Get("action"))
		assert.Equal(t, expectedMessage, parsed.Query().Get("message"))

		return (&portal.SignResponse{
			Signature: signature,
			Message:   signedBytes,
		}).RedirectURL(testCallback), nil
	}
	return signedBytes
}

func TestSign_ExecuteCpi(t *testing.T) {
	env := setupConnected(t)

	recipient := testutil.GenerateSolanaKeys(t, 1)[0]
	transfer := system.Transfer(env.smartWallet, recipient, 1_000)

	signedBytes := env.respondWithSignature(t, DefaultMessage(transfer))
	env.submitter.onSubmit = func(solana.Transaction) (*relayer.Result, error) {
		return &relayer.Result{TransactionID: "executed"}, nil
	}

	result, err := env.driver.Sign(env.ctx, transfer, nil)
	require.NoError(t, err)
	assert.Equal(t, "executed", result.TransactionID)
	assert.Equal(t, signedBytes, result.Message)

	submitted := env.submitter.transactions()
	require.Len(t, submitted, 1)

	txn := submitted[0]
	require.Len(t, txn.Message.Instructions, 2)
	verify := txn.Message.Instructions[0]
	execute := txn.Message.Instructions[1]
	assert.Equal(t, secp256r1.ProgramKey, txn.Message.Accounts[verify.ProgramIndex])
	assert.Equal(t, lazorkit.PROGRAM_ID, txn.Message.Accounts[execute.ProgramIndex])
	assert.Equal(t, env.payer, txn.Message.Accounts[0])

	// Fixed accounts, then the transfer's accounts, then the rule check's
	require.Len(t, execute.Accounts, 11+2+2)
	assert.Equal(t, env.smartWallet, txn.Message.Accounts[execute.Accounts[2]])
	assert.Equal(t, env.authenticator, txn.Message.Accounts[execute.Accounts[4]])
	assert.Equal(t, defaultrule.PROGRAM_ID, txn.Message.Accounts[execute.Accounts[6]])
	assert.Equal(t, system.SystemAccount, txn.Message.Accounts[execute.Accounts[9]])
	assert.Equal(t, lazorkit.PROGRAM_ID, txn.Message.Accounts[execute.Accounts[10]])
	assert.Equal(t, recipient, txn.Message.Accounts[execute.Accounts[12]])
	assert.Equal(t, env.authenticator, txn.Message.Accounts[execute.Accounts[13]])

	// The verify instruction carries the exact signed bytes
	assert.True(t, strings.HasSuffix(string(verify.Data), string(signedBytes)))

	assert.Equal(t, StateResolved, env.driver.LastOutcome().State)
}

func TestSign_CustomMessageAndNewAuthenticator(t *testing.T) {
	env := setupConnected(t)

	newPasskey := testutil.GeneratePasskey(t).PublicKey()
	expectedNewAuthenticator, _, err := lazorkit.GetSmartWalletAuthenticatorAddress(&lazorkit.GetSmartWalletAuthenticatorAddressArgs{
		Passkey:     newPasskey,
		SmartWallet: env.smartWallet,
	})
	require.NoError(t, err)

	recipient := testutil.GenerateSolanaKeys(t, 1)[0]
	transfer := system.Transfer(env.smartWallet, recipient, 1)

	env.respondWithSignature(t, "Add my laptop")

	_, err = env.driver.Sign(env.ctx, transfer, &SignOptions{
		Message:          "Add my laptop",
		NewAuthenticator: newPasskey,
	})
	require.NoError(t, err)

	submitted := env.submitter.transactions()
	require.Len(t, submitted, 1)

	execute := submitted[0].Message.Instructions[1]
	assert.Equal(t, expectedNewAuthenticator, submitted[0].Message.Accounts[execute.Accounts[10]])
}

func TestSign_InvalidOptions(t *testing.T) {
	env := setupConnected(t)

	keys := testutil.GenerateSolanaKeys(t, 2)
	transfer := system.Transfer(keys[0], keys[1], 1)

	_, err := env.driver.Sign(env.ctx, transfer, &SignOptions{NewAuthenticator: make([]byte, 32)})
	assert.ErrorIs(t, err, ErrInvalidKeyMaterial)

	_, err = env.driver.Sign(env.ctx, transfer, &SignOptions{Action: lazorkit.Action(200)})
	assert.ErrorIs(t, err, lazorkit.ErrInvalidInstructionData)

	// Only the initial connect opened the portal
	assert.Len(t, env.launcher.launches(), 1)
}

func TestSign_InvalidRedirect(t *testing.T) {
	for _, redirect := range []string{
		testCallback + "?success=true&signature=c2ln",
		(&portal.SignResponse{Signature: make([]byte, 10), Message: []byte("hello")}).RedirectURL(testCallback),
	} {
		env := setupConnected(t)
		env.launcher.respond = func(string) (string, error) {
			return redirect, nil
		}

		keys := testutil.GenerateSolanaKeys(t, 2)
		_, err := env.driver.Sign(env.ctx, system.Transfer(keys[0], keys[1], 1), nil)
		assert.ErrorIs(t, err, ErrInvalidRedirectPayload, redirect)
		assert.Empty(t, env.submitter.transactions())
		assert.Equal(t, StateIdle, env.driver.State())
	}
}

func TestDisconnect(t *testing.T) {
	env := setupConnected(t)
	require.NotNil(t, env.driver.Wallet())

	require.NoError(t, env.driver.Disconnect(env.ctx))
	assert.Nil(t, env.driver.Wallet())

	keys := testutil.GenerateSolanaKeys(t, 2)
	_, err := env.driver.Sign(env.ctx, system.Transfer(keys[0], keys[1], 1), nil)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestDefaultMessage(t *testing.T) {
	ix := solana.Instruction{Data: []byte("hello")}

	// sha256("hello")
	assert.Equal(t, "LPJNul+wow4m6DsqxbninhsWHlwfp0JecwQzYpOLmCQ=", DefaultMessage(ix))
}
