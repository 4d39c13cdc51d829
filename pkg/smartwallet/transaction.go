package smartwallet

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lazor-kit/wallet-client/pkg/metrics"
	"github.com/lazor-kit/wallet-client/pkg/retry"
	"github.com/lazor-kit/wallet-client/pkg/retry/backoff"
	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/defaultrule"
	"github.com/lazor-kit/wallet-client/pkg/solana/lazorkit"
	"github.com/lazor-kit/wallet-client/pkg/solana/secp256r1"
	"github.com/lazor-kit/wallet-client/pkg/solana/system"
)

var (
	ErrTransactionFailed       = errors.New("transaction failed on chain")
	ErrConfirmationNotObserved = errors.New("transaction confirmation not observed")
)

type CreateSmartWalletArgs struct {
	Passkey []byte
	Payer   ed25519.PublicKey

	// Rule initialization for the new wallet. The default rule's initRule
	// targeting the new authenticator is used when nil.
	RuleInstruction *solana.Instruction
}

type CreateSmartWalletResult struct {
	Transaction              solana.Transaction
	Sequence                 uint64
	SmartWallet              ed25519.PublicKey
	SmartWalletAuthenticator ed25519.PublicKey
}

// CreateSmartWalletTransaction builds an unsigned createSmartWallet
// transaction targeting the wallet derived from the currently observed
// sequence value. If another creation lands first, the target is stale and
// the program rejects the transaction.
func (c *Client) CreateSmartWalletTransaction(ctx context.Context, args *CreateSmartWalletArgs) (*CreateSmartWalletResult, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "CreateSmartWalletTransaction")
	defer tracer.End()

	if len(args.Passkey) != lazorkit.PasskeyPublicKeySize {
		return nil, lazorkit.ErrInvalidKeyMaterial
	}

	result, err := c.createSmartWalletTransaction(ctx, args)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return result, nil
}

func (c *Client) createSmartWalletTransaction(ctx context.Context, args *CreateSmartWalletArgs) (*CreateSmartWalletResult, error) {
	config, err := c.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	seq, err := c.GetSmartWalletSeq(ctx)
	if err != nil {
		return nil, err
	}

	addresses, err := deriveWalletAddresses(seq.Seq, args.Passkey)
	if err != nil {
		return nil, err
	}

	var ruleInstruction solana.Instruction
	if args.RuleInstruction != nil {
		ruleInstruction = *args.RuleInstruction
	} else {
		rule, _, err := defaultrule.GetRuleAddress(&defaultrule.GetRuleAddressArgs{
			SmartWallet: addresses.smartWallet,
		})
		if err != nil {
			return nil, err
		}

		ruleInstruction = defaultrule.NewInitRuleInstruction(&defaultrule.InitRuleInstructionAccounts{
			Payer:                    args.Payer,
			SmartWallet:              addresses.smartWallet,
			SmartWalletAuthenticator: addresses.smartWalletAuthenticator,
			Rule:                     rule,
		})
	}

	ix, err := lazorkit.NewCreateSmartWalletInstruction(
		&lazorkit.CreateSmartWalletInstructionAccounts{
			Signer:                   args.Payer,
			SmartWalletSeq:           addresses.smartWalletSeq,
			WhitelistRulePrograms:    addresses.whitelistRulePrograms,
			SmartWallet:              addresses.smartWallet,
			SmartWalletConfig:        addresses.smartWalletConfig,
			SmartWalletAuthenticator: addresses.smartWalletAuthenticator,
			Config:                   addresses.config,
			DefaultRuleProgram:       config.DefaultRuleProgram,
			RemainingAccounts:        lazorkit.RemapAccounts(ruleInstruction.Accounts, args.Payer),
		},
		&lazorkit.CreateSmartWalletInstructionArgs{
			PasskeyPubkey: args.Passkey,
			RuleData:      ruleInstruction.Data,
		},
	)
	if err != nil {
		return nil, err
	}

	txn, err := c.newTransaction(ctx, args.Payer, ix)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"method":       "CreateSmartWalletTransaction",
		"sequence":     seq.Seq,
		"smart_wallet": base58.Encode(addresses.smartWallet),
	}).Debug("built create smart wallet transaction")

	return &CreateSmartWalletResult{
		Transaction:              txn,
		Sequence:                 seq.Seq,
		SmartWallet:              addresses.smartWallet,
		SmartWalletAuthenticator: addresses.smartWalletAuthenticator,
	}, nil
}

type ExecuteInstructionArgs struct {
	Passkey     []byte
	Payer       ed25519.PublicKey
	SmartWallet ed25519.PublicKey

	// The exact bytes approved by the passkey and the resulting signature
	Message   []byte
	Signature []byte

	RuleInstruction solana.Instruction
	CpiInstruction  *solana.Instruction

	Action lazorkit.Action

	// Optional passkey of a new authenticator to bind to the smart wallet
	NewAuthenticatorPasskey []byte
}

type ExecuteInstructionResult struct {
	Transaction solana.Transaction

	// Always [secp256r1 verification, executeInstruction]
	Instructions []solana.Instruction

	RemainingAccounts []solana.AccountMeta
	RuleData          lazorkit.CpiData
	CpiData           *lazorkit.CpiData
}

// ExecuteInstructionTransaction builds an unsigned transaction that verifies
// the passkey signature and executes through the smart wallet.
func (c *Client) ExecuteInstructionTransaction(ctx context.Context, args *ExecuteInstructionArgs) (*ExecuteInstructionResult, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ExecuteInstructionTransaction")
	defer tracer.End()

	result, err := BuildExecuteInstructions(args)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	txn, err := c.newTransaction(ctx, args.Payer, result.Instructions...)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	result.Transaction = txn

	return result, nil
}

// BuildExecuteInstructions assembles the two instructions of an execute
// transaction without reading chain state.
func BuildExecuteInstructions(args *ExecuteInstructionArgs) (*ExecuteInstructionResult, error) {
	if len(args.Passkey) != lazorkit.PasskeyPublicKeySize {
		return nil, lazorkit.ErrInvalidKeyMaterial
	}
	if args.NewAuthenticatorPasskey != nil && len(args.NewAuthenticatorPasskey) != lazorkit.PasskeyPublicKeySize {
		return nil, lazorkit.ErrInvalidKeyMaterial
	}

	authenticator, _, err := lazorkit.GetSmartWalletAuthenticatorAddress(&lazorkit.GetSmartWalletAuthenticatorAddressArgs{
		Passkey:     args.Passkey,
		SmartWallet: args.SmartWallet,
	})
	if err != nil {
		return nil, err
	}

	smartWalletConfig, _, err := lazorkit.GetSmartWalletConfigAddress(&lazorkit.GetSmartWalletConfigAddressArgs{
		SmartWallet: args.SmartWallet,
	})
	if err != nil {
		return nil, err
	}

	config, _, err := lazorkit.GetConfigAddress()
	if err != nil {
		return nil, err
	}

	whitelist, _, err := lazorkit.GetWhitelistRuleProgramsAddress()
	if err != nil {
		return nil, err
	}

	var newAuthenticator ed25519.PublicKey
	if args.NewAuthenticatorPasskey != nil {
		newAuthenticator, _, err = lazorkit.GetSmartWalletAuthenticatorAddress(&lazorkit.GetSmartWalletAuthenticatorAddressArgs{
			Passkey:     args.NewAuthenticatorPasskey,
			SmartWallet: args.SmartWallet,
		})
		if err != nil {
			return nil, err
		}
	}

	remaining, ruleData, cpiData, err := lazorkit.PackRemainingAccounts(args.RuleInstruction, args.CpiInstruction, args.Payer)
	if err != nil {
		return nil, err
	}

	var cpiProgram ed25519.PublicKey
	if args.CpiInstruction != nil {
		cpiProgram = args.CpiInstruction.Program
	}

	verifyIx, err := secp256r1.Instruction(args.Message, args.Passkey, args.Signature)
	if err != nil {
		return nil, err
	}

	executeIx, err := lazorkit.NewExecuteInstructionInstruction(
		&lazorkit.ExecuteInstructionInstructionAccounts{
			Payer:                       args.Payer,
			Config:                      config,
			SmartWallet:                 args.SmartWallet,
			SmartWalletConfig:           smartWalletConfig,
			SmartWalletAuthenticator:    authenticator,
			WhitelistRulePrograms:       whitelist,
			AuthenticatorProgram:        args.RuleInstruction.Program,
			CpiProgram:                  cpiProgram,
			NewSmartWalletAuthenticator: newAuthenticator,
			RemainingAccounts:           remaining,
		},
		&lazorkit.ExecuteInstructionInstructionArgs{
			PasskeyPubkey:          args.Passkey,
			Signature:              args.Signature,
			Message:                args.Message,
			VerifyInstructionIndex: verifyInstructionIndex,
			RuleData:               ruleData,
			CpiData:                cpiData,
			Action:                 args.Action,
			CreateNewAuthenticator: args.NewAuthenticatorPasskey,
		},
	)
	if err != nil {
		return nil, err
	}

	return &ExecuteInstructionResult{
		Instructions:      []solana.Instruction{verifyIx, executeIx},
		RemainingAccounts: remaining,
		RuleData:          ruleData,
		CpiData:           cpiData,
	}, nil
}

// DepositTransaction builds an unsigned system transfer from payer into a
// smart wallet.
func (c *Client) DepositTransaction(ctx context.Context, payer, smartWallet ed25519.PublicKey, lamports uint64) (solana.Transaction, error) {
	return c.newTransaction(ctx, payer, system.Transfer(payer, smartWallet, lamports))
}

// InitializeTransaction builds the one time program initialization.
func (c *Client) InitializeTransaction(ctx context.Context, payer, defaultRuleProgram ed25519.PublicKey) (solana.Transaction, error) {
	config, _, err := lazorkit.GetConfigAddress()
	if err != nil {
		return solana.Transaction{}, err
	}
	whitelist, _, err := lazorkit.GetWhitelistRuleProgramsAddress()
	if err != nil {
		return solana.Transaction{}, err
	}
	seq, _, err := lazorkit.GetSmartWalletSeqAddress()
	if err != nil {
		return solana.Transaction{}, err
	}

	return c.newTransaction(ctx, payer, lazorkit.NewInitializeInstruction(&lazorkit.InitializeInstructionAccounts{
		Signer:                payer,
		Config:                config,
		WhitelistRulePrograms: whitelist,
		SmartWalletSeq:        seq,
		DefaultRuleProgram:    defaultRuleProgram,
	}))
}

// UpsertWhitelistRuleProgramsTransaction builds a transaction adding program
// to the rule program whitelist.
func (c *Client) UpsertWhitelistRuleProgramsTransaction(ctx context.Context, payer, program ed25519.PublicKey) (solana.Transaction, error) {
	whitelist, _, err := lazorkit.GetWhitelistRuleProgramsAddress()
	if err != nil {
		return solana.Transaction{}, err
	}

	return c.newTransaction(ctx, payer, lazorkit.NewUpsertWhitelistRuleProgramsInstruction(
		&lazorkit.UpsertWhitelistRuleProgramsInstructionAccounts{
			Signer:                payer,
			WhitelistRulePrograms: whitelist,
		},
		&lazorkit.UpsertWhitelistRuleProgramsInstructionArgs{
			ProgramId: program,
		},
	))
}

// WaitForConfirmation polls until the signature reaches the confirmed
// commitment level, fails on chain, or ctx is done.
func (c *Client) WaitForConfirmation(ctx context.Context, sig solana.Signature, pollInterval time.Duration, maxAttempts uint) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "WaitForConfirmation")
	defer tracer.End()

	log := c.log.WithFields(logrus.Fields{
		"method": "WaitForConfirmation",
		"txn_id": base58.Encode(sig[:]),
	})

	var txnErr error
	attempts, err := retry.Retry(
		ctx,
		func() error {
			statuses, err := c.sc.GetSignatureStatuses([]solana.Signature{sig})
			if err != nil {
				return err
			}

			if len(statuses) == 0 || statuses[0] == nil {
				return ErrConfirmationNotObserved
			}

			status := statuses[0]
			if status.ErrorResult != nil {
				txnErr = status.ErrorResult
				return nil
			}
			if !status.Confirmed() {
				return ErrConfirmationNotObserved
			}
			return nil
		},
		retry.Limit(maxAttempts),
		retry.Backoff(backoff.Constant(pollInterval), pollInterval),
	)
	metrics.RecordCount(ctx, confirmationAttemptsMetricName, uint64(attempts))

	if err == nil && txnErr != nil {
		err = errors.Wrap(ErrTransactionFailed, txnErr.Error())
	}
	if err != nil {
		log.WithError(err).Warn("transaction not confirmed")
		tracer.OnError(err)
		return err
	}

	log.Debug("transaction confirmed")
	return nil
}

func (c *Client) newTransaction(ctx context.Context, payer ed25519.PublicKey, instructions ...solana.Instruction) (solana.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return solana.Transaction{}, err
	}

	blockhash, err := c.sc.GetLatestBlockhash()
	if err != nil {
		return solana.Transaction{}, errors.Wrap(err, "error getting latest blockhash")
	}

	txn := solana.NewTransaction(payer, instructions...)
	txn.SetBlockhash(blockhash)
	return txn, nil
}

type walletAddresses struct {
	smartWalletSeq           ed25519.PublicKey
	smartWallet              ed25519.PublicKey
	smartWalletConfig        ed25519.PublicKey
	smartWalletAuthenticator ed25519.PublicKey
	whitelistRulePrograms    ed25519.PublicKey
	config                   ed25519.PublicKey
}

func deriveWalletAddresses(seq uint64, passkey []byte) (*walletAddresses, error) {
	var res walletAddresses
	var err error

	res.smartWalletSeq, _, err = lazorkit.GetSmartWalletSeqAddress()
	if err != nil {
		return nil, err
	}

	res.smartWallet, _, err = lazorkit.GetSmartWalletAddress(&lazorkit.GetSmartWalletAddressArgs{
		Sequence: seq,
	})
	if err != nil {
		return nil, err
	}

	res.smartWalletConfig, _, err = lazorkit.GetSmartWalletConfigAddress(&lazorkit.GetSmartWalletConfigAddressArgs{
		SmartWallet: res.smartWallet,
	})
	if err != nil {
		return nil, err
	}

	res.smartWalletAuthenticator, _, err = lazorkit.GetSmartWalletAuthenticatorAddress(&lazorkit.GetSmartWalletAuthenticatorAddressArgs{
		Passkey:     passkey,
		SmartWallet: res.smartWallet,
	})
	if err != nil {
		return nil, err
	}

	res.whitelistRulePrograms, _, err = lazorkit.GetWhitelistRuleProgramsAddress()
	if err != nil {
		return nil, err
	}

	res.config, _, err = lazorkit.GetConfigAddress()
	if err != nil {
		return nil, err
	}

	return &res, nil
}
