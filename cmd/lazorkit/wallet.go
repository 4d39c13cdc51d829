package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazor-kit/wallet-client/pkg/auth"
	"github.com/lazor-kit/wallet-client/pkg/session"
	"github.com/lazor-kit/wallet-client/pkg/solana/system"
)

const flagTimeout = "timeout"

func (c *cli) connectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect a passkey and resolve its smart wallet",
		Long: `Opens the LazorKit portal in the system browser to register or select a
passkey. The smart wallet bound to the passkey is looked up on chain, and
created through the paymaster when none exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, err := withTimeout(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			sessions, err := c.sessions(ctx)
			if err != nil {
				return err
			}

			driver, err := c.driver(ctx, sessions)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			wallet, err := driver.Connect(ctx, func(pending *session.WalletInfo) {
				fmt.Fprintf(out, "passkey connected (credential %s), resolving smart wallet\n", pending.CredentialID)
			})
			if err != nil {
				return err
			}

			return printWallet(out, wallet)
		},
	}

	cmd.Flags().Duration(flagTimeout, 5*time.Minute, "maximum time to wait for the portal")
	return cmd
}

func (c *cli) signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign and submit transactions with the connected passkey",
	}

	transfer := &cobra.Command{
		Use:   "transfer <recipient> <lamports>",
		Short: "Transfer lamports from the connected smart wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipient, err := decodeAddress("recipient", args[0])
			if err != nil {
				return err
			}

			lamports, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lamports amount %q", args[1])
			}

			message, err := cmd.Flags().GetString("message")
			if err != nil {
				return err
			}

			ctx, cancel, err := withTimeout(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			sessions, err := c.sessions(ctx)
			if err != nil {
				return err
			}

			wallet := sessions.Current()
			if wallet == nil || !wallet.IsResolved() {
				return auth.ErrNotConnected
			}

			smartWallet, err := decodeAddress("smart wallet", wallet.SmartWallet)
			if err != nil {
				return err
			}

			driver, err := c.driver(ctx, sessions)
			if err != nil {
				return err
			}

			result, err := driver.Sign(ctx, system.Transfer(smartWallet, recipient, lamports), &auth.SignOptions{
				Message: message,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "submitted %s\n", result.TransactionID)
			return nil
		},
	}
	transfer.Flags().Duration(flagTimeout, 5*time.Minute, "maximum time to wait for the portal")
	transfer.Flags().String("message", "", "message shown to the passkey (defaults to the instruction digest)")

	cmd.AddCommand(transfer)
	return cmd
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the persisted wallet session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := c.sessions(cmd.Context())
			if err != nil {
				return err
			}

			wallet := sessions.Current()
			if wallet == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not connected")
				return nil
			}
			return printWallet(cmd.OutOrStdout(), wallet)
		},
	}
}

func (c *cli) disconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the persisted wallet session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := c.sessions(cmd.Context())
			if err != nil {
				return err
			}

			if err := sessions.Clear(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "disconnected")
			return nil
		},
	}
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc, error) {
	timeout, err := cmd.Flags().GetDuration(flagTimeout)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return ctx, cancel, nil
}

type walletOutput struct {
	CredentialID             string `json:"credentialId"`
	PasskeyPubkey            string `json:"passkeyPubkey"`
	Platform                 string `json:"platform,omitempty"`
	SmartWallet              string `json:"smartWallet,omitempty"`
	SmartWalletAuthenticator string `json:"smartWalletAuthenticator,omitempty"`
}

func printWallet(out io.Writer, wallet *session.WalletInfo) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&walletOutput{
		CredentialID:             wallet.CredentialID,
		PasskeyPubkey:            base64.StdEncoding.EncodeToString(wallet.PasskeyPubkey),
		Platform:                 wallet.Platform,
		SmartWallet:              wallet.SmartWallet,
		SmartWalletAuthenticator: wallet.SmartWalletAuthenticator,
	})
}
