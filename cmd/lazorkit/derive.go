package main

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lazor-kit/wallet-client/pkg/solana/lazorkit"
)

func deriveCmd() *cobra.Command {
	var sequence uint64
	var passkey string

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Print the program derived addresses of a smart wallet",
		Long: `Prints the global program accounts and the smart wallet derived for a
sequence number. With --passkey (base64, 33 byte compressed P-256 key) the
authenticator binding the passkey to that wallet is printed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var decodedPasskey []byte
			if len(passkey) > 0 {
				var err error
				decodedPasskey, err = base64.StdEncoding.DecodeString(passkey)
				if err != nil {
					return errors.Wrap(lazorkit.ErrInvalidKeyMaterial, "passkey is not valid base64")
				}
			}

			return printAddresses(cmd.OutOrStdout(), sequence, decodedPasskey)
		},
	}

	cmd.Flags().Uint64Var(&sequence, "sequence", 0, "smart wallet sequence number")
	cmd.Flags().StringVar(&passkey, "passkey", "", "base64 compressed passkey public key")
	return cmd
}

func printAddresses(out io.Writer, sequence uint64, passkey []byte) error {
	config, _, err := lazorkit.GetConfigAddress()
	if err != nil {
		return err
	}
	whitelist, _, err := lazorkit.GetWhitelistRuleProgramsAddress()
	if err != nil {
		return err
	}
	seq, _, err := lazorkit.GetSmartWalletSeqAddress()
	if err != nil {
		return err
	}
	smartWallet, _, err := lazorkit.GetSmartWalletAddress(&lazorkit.GetSmartWalletAddressArgs{
		Sequence: sequence,
	})
	if err != nil {
		return err
	}
	smartWalletConfig, _, err := lazorkit.GetSmartWalletConfigAddress(&lazorkit.GetSmartWalletConfigAddressArgs{
		SmartWallet: smartWallet,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "config:                  %s\n", base58.Encode(config))
	fmt.Fprintf(out, "whitelist_rule_programs: %s\n", base58.Encode(whitelist))
	fmt.Fprintf(out, "smart_wallet_seq:        %s\n", base58.Encode(seq))
	fmt.Fprintf(out, "smart_wallet:            %s\n", base58.Encode(smartWallet))
	fmt.Fprintf(out, "smart_wallet_config:     %s\n", base58.Encode(smartWalletConfig))

	if passkey == nil {
		return nil
	}

	authenticator, _, err := lazorkit.GetSmartWalletAuthenticatorAddress(&lazorkit.GetSmartWalletAuthenticatorAddressArgs{
		Passkey:     passkey,
		SmartWallet: smartWallet,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "smart_wallet_authenticator: %s\n", base58.Encode(authenticator))
	return nil
}
