package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazor-kit/wallet-client/pkg/relayer"
	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/solana/defaultrule"
)

func (c *cli) buildCmd() *cobra.Command {
	var payer string
	var submit bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build unsigned administrative transactions",
		Long: `Builds unsigned transactions for the LazorKit program administrator. The
transactions are printed base64 encoded, ready for an external signer. With
--submit they are sent to the relayer instead, which signs as the fee payer.`,
	}
	cmd.PersistentFlags().StringVar(&payer, "payer", "", "fee payer and signer address")
	_ = cmd.MarkPersistentFlagRequired("payer")
	cmd.PersistentFlags().BoolVar(&submit, "submit", false, "submit through the relayer instead of printing")

	output := func(cmd *cobra.Command, txn solana.Transaction) error {
		if !submit {
			fmt.Fprintln(cmd.OutOrStdout(), txn.ToBase64())
			return nil
		}

		result, err := relayer.NewClient(relayer.WithEnvConfigs()).SubmitTransaction(cmd.Context(), txn)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "submitted %s\n", result.TransactionID)
		return nil
	}

	initialize := &cobra.Command{
		Use:   "initialize",
		Short: "Initialize the program config, sequence and whitelist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payerKey, err := decodeAddress("payer", payer)
			if err != nil {
				return err
			}

			txn, err := c.smartWallets().InitializeTransaction(cmd.Context(), payerKey, defaultrule.PROGRAM_ID)
			if err != nil {
				return err
			}

			return output(cmd, txn)
		},
	}

	whitelist := &cobra.Command{
		Use:   "whitelist <rule-program>",
		Short: "Add a rule program to the whitelist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payerKey, err := decodeAddress("payer", payer)
			if err != nil {
				return err
			}
			program, err := decodeAddress("rule program", args[0])
			if err != nil {
				return err
			}

			txn, err := c.smartWallets().UpsertWhitelistRuleProgramsTransaction(cmd.Context(), payerKey, program)
			if err != nil {
				return err
			}

			return output(cmd, txn)
		},
	}

	cmd.AddCommand(initialize, whitelist)
	return cmd
}
