package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/renproject/darknode-command-center/pkg/darknode"
	"github.com/renproject/darknode-command-center/pkg/encoding"
	"github.com/renproject/darknode-command-center/pkg/request"
	"github.com/renproject/darknode-command-center/pkg/signing"
)

// EnvPrivateKey holds the operator key when --key is not given
const EnvPrivateKey = "DARKNODE_PRIVATE_KEY"

type claimFlags struct {
	key       string
	asset     string
	node      string
	amount    string
	recipient string
	nonce     string
}

func newClaimCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Build, sign and verify fee claims",
	}

	cmd.AddCommand(newClaimDigestCmd(opts))
	cmd.AddCommand(newClaimSignCmd(opts))
	cmd.AddCommand(newClaimVerifyCmd(opts))

	return cmd
}

func (f *claimFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.asset, "asset", "", "Asset symbol, e.g. BTC")
	cmd.Flags().StringVar(&f.node, "node", "", "Darknode ID in any form")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount in the asset's smallest unit")
	cmd.Flags().StringVar(&f.recipient, "recipient", "", "Recipient address on the asset's chain")
	cmd.Flags().StringVar(&f.nonce, "nonce", "0", "Claim nonce")
	_ = cmd.MarkFlagRequired("asset")
	_ = cmd.MarkFlagRequired("node")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("recipient")
}

func (f *claimFlags) claim() (request.ClaimFees, error) {
	node, err := darknode.Parse(f.node)
	if err != nil {
		return request.ClaimFees{}, err
	}
	amount, err := encoding.ParseDecimal(f.amount)
	if err != nil {
		return request.ClaimFees{}, errors.Wrap(err, "invalid amount")
	}
	nonce, err := encoding.ParseDecimal(f.nonce)
	if err != nil {
		return request.ClaimFees{}, errors.Wrap(err, "invalid nonce")
	}

	claim := request.ClaimFees{
		Asset:     f.asset,
		Node:      node,
		Amount:    amount,
		Recipient: f.recipient,
		Nonce:     nonce,
	}
	return claim, claim.Validate()
}

func (f *claimFlags) privateKey() (*signing.PrivateKey, error) {
	key := f.key
	if key == "" {
		key = os.Getenv(EnvPrivateKey)
	}
	if key == "" {
		return nil, errors.Errorf("no signing key: pass --key or set %s", EnvPrivateKey)
	}
	return signing.ParsePrivateKeyHex(key)
}

func newClaimDigestCmd(opts *rootOptions) *cobra.Command {
	flags := &claimFlags{}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the digest an operator signs for a claim",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := opts.resolveNetwork()
			if err != nil {
				return err
			}
			claim, err := flags.claim()
			if err != nil {
				return err
			}

			d, err := claim.Digest(network)
			if err != nil {
				return err
			}
			return printDigest(cmd, d, nil)
		},
	}
	flags.register(cmd)

	return cmd
}

func newClaimSignCmd(opts *rootOptions) *cobra.Command {
	flags := &claimFlags{}

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a claim and print it as a typed value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := opts.resolveNetwork()
			if err != nil {
				return err
			}
			claim, err := flags.claim()
			if err != nil {
				return err
			}
			key, err := flags.privateKey()
			if err != nil {
				return err
			}

			tv, err := claim.Sign(key, network)
			if err != nil {
				return err
			}

			log.Info().
				Str("network", network.Name).
				Str("asset", claim.Asset).
				Str("node", claim.Node.Base58()).
				Str("signer", key.Address().Hex()).
				Msg("Signed fee claim")
			return writeJSON(cmd, tv)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&flags.key, "key", "", "Hex private key (default: $"+EnvPrivateKey+")")

	return cmd
}

type verifyOutput struct {
	Signer    string `json:"signer"`
	Node      string `json:"node"`
	Asset     string `json:"asset"`
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
	Nonce     string `json:"nonce"`
}

func newClaimVerifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [file]",
		Short: "Recover the signer of a signed claim",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := opts.resolveNetwork()
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			tv, err := network.Codec().UnmarshalTypedValue(data)
			if err != nil {
				return err
			}
			claim, signer, err := request.VerifyClaimFees(tv, network)
			if err != nil {
				return err
			}

			log.Info().
				Str("signer", signer.Hex()).
				Str("node", claim.Node.Base58()).
				Msg("Recovered claim signer")
			return writeJSON(cmd, verifyOutput{
				Signer:    signer.Hex(),
				Node:      claim.Node.Base58(),
				Asset:     claim.Asset,
				Amount:    claim.Amount.Dec(),
				Recipient: claim.Recipient,
				Nonce:     claim.Nonce.Dec(),
			})
		},
	}
}
