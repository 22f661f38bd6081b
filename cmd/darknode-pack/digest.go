package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renproject/darknode-command-center/pkg/digest"
)

func newDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "SHA-256 digests in sanitized base64",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "string <text>",
		Short: "Digest of UTF-8 text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), digest.FromUTF8String(args[0]))
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "base64 <data>",
		Short: "Digest of base64-encoded bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := digest.FromBase64String(args[0])
			return printDigest(cmd, d, err)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "chain <a> <b>",
		Short: "Digest of the concatenation of two base64 values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := digest.Chained(args[0], args[1])
			return printDigest(cmd, d, err)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "fold [parts...]",
		Short: "Left fold of base64 values with chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := digest.Fold(args...)
			return printDigest(cmd, d, err)
		},
	})

	return cmd
}

func printDigest(cmd *cobra.Command, d string, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), d)
	return err
}
