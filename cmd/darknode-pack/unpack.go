package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/renproject/darknode-command-center/pkg/pack"
	"github.com/renproject/darknode-command-center/pkg/request"
)

type unpackOutput struct {
	Type      string          `json:"type"`
	Canonical pack.TypedValue `json:"canonical"`
	Digest    string          `json:"digest"`
}

func newUnpackCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unpack [file]",
		Short: "Decode a {t, v} document and print its canonical form and digest",
		Long: `Reads a typed Pack value from file, or stdin when no file or "-" is
given. The value is checked against its type, re-encoded in canonical
form and digested with the request digest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := opts.resolveNetwork()
			if err != nil {
				return err
			}
			codec := network.Codec()

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			tv, err := codec.UnmarshalTypedValue(data)
			if err != nil {
				return err
			}
			native, err := codec.DecodeTypedValue(tv)
			if err != nil {
				return err
			}

			canonical, err := codec.NewTypedValue(tv.Type, native)
			if err != nil {
				return err
			}
			d, err := request.DigestWithCodec(codec, tv.Type, native)
			if err != nil {
				return err
			}

			log.Debug().Stringer("type", tv.Type).Str("digest", d).Msg("Unpacked value")
			return writeJSON(cmd, unpackOutput{
				Type:      tv.Type.String(),
				Canonical: canonical,
				Digest:    d,
			})
		},
	}
}

