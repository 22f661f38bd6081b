package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/renproject/darknode-command-center/pkg/darknode"
)

type idOutput struct {
	Hex       string `json:"hex"`
	Base58    string `json:"base58"`
	NetworkID string `json:"networkId"`
}

func newIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "id <hex|base58|network-id>",
		Short: "Convert a darknode ID between its hex, base58 and network ID forms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := darknode.Parse(args[0])
			if err != nil {
				return err
			}

			log.Debug().Str("input", args[0]).Msg("Parsed darknode ID")
			return writeJSON(cmd, idOutput{
				Hex:       id.Hex(),
				Base58:    id.Base58(),
				NetworkID: id.NetworkID(),
			})
		},
	}
}
