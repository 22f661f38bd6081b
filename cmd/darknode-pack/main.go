// darknode-pack - operator tooling for darknode identifiers and Pack values
//
// Example usage:
//
//	# Show every form of a darknode ID
//	darknode-pack id 0xdf88bc963E614FAB2bda81c298056ba18e01A424
//
//	# Decode a {t, v} document and print its canonical form and digest
//	darknode-pack unpack request.json
//
//	# Sign a fee claim for testnet
//	darknode-pack claim sign --network testnet --key $KEY \
//	    --asset BTC --node 8MKAUt5TKKdP4PpKmgfjEBwcXSbbXq \
//	    --amount 3500000 --recipient 3BXVSSgpDzN79JLyUwcWtCTVCG48D35s2t
//
// The network defaults to DARKNODE_NETWORK and the Pack depth limit to
// DARKNODE_PACK_MAX_DEPTH.
package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/renproject/darknode-command-center/pkg/config"
)

// Version is set at build time
var Version = "dev"

type rootOptions struct {
	network string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "darknode-pack",
		Short:         "Darknode identifier and Pack value tools",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).
				With().Timestamp().Logger()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.network, "network", "n", "", "Network name (default: $"+config.EnvNetwork+" or mainnet)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newIDCmd())
	cmd.AddCommand(newDigestCmd())
	cmd.AddCommand(newUnpackCmd(opts))
	cmd.AddCommand(newClaimCmd(opts))

	return cmd
}

// resolveNetwork selects the --network flag when given and
// DARKNODE_NETWORK otherwise, with the environment's depth limit.
func (o *rootOptions) resolveNetwork() (config.Network, error) {
	network, err := config.FromEnvNamed(o.network)
	if err != nil {
		return config.Network{}, err
	}

	log.Debug().
		Str("network", network.Name).
		Int("maxPackDepth", network.MaxPackDepth).
		Msg("Resolved network")
	return network, nil
}

// readInput reads the named file, or stdin for "-" or no name.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
