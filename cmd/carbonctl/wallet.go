package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbon_market/internal/walletpanel"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/spf13/cobra"
)

func walletCmd() *cobra.Command {
	var (
		apiURL   string
		token    string
		rpcURL   string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Follow the node's connected account and keep the backend in step",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rc, err := rpc.DialContext(ctx, rpcURL)
			if err != nil {
				return fmt.Errorf("dial %s: %w", rpcURL, err)
			}
			defer rc.Close()
			client := ethclient.NewClient(rc) // balances over the same connection

			var updater walletpanel.AddressUpdater
			if token != "" {
				updater = walletpanel.NewAPIUpdater(apiURL, token)
			}
			out := cmd.OutOrStdout()
			panel := walletpanel.New(
				walletpanel.NewRPCAccountProvider(rc),
				client,
				updater,
				func(address *string) {
					if address == nil {
						fmt.Fprintln(out, "Wallet disconnected")
						return
					}
					fmt.Fprintf(out, "Wallet changed: %s\n", *address)
				},
			)
			err = panel.Watch(ctx, interval, func(s walletpanel.State) {
				fmt.Fprintln(out, s.String())
			})
			// interrupt or deadline ends the watch normally
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", defaultAPI, "Marketplace API base URL")
	cmd.Flags().StringVar(&token, "token", "", "Session token; without it address changes are not pushed")
	cmd.Flags().StringVar(&rpcURL, "rpc", "http://localhost:8545", "Ethereum JSON-RPC endpoint")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Polling interval")
	return cmd
}
