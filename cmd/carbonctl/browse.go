package main

import (
	"fmt"

	"carbon_market/internal/ipfs"
	"carbon_market/internal/marketplace"

	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	var (
		apiURL  string
		gateway string
		view    marketplace.View
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List NFTs on sale or at auction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if view.Type != marketplace.TypeSale && view.Type != marketplace.TypeAuction {
				return fmt.Errorf("--type must be %q or %q", marketplace.TypeSale, marketplace.TypeAuction)
			}
			if view.Display != marketplace.DisplayGrid && view.Display != marketplace.DisplayList {
				return fmt.Errorf("--view must be %q or %q", marketplace.DisplayGrid, marketplace.DisplayList)
			}
			client := marketplace.NewClient(apiURL, ipfs.NewFetcher(gateway))
			listings, err := client.FetchListings(cmd.Context())
			if err != nil {
				return err
			}
			return marketplace.Render(cmd.OutOrStdout(), view.Apply(listings), view.Display)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", defaultAPI, "Marketplace API base URL")
	cmd.Flags().StringVar(&gateway, "gateway", "https://ipfs.io/ipfs/", "IPFS gateway prefix")
	cmd.Flags().StringVar(&view.Type, "type", marketplace.TypeSale, "Listings to show (sale, auction)")
	cmd.Flags().StringVar(&view.Search, "search", "", "Filter by credit type")
	cmd.Flags().StringVar(&view.Display, "view", marketplace.DisplayGrid, "Display mode (grid, list)")
	return cmd
}
