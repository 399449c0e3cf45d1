// Package marketplace fetches NFTs from the backend and shapes them into the
// auction and direct-sale listings shown to buyers.
package marketplace

import (
	"context"
	"fmt"
	"strings"

	"carbon_market/internal/domain"
	"carbon_market/internal/ipfs"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// enrichLimit bounds concurrent metadata fetches
const enrichLimit = 8

// Listing is an NFT with the metadata read from its certificate
type Listing struct {
	domain.NFT
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// Listings holds the two marketplace partitions
type Listings struct {
	Auction []Listing
	Sale    []Listing
}

// MetadataFetcher resolves a certificate URI to its metadata
type MetadataFetcher interface {
	Fetch(ctx context.Context, uri string) ipfs.Metadata
}

// Client reads listings from the marketplace API
type Client struct {
	http    *resty.Client
	fetcher MetadataFetcher
}

// NewClient returns a Client for the API at baseURL
func NewClient(baseURL string, fetcher MetadataFetcher) *Client {
	return &Client{
		http:    resty.New().SetBaseURL(strings.TrimSuffix(baseURL, "/")),
		fetcher: fetcher,
	}
}

// FetchListings loads every NFT, partitions it and attaches metadata
func (c *Client) FetchListings(ctx context.Context) (Listings, error) {
	var nfts []domain.NFT
	resp, err := c.http.R().SetContext(ctx).SetResult(&nfts).Get("/nft/getAllNFTs")
	if err != nil {
		return Listings{}, fmt.Errorf("fetch nfts: %w", err)
	}
	if resp.IsError() {
		return Listings{}, fmt.Errorf("fetch nfts: unexpected status %d", resp.StatusCode())
	}
	logrus.WithField("count", len(nfts)).Debug("Fetched NFTs")

	listings := Partition(nfts)
	if err := c.enrich(ctx, listings.Auction); err != nil {
		return listings, err
	}
	if err := c.enrich(ctx, listings.Sale); err != nil {
		return listings, err
	}
	return listings, nil
}

// enrich fills image and description in place. Fetch failures leave them empty.
func (c *Client) enrich(ctx context.Context, items []Listing) error {
	if c.fetcher == nil {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for i := range items {
		i := i // per-iteration copy; go.mod targets go1.21
		g.Go(func() error {
			md := c.fetcher.Fetch(gctx, items[i].CertificateURI)
			items[i].Image = md.Image
			items[i].Description = md.Description
			return nil
		})
	}
	return g.Wait()
}

// Partition splits NFTs by sale mode. An NFT with neither flag set is not listed;
// one with both set appears in both partitions.
func Partition(nfts []domain.NFT) Listings {
	out := Listings{Auction: []Listing{}, Sale: []Listing{}}
	for _, n := range nfts {
		if n.IsAuction {
			out.Auction = append(out.Auction, Listing{NFT: n})
		}
		if n.IsDirectSale {
			out.Sale = append(out.Sale, Listing{NFT: n})
		}
	}
	return out
}
