// Package ipfs resolves certificate URIs through an HTTP gateway and reads
// the metadata documents they point to.
package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	cid "github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"
)

const scheme = "ipfs://"

// Metadata is the part of a certificate document shown in listings
type Metadata struct {
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// Fetcher reads metadata through a gateway such as https://ipfs.io/ipfs/
type Fetcher struct {
	gateway string
	client  *resty.Client
}

// NewFetcher returns a Fetcher for gateway. A trailing slash is added if missing.
func NewFetcher(gateway string) *Fetcher {
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return &Fetcher{gateway: gateway, client: resty.New()}
}

// GatewayURL rewrites an ipfs:// URI to the gateway. Other URIs are returned unchanged.
func (f *Fetcher) GatewayURL(uri string) string {
	if !strings.HasPrefix(uri, scheme) {
		return uri
	}
	return f.gateway + strings.TrimPrefix(uri, scheme)
}

// ValidateURI checks that an ipfs:// URI starts with a decodable CID
func ValidateURI(uri string) error {
	if !strings.HasPrefix(uri, scheme) {
		return nil
	}
	root, _, _ := strings.Cut(strings.TrimPrefix(uri, scheme), "/")
	if root == "" {
		return errors.New("ipfs uri has no content id")
	}
	if _, err := cid.Decode(root); err != nil {
		return fmt.Errorf("invalid content id %q: %w", root, err)
	}
	return nil
}

// Fetch returns the metadata behind uri. Failures are logged and yield an
// empty Metadata so callers can still list the token.
func (f *Fetcher) Fetch(ctx context.Context, uri string) Metadata {
	if uri == "" {
		return Metadata{}
	}
	log := logrus.WithField("uri", uri)
	if err := ValidateURI(uri); err != nil {
		log.WithError(err).Warn("Skipping metadata fetch")
		return Metadata{}
	}
	url := f.GatewayURL(uri)
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch IPFS data")
		return Metadata{}
	}
	if resp.IsError() {
		log.WithField("status", resp.StatusCode()).Warn("Failed to fetch IPFS data")
		return Metadata{}
	}
	var md Metadata
	if err := json.Unmarshal(resp.Body(), &md); err != nil {
		log.WithError(err).Warn("Metadata is not valid JSON")
		return Metadata{}
	}
	md.Image = f.GatewayURL(md.Image)
	return md
}
