package marketplace

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"carbon_market/internal/domain"
	"carbon_market/internal/ipfs"

	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls []string
	data  map[string]ipfs.Metadata
}

func (s *stubFetcher) Fetch(_ context.Context, uri string) ipfs.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, uri)
	return s.data[uri]
}

func sample() []domain.NFT {
	return []domain.NFT{
		{TokenID: "1", TypeofCredit: "Forestry", CertificateURI: "ipfs://a", IsAuction: true},
		{TokenID: "2", TypeofCredit: "Solar Energy", CertificateURI: "ipfs://b", IsDirectSale: true},
		{TokenID: "3", TypeofCredit: "Wind", CertificateURI: "ipfs://c", IsDirectSale: true},
		{TokenID: "4", TypeofCredit: "Methane capture"},
	}
}

func TestPartition(t *testing.T) {
	l := Partition(sample())
	require.Len(t, l.Auction, 1)
	require.Equal(t, "1", l.Auction[0].TokenID)
	require.Len(t, l.Sale, 2)
	for _, s := range l.Sale {
		require.NotEqual(t, "1", s.TokenID)
	}
}

func TestViewApply(t *testing.T) {
	l := Partition(sample())

	got := View{Type: TypeAuction}.Apply(l)
	require.Len(t, got, 1)

	got = View{Type: TypeSale, Search: "sOLAR"}.Apply(l)
	require.Len(t, got, 1)
	require.Equal(t, "2", got[0].TokenID)

	got = View{Type: TypeSale, Search: "forest"}.Apply(l)
	require.Empty(t, got)

	got = View{Type: TypeAuction, Search: "FOREST"}.Apply(l)
	require.Len(t, got, 1)
}

func TestFetchListings(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"tokenId":"1","typeofCredit":"Forestry","certificateURI":"ipfs://a","isAuction":true,"isDirectSale":false},
			{"tokenId":"2","typeofCredit":"Solar","certificateURI":"ipfs://b","isAuction":false,"isDirectSale":true}
		]`))
	}))
	defer srv.Close()

	fetcher := &stubFetcher{data: map[string]ipfs.Metadata{
		"ipfs://a": {Image: "https://gw/a.png", Description: "Old growth"},
	}}
	l, err := NewClient(srv.URL+"/", fetcher).FetchListings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/nft/getAllNFTs", path)
	require.Len(t, l.Auction, 1)
	require.Equal(t, "https://gw/a.png", l.Auction[0].Image)
	require.Equal(t, "Old growth", l.Auction[0].Description)
	require.Len(t, l.Sale, 1)
	require.Empty(t, l.Sale[0].Image)
	require.ElementsMatch(t, []string{"ipfs://a", "ipfs://b"}, fetcher.calls)
}

func TestFetchListingsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).FetchListings(context.Background())
	require.ErrorContains(t, err, "500")
}

func TestRender(t *testing.T) {
	items := View{Type: TypeSale}.Apply(Partition(sample()))

	var list bytes.Buffer
	require.NoError(t, Render(&list, items, DisplayList))
	lines := strings.Split(strings.TrimSpace(list.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "TOKEN"))
	require.Contains(t, list.String(), "Solar Energy")

	var grid bytes.Buffer
	require.NoError(t, Render(&grid, items, DisplayGrid))
	require.Contains(t, grid.String(), "#2 Solar Energy")
	require.Contains(t, grid.String(), "#3 Wind")
	require.Contains(t, grid.String(), "expires never")

	var empty bytes.Buffer
	require.NoError(t, Render(&empty, nil, DisplayGrid))
	require.Equal(t, "No NFTs found.\n", empty.String())
}
