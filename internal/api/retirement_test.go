package api

import (
	"math/big"
	"net/http"
	"testing"

	"carbon_market/internal/domain"
	"carbon_market/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestSummarizeRetirements(t *testing.T) {
	wallets := []domain.Wallet{
		{Address: aliceAddr, CreditRetirements: []domain.CreditRetirement{
			{Quantity: "3"}, {Quantity: "5"}, {Quantity: "2"},
		}},
		{Address: bobAddr},
		{Address: ownerAddr, CreditRetirements: []domain.CreditRetirement{
			{Quantity: "4"}, {Quantity: "n/a"},
		}},
	}
	got := SummarizeRetirements(wallets)
	require.Len(t, got, 3)
	require.Equal(t, 3, got[0].TotalRetiredCount)
	require.Zero(t, got[0].TotalQuantityRetired.Cmp(big.NewInt(10)))
	require.Equal(t, 0, got[1].TotalRetiredCount)
	require.Zero(t, got[1].TotalQuantityRetired.Sign())
	require.Equal(t, 2, got[2].TotalRetiredCount)
	require.Zero(t, got[2].TotalQuantityRetired.Cmp(big.NewInt(4)))
}

func TestRetirementReport(t *testing.T) {
	e := setup(t, false)
	testutil.SeedWallet(t, e.db, "alice", aliceAddr)
	testutil.SeedWallet(t, e.db, "bob", bobAddr)
	for _, q := range []string{"3", "5", "2"} {
		require.NoError(t, e.db.Create(&domain.CreditRetirement{WalletAddress: aliceAddr, TokenID: "1", Quantity: q}).Error)
	}

	w := e.do(http.MethodGet, "/nft/retired", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[
		{"walletAddress":"`+aliceAddr+`","totalRetiredCount":3,"totalQuantityRetired":10},
		{"walletAddress":"`+bobAddr+`","totalRetiredCount":0,"totalQuantityRetired":0}
	]`, w.Body.String())
}
