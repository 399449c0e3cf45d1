package api

import (
	"errors"
	"math/big"
	"net/http"
	"strings"
	"testing"

	"carbon_market/internal/chain"
	"carbon_market/internal/domain"
	"carbon_market/internal/testutil"

	"github.com/stretchr/testify/require"
)

func creditFor(id int64, kind string) chain.Credit {
	return chain.Credit{
		Id:             big.NewInt(id),
		Typeofcredit:   kind,
		Quantity:       big.NewInt(1),
		CertificateURI: "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		ExpiryDate:     big.NewInt(0),
	}
}

func TestWalletUpdateLinksAndSyncs(t *testing.T) {
	e := setup(t, false)
	user := domain.User{Username: "alice", Password: "x"}
	require.NoError(t, e.db.Create(&user).Error)
	e.fake.AddCredit(aliceAddr, creditFor(1, "Forestry"), 10)
	e.fake.AddCredit(aliceAddr, creditFor(2, "Solar"), 20)

	w := e.do(http.MethodPut, "/user/walletUpdate", map[string]any{"wallet_address": strings.ToLower(aliceAddr)}, tokenFor(t, user))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[map[string]any](t, w)
	require.EqualValues(t, 2, resp["synced"])

	var wallet domain.Wallet
	require.NoError(t, e.db.Preload("NFTs").Where("address = ?", aliceAddr).First(&wallet).Error)
	require.Equal(t, user.ID, wallet.UserID)
	require.Len(t, wallet.NFTs, 2)

	// same wallet again is a no-op link plus a resync
	w = e.do(http.MethodPut, "/user/walletUpdate", map[string]any{"wallet_address": aliceAddr}, tokenFor(t, user))
	require.Equal(t, http.StatusOK, w.Code)
	var count int64
	require.NoError(t, e.db.Model(&domain.Wallet{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestWalletUpdateEdgeCases(t *testing.T) {
	e := setup(t, false)
	testutil.SeedWallet(t, e.db, "bob", bobAddr)
	alice := domain.User{Username: "alice", Password: "x"}
	require.NoError(t, e.db.Create(&alice).Error)
	token := tokenFor(t, alice)

	w := e.do(http.MethodPut, "/user/walletUpdate", map[string]any{"wallet_address": nil}, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"Wallet disconnected"}`, w.Body.String())

	w = e.do(http.MethodPut, "/user/walletUpdate", map[string]any{"wallet_address": "0xnothex"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPut, "/user/walletUpdate", map[string]any{"wallet_address": bobAddr}, token)
	require.Equal(t, http.StatusConflict, w.Code)

	e.fake.CreditsErr = errors.New("rpc unavailable")
	w = e.do(http.MethodPut, "/user/walletUpdate", map[string]any{"wallet_address": aliceAddr}, token)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"message":"Failed to process NFTs."}`, w.Body.String())
}
