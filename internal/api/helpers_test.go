package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"carbon_market/internal/chain/chaintest"
	"carbon_market/internal/domain"
	"carbon_market/internal/middleware"
	"carbon_market/internal/nftsync"
	"carbon_market/internal/testutil"
	"carbon_market/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret = "test-secret"
	ownerAddr  = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	aliceAddr  = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	bobAddr    = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

type env struct {
	r    *gin.Engine
	db   *gorm.DB
	fake *chaintest.FakeContract
}

func setup(t *testing.T, reconcile bool) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	fake := chaintest.New()
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:                     db,
		Contract:               fake,
		Syncer:                 nftsync.New(db, fake),
		JWTSecret:              testSecret,
		OwnerAddress:           ownerAddr,
		ReconcileAfterTransfer: reconcile,
	})
	return &env{r: r, db: db, fake: fake}
}

// tokenFor returns a session token for user
func tokenFor(t *testing.T, user domain.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(user.ID, testSecret)
	require.NoError(t, err)
	return token
}

func (e *env) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
