package walletpanel

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const addrA = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
const addrB = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"

type stubAccounts struct{ addr *common.Address }

func (s *stubAccounts) Account(context.Context) (*common.Address, error) { return s.addr, nil }

func (s *stubAccounts) set(hex string) {
	if hex == "" {
		s.addr = nil
		return
	}
	a := common.HexToAddress(hex)
	s.addr = &a
}

type stubBalances struct{ err error }

func (s stubBalances) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	if s.err != nil {
		return nil, s.err
	}
	return new(big.Int).Mul(big.NewInt(15), big.NewInt(1e17)), nil
}

type stubUpdater struct {
	pushed []*string
	err    error
}

func (s *stubUpdater) UpdateAddress(_ context.Context, address *string) error {
	s.pushed = append(s.pushed, address)
	return s.err
}

func TestRefreshNotifiesOnChange(t *testing.T) {
	accounts := &stubAccounts{}
	updater := &stubUpdater{}
	var seen []*string
	p := New(accounts, stubBalances{}, updater, func(a *string) { seen = append(seen, a) })
	ctx := context.Background()

	// first observation with nothing connected still notifies
	state, err := p.Refresh(ctx)
	require.NoError(t, err)
	require.Nil(t, state.Address)
	require.Len(t, seen, 1)
	require.Nil(t, seen[0])

	accounts.set(addrA)
	state, err = p.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, addrA, *state.Address)
	require.Len(t, seen, 2)

	// unchanged address
	_, err = p.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, seen, 2)

	accounts.set(addrB)
	_, _ = p.Refresh(ctx)
	accounts.set("")
	_, _ = p.Refresh(ctx)
	require.Len(t, seen, 4)
	require.Equal(t, addrB, *seen[2])
	require.Nil(t, seen[3])
	require.Equal(t, seen, updater.pushed)
}

func TestRefreshToleratesPushFailure(t *testing.T) {
	accounts := &stubAccounts{}
	accounts.set(addrA)
	updater := &stubUpdater{err: errors.New("backend down")}
	p := New(accounts, stubBalances{}, updater, nil)

	state, err := p.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, addrA, *state.Address)
	require.Len(t, updater.pushed, 1)
	require.Equal(t, "Wallet Connected: 0x7099...79C8\nBalance: 1.5000 ETH", state.String())
	require.Equal(t, state, p.State())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "Connect your wallet to continue", State{}.String())
	a := addrA
	require.Equal(t, "Wallet Connected: 0x7099...79C8\nBalance: Error fetching balance",
		State{Address: &a, BalanceErr: errors.New("rpc")}.String())

	p := New(&stubAccounts{addr: func() *common.Address { c := common.HexToAddress(addrA); return &c }()},
		stubBalances{err: errors.New("rpc")}, nil, nil)
	state, err := p.Refresh(context.Background())
	require.NoError(t, err)
	require.Error(t, state.BalanceErr)
}

func TestWatchStopsOnCancel(t *testing.T) {
	accounts := &stubAccounts{}
	accounts.set(addrA)
	p := New(accounts, stubBalances{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	var states []State
	done := make(chan error, 1)
	go func() {
		done <- p.Watch(ctx, 5*time.Millisecond, func(s State) {
			states = append(states, s)
			cancel()
		})
	}()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
	require.Len(t, states, 1)
}

func TestAPIUpdater(t *testing.T) {
	var got map[string]*string
	var cookie, route string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route = r.Method + " " + r.URL.Path
		if c, err := r.Cookie("token"); err == nil {
			cookie = c.Value
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got["wallet_address"] != nil && *got["wallet_address"] == addrB {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u := NewAPIUpdater(srv.URL, "session")
	a := addrA
	require.NoError(t, u.UpdateAddress(context.Background(), &a))
	require.Equal(t, "PUT /user/walletUpdate", route)
	require.Equal(t, "session", cookie)
	require.Equal(t, addrA, *got["wallet_address"])

	require.NoError(t, u.UpdateAddress(context.Background(), nil))
	require.Nil(t, got["wallet_address"])

	b := addrB
	require.ErrorContains(t, u.UpdateAddress(context.Background(), &b), "409")
}
