// Package walletpanel tracks the connected wallet's address and balance and
// reports address changes to the marketplace backend.
package walletpanel

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/sirupsen/logrus"
)

// AccountProvider reports the account currently connected, nil when none
type AccountProvider interface {
	Account(ctx context.Context) (*common.Address, error)
}

// BalanceReader is satisfied by *ethclient.Client
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// AddressUpdater pushes the connected address to the backend; nil means disconnected
type AddressUpdater interface {
	UpdateAddress(ctx context.Context, address *string) error
}

// State is what the panel displays
type State struct {
	Address    *string
	Balance    *big.Int
	BalanceErr error
}

// String renders the panel text
func (s State) String() string {
	if s.Address == nil {
		return "Connect your wallet to continue"
	}
	var b strings.Builder
	b.WriteString("Wallet Connected: ")
	b.WriteString(ShortAddress(*s.Address))
	b.WriteString("\nBalance: ")
	switch {
	case s.BalanceErr != nil:
		b.WriteString("Error fetching balance")
	case s.Balance == nil:
		b.WriteString("Loading...")
	default:
		b.WriteString(FormatEther(s.Balance))
		b.WriteString(" ETH")
	}
	return b.String()
}

// ShortAddress abbreviates 0x1234567890abcdef... to 0x1234...cdef
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// FormatEther renders wei as ether with four decimals
func FormatEther(wei *big.Int) string {
	eth := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return eth.Text('f', 4)
}

// Panel follows one wallet connection
type Panel struct {
	accounts AccountProvider
	balances BalanceReader
	updater  AddressUpdater
	onChange func(address *string)

	mu       sync.Mutex
	observed bool
	last     *string
	state    State
}

// New returns a Panel. onChange and updater may be nil.
func New(accounts AccountProvider, balances BalanceReader, updater AddressUpdater, onChange func(*string)) *Panel {
	return &Panel{accounts: accounts, balances: balances, updater: updater, onChange: onChange}
}

// State returns the last refreshed state
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Refresh reads the account and balance. When the address differs from the
// last one seen, the callback runs and the address is pushed to the backend.
func (p *Panel) Refresh(ctx context.Context) (State, error) {
	account, err := p.accounts.Account(ctx)
	if err != nil {
		return p.State(), err
	}
	var address *string
	if account != nil {
		a := account.Hex()
		address = &a
	}

	p.mu.Lock()
	changed := !p.observed || !sameAddress(p.last, address)
	p.observed = true
	p.last = address
	p.mu.Unlock()

	if changed {
		p.notify(ctx, address)
	}

	state := State{Address: address}
	if account != nil && p.balances != nil {
		state.Balance, state.BalanceErr = p.balances.BalanceAt(ctx, *account, nil)
		if state.BalanceErr != nil {
			logrus.WithField("address", *address).WithError(state.BalanceErr).Warn("Error fetching balance")
		}
	}

	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	return state, nil
}

func (p *Panel) notify(ctx context.Context, address *string) {
	if p.onChange != nil {
		p.onChange(address)
	}
	if p.updater == nil {
		return
	}
	if err := p.updater.UpdateAddress(ctx, address); err != nil {
		logrus.WithError(err).Warn("Error updating wallet address")
	}
}

// Watch refreshes every interval until ctx ends, calling onState whenever
// the rendered state changes
func (p *Panel) Watch(ctx context.Context, interval time.Duration, onState func(State)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var shown string
	for {
		state, err := p.Refresh(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Failed to read connected account")
		} else if s := state.String(); s != shown {
			shown = s
			if onState != nil {
				onState(state)
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func sameAddress(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return strings.EqualFold(*a, *b)
}
