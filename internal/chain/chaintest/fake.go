// Package chaintest provides an in-memory chain.Contract for tests.
package chaintest

import (
	"context"
	"math/big"
	"sync"

	"carbon_market/internal/chain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Transfer is one recorded SafeTransferFrom call.
type Transfer struct {
	From, To string
	TokenID  *big.Int
}

// FakeContract serves credits and rates from maps and records transfers.
type FakeContract struct {
	mu sync.Mutex

	Credits map[string][]chain.Credit // keyed by owner address
	Rates   map[string]*big.Int       // keyed by token id

	CreditsErr  error
	RateErr     error
	TransferErr error

	RateCalls int
	Transfers []Transfer
}

var _ chain.Contract = (*FakeContract)(nil)

// New returns an empty FakeContract.
func New() *FakeContract {
	return &FakeContract{
		Credits: map[string][]chain.Credit{},
		Rates:   map[string]*big.Int{},
	}
}

// AddCredit registers a credit owned by owner with the given rate.
func (f *FakeContract) AddCredit(owner string, credit chain.Credit, rate int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Credits[owner] = append(f.Credits[owner], credit)
	f.Rates[credit.Id.String()] = big.NewInt(rate)
}

func (f *FakeContract) CreditsByOwner(_ context.Context, owner string) ([]chain.Credit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreditsErr != nil {
		return nil, f.CreditsErr
	}
	return append([]chain.Credit(nil), f.Credits[owner]...), nil
}

func (f *FakeContract) Rate(_ context.Context, tokenID *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RateCalls++
	if f.RateErr != nil {
		return nil, f.RateErr
	}
	if r, ok := f.Rates[tokenID.String()]; ok {
		return new(big.Int).Set(r), nil
	}
	return big.NewInt(0), nil
}

func (f *FakeContract) SafeTransferFrom(_ context.Context, from, to string, tokenID *big.Int) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TransferErr != nil {
		return nil, f.TransferErr
	}
	f.Transfers = append(f.Transfers, Transfer{From: from, To: to, TokenID: tokenID})
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      common.BigToHash(big.NewInt(int64(len(f.Transfers)))),
		BlockNumber: big.NewInt(1),
		Logs:        []*types.Log{},
	}, nil
}
